package lang

import (
	"strconv"
)

// maxNesting bounds how deeply expressions and blocks may nest.
const maxNesting = 1000

// primaryStart lists the token kinds that may begin an expression.
var primaryStart = []Kind{NUMBER, STRING, IDENTIFIER, LPAREN, MINUS}

// ParseTokens parses a token sequence produced by [Lex] into a [Program].
//
// The grammar is LL(1): every decision looks at one token and nothing is ever
// backtracked. The first mismatch is returned as a [*ParseError].
func ParseTokens(toks []Token) (*Program, error) {
	p := &parser{toks: toks, end: Position{Line: 1, Column: 1}}

	if n := len(toks); n > 0 {
		p.end = toks[n-1].Pos.advance(toks[n-1].Text)
	}

	return p.parseProgram()
}

// parse lexes and parses src without consulting the cache.
func parse(src string) (*Program, error) {
	toks, err := Lex(src)
	if err != nil {
		return nil, err
	}

	return ParseTokens(toks)
}

// parser holds the parser state.
type parser struct {
	toks  []Token
	pos   int
	end   Position
	depth int
}

// enter descends one nesting level; each successful call must be paired
// with leave.
func (p *parser) enter() error {
	if p.depth >= maxNesting {
		tok := p.peek()

		return &ParseError{
			Err:    ErrMaxNesting,
			Actual: tok.Kind,
			Text:   tok.Text,
			Pos:    tok.Pos,
		}
	}

	p.depth++

	return nil
}

func (p *parser) leave() { p.depth-- }

func (p *parser) peek() Token {
	if p.pos >= len(p.toks) {
		return Token{Kind: EOF, Pos: p.end}
	}

	return p.toks[p.pos]
}

func (p *parser) next() Token {
	tok := p.peek()
	if tok.Kind != EOF {
		p.pos++
	}

	return tok
}

func (p *parser) at(kinds ...Kind) bool {
	k := p.peek().Kind
	for _, want := range kinds {
		if k == want {
			return true
		}
	}

	return false
}

func (p *parser) consume(kind Kind) (Token, error) {
	if p.at(kind) {
		return p.next(), nil
	}

	return Token{}, p.unexpected(kind)
}

func (p *parser) unexpected(expected ...Kind) *ParseError {
	tok := p.peek()

	return &ParseError{
		Expected: expected,
		Actual:   tok.Kind,
		Text:     tok.Text,
		Pos:      tok.Pos,
	}
}

func (p *parser) parseProgram() (*Program, error) {
	prog := &Program{Body: []Stmt{}}

	for !p.at(EOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}

		prog.Body = append(prog.Body, stmt)
	}

	return prog, nil
}

func (p *parser) parseStatement() (Stmt, error) {
	switch p.peek().Kind {
	case MILTVAR:
		return p.parseVarDecl()
	case FUNC:
		return p.parseFuncDecl()
	case IF:
		return p.parseIf()
	case WHILE:
		return p.parseWhile()
	case MESSAGE:
		return p.parseMessage()
	case SHOUT:
		return p.parseShout()
	case RETURN:
		return p.parseReturn()
	default:
		at := p.peek().Pos

		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}

		return &ExprStmt{Expression: expr, At: at}, nil
	}
}

// parseBlock parses '{' Statement* '}'.
func (p *parser) parseBlock() ([]Stmt, error) {
	if _, err := p.consume(LBRACE); err != nil {
		return nil, err
	}

	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	body := []Stmt{}

	for !p.at(RBRACE) {
		if p.at(EOF) {
			return nil, p.unexpected(RBRACE)
		}

		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}

		body = append(body, stmt)
	}

	p.next()

	return body, nil
}

// parseCondition parses '(' Expression ')'.
func (p *parser) parseCondition() (Expr, error) {
	if _, err := p.consume(LPAREN); err != nil {
		return nil, err
	}

	test, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if _, err := p.consume(RPAREN); err != nil {
		return nil, err
	}

	return test, nil
}

func (p *parser) parseVarDecl() (Stmt, error) {
	kw := p.next()

	id, err := p.consume(IDENTIFIER)
	if err != nil {
		return nil, err
	}

	if _, err := p.consume(EQUAL); err != nil {
		return nil, err
	}

	init, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	return &VarDecl{Name: id.Text, Init: init, At: kw.Pos}, nil
}

func (p *parser) parseFuncDecl() (Stmt, error) {
	kw := p.next()

	id, err := p.consume(IDENTIFIER)
	if err != nil {
		return nil, err
	}

	if _, err := p.consume(LPAREN); err != nil {
		return nil, err
	}

	params := []string{}

	if !p.at(RPAREN) {
		for {
			param, err := p.consume(IDENTIFIER)
			if err != nil {
				return nil, err
			}

			params = append(params, param.Text)

			if !p.at(COMMA) {
				break
			}

			p.next()
		}
	}

	if _, err := p.consume(RPAREN); err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &FuncDecl{Name: id.Text, Params: params, Body: body, At: kw.Pos}, nil
}

func (p *parser) parseIf() (Stmt, error) {
	kw := p.next()

	test, err := p.parseCondition()
	if err != nil {
		return nil, err
	}

	consequent, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	stmt := &IfStmt{Test: test, Consequent: consequent, At: kw.Pos}

	if p.at(ELSE) {
		p.next()

		alternate, err := p.parseBlock()
		if err != nil {
			return nil, err
		}

		// An empty else block is the same as no else block.
		if len(alternate) > 0 {
			stmt.Alternate = alternate
		}
	}

	return stmt, nil
}

func (p *parser) parseWhile() (Stmt, error) {
	kw := p.next()

	test, err := p.parseCondition()
	if err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &WhileStmt{Test: test, Body: body, At: kw.Pos}, nil
}

func (p *parser) parseMessage() (Stmt, error) {
	kw := p.next()

	if _, err := p.consume(LPAREN); err != nil {
		return nil, err
	}

	args := []Token{}

	if !p.at(RPAREN) {
		for {
			if !p.at(STRING, NUMBER, IDENTIFIER) {
				return nil, p.unexpected(STRING, NUMBER, IDENTIFIER)
			}

			args = append(args, p.next())

			if !p.at(COMMA) {
				break
			}

			p.next()
		}
	}

	if _, err := p.consume(RPAREN); err != nil {
		return nil, err
	}

	return &MessageStmt{Args: args, At: kw.Pos}, nil
}

func (p *parser) parseShout() (Stmt, error) {
	kw := p.next()

	if _, err := p.consume(LPAREN); err != nil {
		return nil, err
	}

	str, err := p.consume(STRING)
	if err != nil {
		return nil, err
	}

	if _, err := p.consume(RPAREN); err != nil {
		return nil, err
	}

	return &ShoutStmt{Text: unquote(str.Text), At: kw.Pos}, nil
}

func (p *parser) parseReturn() (Stmt, error) {
	kw := p.next()

	arg, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	return &ReturnStmt{Argument: arg, At: kw.Pos}, nil
}

// parseExpression parses an equality expression, optionally followed by
// '=' when the left side is a bare, unparenthesized identifier.
func (p *parser) parseExpression() (Expr, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	bare := p.at(IDENTIFIER)

	expr, err := p.parseEquality()
	if err != nil {
		return nil, err
	}

	id, ok := expr.(*Identifier)
	if !ok || !bare || !p.at(EQUAL) {
		return expr, nil
	}

	p.next()

	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	return &Assignment{Name: id.Name, Value: value, At: id.At}, nil
}

// parseBinary parses one left-associative precedence level.
func (p *parser) parseBinary(
	operand func() (Expr, error),
	operators ...Kind,
) (Expr, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}

	for p.at(operators...) {
		op := p.next()

		right, err := operand()
		if err != nil {
			return nil, err
		}

		left = &BinaryExpr{Operator: op.Kind, Left: left, Right: right, At: left.Pos()}
	}

	return left, nil
}

func (p *parser) parseEquality() (Expr, error) {
	return p.parseBinary(p.parseComparison, EQUAL_EQUAL, NOT_EQUAL)
}

func (p *parser) parseComparison() (Expr, error) {
	return p.parseBinary(p.parseAdditive, GREATER, LESS, GTE, LTE)
}

func (p *parser) parseAdditive() (Expr, error) {
	return p.parseBinary(p.parseMultiplicative, PLUS, MINUS)
}

func (p *parser) parseMultiplicative() (Expr, error) {
	return p.parseBinary(p.parseUnary, MULTIPLY, DIVIDE)
}

func (p *parser) parseUnary() (Expr, error) {
	if !p.at(MINUS) {
		return p.parsePrimary()
	}

	op := p.next()

	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	arg, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	return &UnaryExpr{Operator: op.Kind, Argument: arg, At: op.Pos}, nil
}

func (p *parser) parsePrimary() (Expr, error) {
	tok := p.peek()

	switch tok.Kind {
	case NUMBER:
		p.next()

		// Digit runs always parse; out-of-range literals become +Inf.
		f, _ := strconv.ParseFloat(tok.Text, 64)

		return &Literal{Value: Number(f), At: tok.Pos}, nil

	case STRING:
		p.next()

		return &Literal{Value: String(unquote(tok.Text)), At: tok.Pos}, nil

	case IDENTIFIER:
		p.next()

		if !p.at(LPAREN) {
			return &Identifier{Name: tok.Text, At: tok.Pos}, nil
		}

		args, err := p.parseArguments()
		if err != nil {
			return nil, err
		}

		return &CallExpr{Callee: tok.Text, Arguments: args, At: tok.Pos}, nil

	case LPAREN:
		p.next()

		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}

		if _, err := p.consume(RPAREN); err != nil {
			return nil, err
		}

		return expr, nil

	default:
		return nil, p.unexpected(primaryStart...)
	}
}

// parseArguments parses '(' [Expression (',' Expression)*] ')'.
func (p *parser) parseArguments() ([]Expr, error) {
	p.next()

	args := []Expr{}

	if !p.at(RPAREN) {
		for {
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}

			args = append(args, arg)

			if !p.at(COMMA) {
				break
			}

			p.next()
		}
	}

	if _, err := p.consume(RPAREN); err != nil {
		return nil, err
	}

	return args, nil
}

// unquote strips the surrounding double quotes of a string literal.
// No escape sequences are recognized.
func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}

	return s
}
