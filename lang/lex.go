package lang

import (
	"iter"
	"regexp"
	"unicode/utf8"
)

// rule pairs an anchored pattern with the token kind it produces.
// A rule with skip set discards its match.
type rule struct {
	pattern *regexp.Regexp
	kind    Kind
	skip    bool
	fail    bool
}

func match(kind Kind, expr string) rule {
	return rule{pattern: regexp.MustCompile(`^(?:` + expr + `)`), kind: kind}
}

// rules is the ordered lexer table. The first rule matching a non-empty prefix
// of the remaining input wins, so keywords precede IDENTIFIER and two-character
// operators precede their one-character prefixes.
var rules = []rule{
	{pattern: regexp.MustCompile(`^\s+`), skip: true},

	match(MILTVAR, `milt\b`),
	match(FUNC, `func\b`),
	match(RETURN, `return\b`),
	match(IF, `if\b`),
	match(ELSE, `else\b`),
	match(WHILE, `while\b`),
	match(MESSAGE, `message\b`),
	match(SHOUT, `shout\b`),

	match(LBRACE, `\{`),
	match(RBRACE, `\}`),
	match(LPAREN, `\(`),
	match(RPAREN, `\)`),
	match(COMMA, `,`),

	match(GTE, `>=`),
	match(LTE, `<=`),
	match(EQUAL_EQUAL, `==`),
	match(NOT_EQUAL, `!=`),

	match(EQUAL, `=`),
	match(PLUS, `\+`),
	match(MINUS, `-`),
	match(MULTIPLY, `\*`),
	match(DIVIDE, `/`),
	match(GREATER, `>`),
	match(LESS, `<`),
	match(NOT, `!`),

	match(STRING, `"[^"\n]*?"`),
	match(NUMBER, `[0-9]+`),
	match(IDENTIFIER, `[A-Za-z_][A-Za-z0-9_]*`),

	// A quote that did not close on its own line.
	{pattern: regexp.MustCompile(`^"`), fail: true},

	{pattern: regexp.MustCompile(`^(?s:.)`), kind: UNKNOWN},
}

// Lexer converts source text into tokens in a single left-to-right pass.
type Lexer struct {
	src string
	pos Position
}

// NewLexer returns a [Lexer] positioned at the start of src.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src, pos: Position{Line: 1, Column: 1}}
}

// Next returns the next token. At end of input it returns a token of kind
// [EOF]. A [*LexError] is returned if the input cannot be tokenized.
func (l *Lexer) Next() (Token, error) {
	for l.pos.Offset < len(l.src) {
		rest := l.src[l.pos.Offset:]

		r, n := l.rule(rest)
		if n == 0 || r.fail {
			char, _ := utf8.DecodeRuneInString(rest)

			return Token{Kind: EOF, Pos: l.pos}, &LexError{Char: char, Pos: l.pos}
		}

		text := rest[:n]
		start := l.pos
		l.pos = l.pos.advance(text)

		if r.skip {
			continue
		}

		return Token{Kind: r.kind, Text: text, Pos: start}, nil
	}

	return Token{Kind: EOF, Pos: l.pos}, nil
}

// rule returns the first rule matching a prefix of rest and the length of
// that prefix, or a zero length if no rule matches.
func (l *Lexer) rule(rest string) (rule, int) {
	for _, r := range rules {
		if loc := r.pattern.FindStringIndex(rest); loc != nil && loc[1] > 0 {
			return r, loc[1]
		}
	}

	return rule{}, 0
}

// All returns an iterator over the remaining tokens, excluding [EOF].
// Iteration stops after the first error.
func (l *Lexer) All() iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		for {
			tok, err := l.Next()
			if err != nil {
				yield(tok, err)

				return
			}

			if tok.Kind == EOF || !yield(tok, nil) {
				return
			}
		}
	}
}

// Lex tokenizes src in full.
func Lex(src string) ([]Token, error) {
	var toks []Token

	for tok, err := range NewLexer(src).All() {
		if err != nil {
			return nil, err
		}

		toks = append(toks, tok)
	}

	return toks, nil
}
