package lang

//go:generate go tool stringer --linecomment --type Kind --output kind_string.go

import (
	"log/slog"
	"strconv"
)

// Kind classifies a lexical token.
type Kind int

// Token kinds in lexer rule order. UNKNOWN is produced by the catch-all rule
// and EOF is returned by the parser's lookahead once the input is exhausted;
// neither is ever valid in a statement or expression.
const (
	MILTVAR     Kind = iota // MILTVAR
	FUNC                    // FUNC
	RETURN                  // RETURN
	IF                      // IF
	ELSE                    // ELSE
	WHILE                   // WHILE
	MESSAGE                 // MESSAGE
	SHOUT                   // SHOUT
	LBRACE                  // LBRACE
	RBRACE                  // RBRACE
	LPAREN                  // LPAREN
	RPAREN                  // RPAREN
	COMMA                   // COMMA
	EQUAL                   // EQUAL
	PLUS                    // PLUS
	MINUS                   // MINUS
	MULTIPLY                // MULTIPLY
	DIVIDE                  // DIVIDE
	GREATER                 // GREATER
	LESS                    // LESS
	GTE                     // GTE
	LTE                     // LTE
	EQUAL_EQUAL             // EQUAL_EQUAL
	NOT                     // NOT
	NOT_EQUAL               // NOT_EQUAL
	STRING                  // STRING
	NUMBER                  // NUMBER
	IDENTIFIER              // IDENTIFIER
	UNKNOWN                 // UNKNOWN
	EOF                     // end of input
)

// Keywords maps each reserved word to its token kind.
var Keywords = map[string]Kind{
	"milt":    MILTVAR,
	"func":    FUNC,
	"return":  RETURN,
	"if":      IF,
	"else":    ELSE,
	"while":   WHILE,
	"message": MESSAGE,
	"shout":   SHOUT,
}

var symbols = map[Kind]string{
	LBRACE:      "{",
	RBRACE:      "}",
	LPAREN:      "(",
	RPAREN:      ")",
	COMMA:       ",",
	EQUAL:       "=",
	PLUS:        "+",
	MINUS:       "-",
	MULTIPLY:    "*",
	DIVIDE:      "/",
	GREATER:     ">",
	LESS:        "<",
	GTE:         ">=",
	LTE:         "<=",
	EQUAL_EQUAL: "==",
	NOT:         "!",
	NOT_EQUAL:   "!=",
}

// Symbol returns the source spelling of a punctuation or operator kind, or
// the kind name otherwise.
func (k Kind) Symbol() string {
	if s, ok := symbols[k]; ok {
		return s
	}

	return k.String()
}

// Position identifies a location in source text.
// Line and Column are 1-based; Offset is a 0-based byte index.
type Position struct {
	Offset int `json:"offset" yaml:"offset"`
	Line   int `json:"line"   yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

// String returns the position as "line:column".
func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// LogValue implements [slog.LogValuer].
func (p Position) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("line", p.Line),
		slog.Int("column", p.Column),
		slog.Int("offset", p.Offset),
	)
}

// advance returns the position following text.
func (p Position) advance(text string) Position {
	for _, r := range text {
		if r == '\n' {
			p.Line++
			p.Column = 1
		} else {
			p.Column++
		}
	}

	p.Offset += len(text)

	return p
}

// Token is a classified lexical unit.
//
// Text is the exact matched substring; string literals keep their quotes.
type Token struct {
	Text string
	Pos  Position
	Kind Kind
}

// String returns a short description of the token for diagnostics.
func (t Token) String() string {
	if t.Kind == EOF {
		return t.Kind.String()
	}

	return t.Kind.String() + " " + strconv.Quote(t.Text)
}

// End returns the byte offset immediately following the token.
func (t Token) End() int { return t.Pos.Offset + len(t.Text) }
