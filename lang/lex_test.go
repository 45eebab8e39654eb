package lang

import (
	"errors"
	"strings"
	"testing"
)

func kinds(toks []Token) []Kind {
	out := make([]Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}

	return out
}

func TestLex_Kinds(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Kind
	}{
		{
			name:  "empty",
			input: "",
			want:  []Kind{},
		},
		{
			name:  "whitespace only",
			input: " \t\r\n ",
			want:  []Kind{},
		},
		{
			name:  "declaration",
			input: `milt x = 10`,
			want:  []Kind{MILTVAR, IDENTIFIER, EQUAL, NUMBER},
		},
		{
			name:  "keywords",
			input: `milt func return if else while message shout`,
			want:  []Kind{MILTVAR, FUNC, RETURN, IF, ELSE, WHILE, MESSAGE, SHOUT},
		},
		{
			name:  "keyword prefix is identifier",
			input: `milty iffy returned shouting`,
			want:  []Kind{IDENTIFIER, IDENTIFIER, IDENTIFIER, IDENTIFIER},
		},
		{
			name:  "two character operators",
			input: `a >= b <= c == d != e`,
			want: []Kind{
				IDENTIFIER, GTE, IDENTIFIER, LTE, IDENTIFIER,
				EQUAL_EQUAL, IDENTIFIER, NOT_EQUAL, IDENTIFIER,
			},
		},
		{
			name:  "adjacent operators",
			input: `x==-1`,
			want:  []Kind{IDENTIFIER, EQUAL_EQUAL, MINUS, NUMBER},
		},
		{
			name:  "one character operators",
			input: `= + - * / > < !`,
			want:  []Kind{EQUAL, PLUS, MINUS, MULTIPLY, DIVIDE, GREATER, LESS, NOT},
		},
		{
			name:  "punctuation",
			input: `{ } ( ) ,`,
			want:  []Kind{LBRACE, RBRACE, LPAREN, RPAREN, COMMA},
		},
		{
			name:  "string with spaces",
			input: `"hello, world"`,
			want:  []Kind{STRING},
		},
		{
			name:  "string stops at first quote",
			input: `"a" "b"`,
			want:  []Kind{STRING, STRING},
		},
		{
			name:  "unknown characters",
			input: `x @ 1.5`,
			want:  []Kind{IDENTIFIER, UNKNOWN, NUMBER, UNKNOWN, NUMBER},
		},
		{
			name:  "identifier with digits and underscores",
			input: `_a1 b_2`,
			want:  []Kind{IDENTIFIER, IDENTIFIER},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := Lex(tt.input)
			if err != nil {
				t.Fatalf("lex error: %v", err)
			}

			got := kinds(toks)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}

			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("token %d: expected %v, got %v", i, tt.want[i], got[i])
				}
			}
		})
	}
}

// Concatenating token texts with the skipped whitespace restored reproduces
// the input exactly.
func TestLex_Lossless(t *testing.T) {
	inputs := []string{
		`milt x = 10`,
		"func add(a, b) {\n  return a + b\n}\nmessage(add(1, 2))",
		`if (x >= 3) { shout("big") } else { message("small", x) }`,
		"  while(i<3){i=i+1}  \n",
		`x @ # $`,
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			toks, err := Lex(input)
			if err != nil {
				t.Fatalf("lex error: %v", err)
			}

			var b strings.Builder

			prev := 0
			for _, tok := range toks {
				gap := input[prev:tok.Pos.Offset]
				if strings.TrimSpace(gap) != "" {
					t.Fatalf("non-whitespace skipped: %q", gap)
				}

				b.WriteString(gap)
				b.WriteString(tok.Text)

				prev = tok.End()
			}

			b.WriteString(input[prev:])

			if b.String() != input {
				t.Errorf("expected %q, got %q", input, b.String())
			}
		})
	}
}

func TestLex_Positions(t *testing.T) {
	toks, err := Lex("milt x = 1\n  message(x)")
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}

	tests := []struct {
		index int
		line  int
		col   int
	}{
		{0, 1, 1},
		{1, 1, 6},
		{3, 1, 10},
		{4, 2, 3},
		{6, 2, 11},
	}

	for _, tt := range tests {
		pos := toks[tt.index].Pos
		if pos.Line != tt.line || pos.Column != tt.col {
			t.Errorf("token %d %v: expected %d:%d, got %v",
				tt.index, toks[tt.index], tt.line, tt.col, pos)
		}
	}
}

func TestLex_UnterminatedString(t *testing.T) {
	tests := []string{
		`message("oops)`,
		"shout(\"line\nbreak\")",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			_, err := Lex(input)
			if err == nil {
				t.Fatal("expected error")
			}

			if !errors.Is(err, ErrLex) {
				t.Errorf("expected ErrLex, got %v", err)
			}

			var lexErr *LexError
			if !errors.As(err, &lexErr) {
				t.Fatalf("expected *LexError, got %T", err)
			}

			if lexErr.Char != '"' {
				t.Errorf("expected quote, got %q", lexErr.Char)
			}

			if !strings.Contains(err.Error(), "unterminated string") {
				t.Errorf("unexpected message: %v", err)
			}
		})
	}
}

func TestLexer_Next(t *testing.T) {
	l := NewLexer("a b")

	for _, want := range []string{"a", "b"} {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("lex error: %v", err)
		}

		if tok.Text != want {
			t.Errorf("expected %q, got %q", want, tok.Text)
		}
	}

	for range 2 {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("lex error: %v", err)
		}

		if tok.Kind != EOF {
			t.Errorf("expected EOF, got %v", tok)
		}
	}
}

func TestLexer_Rule(t *testing.T) {
	tests := []struct {
		rest string
		kind Kind
		n    int
		skip bool
		fail bool
	}{
		{rest: "milty = 1", kind: IDENTIFIER, n: 5},
		{rest: "milt y", kind: MILTVAR, n: 4},
		{rest: ">= 1", kind: GTE, n: 2},
		{rest: "\"ab\" c", kind: STRING, n: 4},
		{rest: "  \tx", n: 3, skip: true},
		{rest: "\"ab\nc\"", n: 1, fail: true},
		{rest: "@", kind: UNKNOWN, n: 1},
	}

	l := NewLexer("")

	for _, tt := range tests {
		r, n := l.rule(tt.rest)
		if n != tt.n || r.skip != tt.skip || r.fail != tt.fail {
			t.Errorf("%q: expected length %d skip=%v fail=%v, got %d skip=%v fail=%v",
				tt.rest, tt.n, tt.skip, tt.fail, n, r.skip, r.fail)
		}

		if !tt.skip && !tt.fail && r.kind != tt.kind {
			t.Errorf("%q: expected %v, got %v", tt.rest, tt.kind, r.kind)
		}
	}

	if _, n := l.rule(""); n != 0 {
		t.Errorf("expected no match on empty input, got length %d", n)
	}
}

func TestKind_Symbol(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{PLUS, "+"},
		{NOT_EQUAL, "!="},
		{LBRACE, "{"},
		{IDENTIFIER, "IDENTIFIER"},
		{EOF, "end of input"},
	}

	for _, tt := range tests {
		if got := tt.kind.Symbol(); got != tt.want {
			t.Errorf("%d: expected %q, got %q", tt.kind, tt.want, got)
		}
	}
}
