package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/miltov/lang"
)

type runner interface {
	Run(ctx context.Context) error
}

// runTo runs cmd with its output captured.
func runTo(t *testing.T, cmd runner) (string, error) {
	t.Helper()

	var buf bytes.Buffer

	err := cmd.Run(WithOutput(t.Context(), &buf))

	return buf.String(), err
}

func TestFmt_Native(t *testing.T) {
	src := writeFile(t, t.TempDir(), "in.milt", `milt x=1+2*3 func f(a,b){return a}`)

	got, err := runTo(t, &Native{Indent: 2, Source: []string{src}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "milt x = 1 + 2 * 3\n"
	if !strings.HasPrefix(got, want) {
		t.Errorf("expected output to begin with %q, got %q", want, got)
	}

	if !strings.Contains(got, "func f(a, b) {\n  return a\n}") {
		t.Errorf("unexpected function layout in %q", got)
	}

	// Formatting canonical output is a fixed point.
	again, err := runTo(t, &Native{
		Indent: 2,
		Source: []string{writeFile(t, t.TempDir(), "out.milt", got)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if again != got {
		t.Errorf("formatting is not idempotent:\n%s\n---\n%s", got, again)
	}
}

func TestFmt_JSON(t *testing.T) {
	src := writeFile(t, t.TempDir(), "in.milt", `milt x = 1`)

	for _, indent := range []int{0, 4} {
		got, err := runTo(t, &JSON{Indent: indent, Source: []string{src}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var tree map[string]any
		if err := json.Unmarshal([]byte(got), &tree); err != nil {
			t.Fatalf("invalid JSON %q: %v", got, err)
		}

		if tree["type"] != "Program" {
			t.Errorf("expected Program root, got %v", tree["type"])
		}

		if multiline := strings.Count(got, "\n") > 1; multiline != (indent > 0) {
			t.Errorf("indent %d produced %q", indent, got)
		}
	}
}

func TestFmt_YAML(t *testing.T) {
	src := writeFile(t, t.TempDir(), "in.milt", `milt x = 1`)

	got, err := runTo(t, &YAML{Indent: 2, Source: []string{src}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var tree map[string]any
	if err := yaml.Unmarshal([]byte(got), &tree); err != nil {
		t.Fatalf("invalid YAML %q: %v", got, err)
	}

	body, ok := tree["body"].([]any)
	if !ok || len(body) != 1 {
		t.Fatalf("unexpected body %v", tree["body"])
	}

	decl, _ := body[0].(map[string]any)
	if decl["type"] != "VariableDeclaration" || decl["name"] != "x" {
		t.Errorf("unexpected declaration %v", decl)
	}
}

func TestFmt_ASTAndTokens(t *testing.T) {
	src := writeFile(t, t.TempDir(), "in.milt", `milt x = 1`)

	ast, err := runTo(t, &AST{Source: []string{src}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{"Program", "VariableDeclaration", "Literal"} {
		if !strings.Contains(ast, want) {
			t.Errorf("expected %q in outline %q", want, ast)
		}
	}

	toks, err := runTo(t, &Tokens{Source: []string{src}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if lines := strings.Count(toks, "\n"); lines != 4 {
		t.Errorf("expected 4 tokens, got %d in %q", lines, toks)
	}

	if !strings.Contains(toks, lang.MILTVAR.String()) {
		t.Errorf("expected keyword kind in %q", toks)
	}
}

func TestFmt_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		cmd  runner
		want error
	}{
		{
			name: "parse error",
			cmd:  &Native{Source: []string{writeFile(t, dir, "bad.milt", `milt = 1`)}},
			want: lang.ErrParse,
		},
		{
			name: "lex error",
			cmd:  &Tokens{Source: []string{writeFile(t, dir, "lex.milt", `milt x = "open`)}},
			want: lang.ErrLex,
		},
		{
			name: "missing source",
			cmd:  &JSON{Source: []string{dir + "/missing.milt"}},
			want: ErrReadSource,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runTo(t, tt.cmd); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}
