package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/ardnew/miltov/lang"
)

// writeFile creates a file named name in dir with content and returns its
// path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestOpenSources(t *testing.T) {
	dir := t.TempDir()

	a := writeFile(t, dir, "a.milt", "milt a = 1\n")
	b := writeFile(t, dir, "b.milt", "milt b = 2\n")

	link := filepath.Join(dir, "link.milt")
	if err := os.Symlink(a, link); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		paths     []string
		want      string
		wantNames string
	}{
		{"single", []string{a}, "milt a = 1\n", a},
		{"ordered", []string{b, a}, "milt b = 2\n\nmilt a = 1\n", b + "," + a},
		{"duplicate", []string{a, b, a}, "milt a = 1\n\nmilt b = 2\n", a + "," + b},
		{"symlink", []string{a, link}, "milt a = 1\n", a},
		{"relative", []string{a, filepath.Join(dir, ".", "a.milt")}, "milt a = 1\n", a},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srcs, err := openSources(tt.paths)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			defer srcs.Close()

			got, err := io.ReadAll(srcs)
			if err != nil {
				t.Fatal(err)
			}

			if string(got) != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}

			if srcs.Name() != tt.wantNames {
				t.Errorf("expected names %q, got %q", tt.wantNames, srcs.Name())
			}
		})
	}
}

func TestOpenSources_StdinLast(t *testing.T) {
	a := writeFile(t, t.TempDir(), "a.milt", "")

	srcs, err := openSources([]string{stdinSource, a, stdinSource})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer srcs.Close()

	if want := a + "," + stdinSource; srcs.Name() != want {
		t.Errorf("expected %q, got %q", want, srcs.Name())
	}
}

func TestOpenSources_Missing(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.milt", "")

	_, err := openSources([]string{a, filepath.Join(dir, "missing.milt")})
	if !errors.Is(err, ErrReadSource) {
		t.Fatalf("expected ErrReadSource, got %v", err)
	}

	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected cause to be preserved, got %v", err)
	}
}

func TestSources_Parse(t *testing.T) {
	dir := t.TempDir()

	srcs, err := openSources([]string{
		writeFile(t, dir, "lib.milt", "func double(n) { return n * 2 }\n"),
		writeFile(t, dir, "main.milt", "milt x = double(21)\n"),
	})
	if err != nil {
		t.Fatal(err)
	}
	defer srcs.Close()

	prog, err := srcs.Parse(t.Context())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(prog.Body) != 2 {
		t.Errorf("expected declarations from both files, got %d", len(prog.Body))
	}
}

func TestSources_NoTrailingNewline(t *testing.T) {
	dir := t.TempDir()

	srcs, err := openSources([]string{
		writeFile(t, dir, "a.milt", "milt x = 1\nmilt y = x"),
		writeFile(t, dir, "b.milt", "milt z = y"),
	})
	if err != nil {
		t.Fatal(err)
	}
	defer srcs.Close()

	prog, err := srcs.Parse(t.Context())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(prog.Body) != 3 {
		t.Fatalf("expected 3 declarations, got %d", len(prog.Body))
	}

	decl, ok := prog.Body[1].(*lang.VarDecl)
	if !ok || decl.Name != "y" {
		t.Fatalf("unexpected statement %#v", prog.Body[1])
	}

	id, ok := decl.Init.(*lang.Identifier)
	if !ok || id.Name != "x" {
		t.Errorf("source ran into the next file: %#v", decl.Init)
	}
}

func TestOutputFrom(t *testing.T) {
	if outputFrom(context.Background()) != os.Stdout {
		t.Error("expected stdout by default")
	}

	var buf bytes.Buffer

	if outputFrom(WithOutput(context.Background(), &buf)) != &buf {
		t.Error("expected configured writer")
	}

	if kongContextFrom(context.Background()) != nil {
		t.Error("expected no kong context")
	}
}
