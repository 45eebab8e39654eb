package platform

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/ardnew/miltov/lang"
)

func call(t *testing.T, name string, args ...lang.Value) (lang.Value, error) {
	t.Helper()

	act, ok := Builtins(nil)[name]
	if !ok {
		t.Fatalf("action %q not registered", name)
	}

	return act(t.Context(), args)
}

func TestBuiltins_Expr(t *testing.T) {
	n, s := lang.Number, lang.String

	tests := []struct {
		name string
		args []lang.Value
		want lang.Value
	}{
		{"upper", []lang.Value{s("miltov")}, s("MILTOV")},
		{"lower", []lang.Value{s("MilTov")}, s("miltov")},
		{"trim", []lang.Value{s("  pad  ")}, s("pad")},
		{"len", []lang.Value{s("hello")}, n(5)},
		{"abs", []lang.Value{n(-3)}, n(3)},
		{"floor", []lang.Value{n(2.7)}, n(2)},
		{"round", []lang.Value{n(2.5)}, n(3)},
		{"max", []lang.Value{n(1), n(7), n(3)}, n(7)},
		{"min", []lang.Value{n(4), n(2)}, n(2)},
		{"hasPrefix", []lang.Value{s("miltov"), s("mil")}, lang.Bool(true)},
		{"hasSuffix", []lang.Value{s("miltov"), s("mil")}, lang.Bool(false)},
		{"replace", []lang.Value{s("a-b-c"), s("-"), s("+")}, s("a+b+c")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := call(t, tt.name, tt.args...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !got.Equal(tt.want) {
				t.Errorf("expected %s, got %s", tt.want.Quote(), got.Quote())
			}
		})
	}
}

func TestBuiltins_ExprError(t *testing.T) {
	_, err := call(t, "upper", lang.Number(3))
	if !errors.Is(err, ErrEval) {
		t.Errorf("expected ErrEval, got %v", err)
	}
}

func TestExprBuiltins(t *testing.T) {
	names := ExprBuiltins()

	if !slices.IsSorted(names) {
		t.Errorf("names are not sorted: %v", names)
	}

	for _, want := range []string{"upper", "len", "abs"} {
		if !slices.Contains(names, want) {
			t.Errorf("missing builtin %q", want)
		}
	}

	all := Names()
	for _, want := range []string{"env", "eval", "pathprefix", "pathprefixif", "print"} {
		if !slices.Contains(all, want) {
			t.Errorf("missing action %q", want)
		}
	}
}

func TestEval(t *testing.T) {
	tests := []struct {
		name    string
		args    []lang.Value
		want    lang.Value
		wantErr error
	}{
		{
			name: "positional",
			args: []lang.Value{lang.String("a0 * 2 + a1"), lang.Number(20), lang.Number(2)},
			want: lang.Number(42),
		},
		{
			name: "args array",
			args: []lang.Value{lang.String("len(args)"), lang.Bool(true), lang.Null},
			want: lang.Number(2),
		},
		{
			name: "string result",
			args: []lang.Value{lang.String(`a0 + "!"`), lang.String("hi")},
			want: lang.String("hi!"),
		},
		{
			name: "boolean result",
			args: []lang.Value{lang.String("a0 > 1"), lang.Number(2)},
			want: lang.Bool(true),
		},
		{
			name:    "unknown variable",
			args:    []lang.Value{lang.String("missing + 1")},
			wantErr: ErrCompile,
		},
		{
			name:    "not a string",
			args:    []lang.Value{lang.Number(1)},
			wantErr: ErrArgs,
		},
		{
			name:    "no arguments",
			wantErr: ErrArgs,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := call(t, "eval", tt.args...)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}

				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !got.Equal(tt.want) {
				t.Errorf("expected %s, got %s", tt.want.Quote(), got.Quote())
			}
		})
	}
}

func TestEval_Cached(t *testing.T) {
	first, err := compile("a0 + 1", 1)
	if err != nil {
		t.Fatal(err)
	}

	second, err := compile("a0 + 1", 1)
	if err != nil {
		t.Fatal(err)
	}

	if first != second {
		t.Error("program compiled twice for the same source and arity")
	}
}

func TestEnv(t *testing.T) {
	t.Setenv("MILTOV_PLATFORM_TEST", "set")

	tests := []struct {
		name string
		args []lang.Value
		want lang.Value
	}{
		{"set", []lang.Value{lang.String("MILTOV_PLATFORM_TEST")}, lang.String("set")},
		{"unset", []lang.Value{lang.String("MILTOV_PLATFORM_UNSET")}, lang.Null},
		{
			"fallback",
			[]lang.Value{lang.String("MILTOV_PLATFORM_UNSET"), lang.String("dflt")},
			lang.String("dflt"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := call(t, "env", tt.args...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !got.Equal(tt.want) {
				t.Errorf("expected %s, got %s", tt.want.Quote(), got.Quote())
			}
		})
	}

	if _, err := call(t, "env"); !errors.Is(err, ErrArgs) {
		t.Errorf("expected ErrArgs, got %v", err)
	}
}

func TestPrint(t *testing.T) {
	var r Recorder

	v, err := Builtins(&r)["print"](t.Context(), []lang.Value{lang.String("x"), lang.Number(1)})
	if err != nil {
		t.Fatal(err)
	}

	if !v.IsNull() {
		t.Errorf("expected null, got %s", v.Quote())
	}

	if got := r.Lines(); len(got) != 1 || got[0] != "x 1" {
		t.Errorf("unexpected output %q", got)
	}

	if _, err := call(t, "print", lang.String("dropped")); err != nil {
		t.Errorf("print without a sink failed: %v", err)
	}
}

func TestBuiltins_Script(t *testing.T) {
	var r Recorder

	in := lang.New(lang.WithSink(&r), lang.WithActions(Builtins(&r)))

	got, err := in.RunString(t.Context(), `
		milt name = "world"
		print(upper(name), len(name))
		message(name)
		return eval("a0 + a1", 40, 2)
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !got.Equal(lang.Number(42)) {
		t.Errorf("expected 42, got %s", got.Quote())
	}

	want := []string{"WORLD 5", "world"}
	if lines := r.Lines(); strings.Join(lines, "|") != strings.Join(want, "|") {
		t.Errorf("expected %q, got %q", want, lines)
	}
}

func TestBuiltins_ScriptActionError(t *testing.T) {
	in := lang.New(lang.WithActions(Builtins(nil)))

	_, err := in.RunString(t.Context(), `eval(1)`)
	if !errors.Is(err, lang.ErrAction) || !errors.Is(err, ErrArgs) {
		t.Errorf("expected an action error wrapping ErrArgs, got %v", err)
	}
}
