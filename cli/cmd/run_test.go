package cmd

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ardnew/miltov/lang"
)

func TestRun(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		want    string
		wantErr error
	}{
		{
			name: "output and result",
			src: `
				func fib(n) { if (n < 2) { return n } return fib(n - 1) + fib(n - 2) }
				message("fib", 10)
				return fib(10)
			`,
			want: "fib 10\n55\n",
		},
		{
			name: "builtins",
			src:  `print(upper("miltov"), len("abc"))`,
			want: "MILTOV 3\n",
		},
		{
			name: "null result prints nothing",
			src:  `milt x = 1`,
			want: "",
		},
		{
			name:    "undefined function",
			src:     `missing()`,
			wantErr: lang.ErrUndefinedFunction,
		},
		{
			name:    "type error",
			src:     `message("before") milt y = -"x"`,
			want:    "before\n",
			wantErr: lang.ErrType,
		},
		{
			name:    "depth limit",
			src:     `func r() { return r() } r()`,
			wantErr: lang.ErrMaxDepthExceeded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := writeFile(t, t.TempDir(), "main.milt", tt.src)

			got, err := runTo(t, &Run{MaxDepth: 50, Source: []string{src}})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got != tt.want {
				t.Errorf("expected output %q, got %q", tt.want, got)
			}
		})
	}
}

func TestRun_Timeout(t *testing.T) {
	src := writeFile(t, t.TempDir(), "loop.milt", `while (1 == 1) {}`)

	_, err := runTo(t, &Run{
		MaxDepth: 10,
		Timeout:  20 * time.Millisecond,
		Source:   []string{src},
	})
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline cause, got %v", err)
	}
}

func TestRun_Canceled(t *testing.T) {
	src := writeFile(t, t.TempDir(), "loop.milt", `while (1 == 1) {}`)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	err := (&Run{MaxDepth: 10, Source: []string{src}}).Run(ctx)
	if !errors.Is(err, context.Canceled) || errors.Is(err, ErrTimeout) {
		t.Errorf("expected cancellation, got %v", err)
	}
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		src     string
		wantErr error
	}{
		{"valid", `func f(a) { return a } f(1) print(f(2))`, nil},
		{"forward call", `func g() { return h() } func h() { return 1 }`, nil},
		{"does not run", `while (1 == 1) {}`, nil},
		{"undefined function", `nope()`, lang.ErrUndefinedFunction},
		{"parse error", `func (`, lang.ErrParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := writeFile(t, dir, tt.name+".milt", tt.src)

			_, err := runTo(t, &Check{Source: []string{src}})
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}

				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
