package repl

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/miltov/lang"
	"github.com/ardnew/miltov/log"
)

func testModel(t *testing.T, opts ...lang.Option) model {
	t.Helper()

	history := NewHistory(filepath.Join(t.TempDir(), baseHistory))

	return newModel(t.Context(), history, log.Logger{}, opts...)
}

func plain(lines []string) string {
	return ansi.Strip(strings.Join(lines, "\n"))
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name    string
		inputs  []string
		want    string
		wantErr error
	}{
		{
			name:   "trailing expression",
			inputs: []string{`1 + 2`},
			want:   "3",
		},
		{
			name:   "declarations persist",
			inputs: []string{`milt x = 2`, `x * 3`},
			want:   "6",
		},
		{
			name:   "functions persist",
			inputs: []string{`func twice(n) { return n * 2 }`, `twice(21)`},
			want:   "42",
		},
		{
			name:   "string result is quoted",
			inputs: []string{`"mil" + "tov"`},
			want:   `"miltov"`,
		},
		{
			name:   "message output",
			inputs: []string{`message("hi", 1)`},
			want:   "hi 1",
		},
		{
			name:   "shout output",
			inputs: []string{`shout("loud")`},
			want:   "loud",
		},
		{
			name:   "declaration prints nothing",
			inputs: []string{`milt y = 1`},
			want:   "",
		},
		{
			name:    "syntax error",
			inputs:  []string{`milt = 1`},
			wantErr: lang.ErrParse,
		},
		{
			name:    "undefined function",
			inputs:  []string{`nope(1)`},
			wantErr: lang.ErrUndefinedFunction,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := testModel(t)

			var (
				lines []string
				err   error
			)

			for _, input := range tt.inputs {
				lines, err = m.evaluate(t.Context(), input)
			}

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}

				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got := plain(lines); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestEvaluate_OutputBeforeError(t *testing.T) {
	m := testModel(t)

	lines, err := m.evaluate(t.Context(), `message("before") -"x"`)
	if err == nil {
		t.Fatal("expected an error")
	}

	if got := plain(lines); got != "before" {
		t.Errorf("expected output emitted before the error, got %q", got)
	}

	if events := m.output.Events(); len(events) != 0 {
		t.Errorf("recorder not drained: %v", events)
	}
}

func TestWithResult(t *testing.T) {
	prog, err := lang.ParseString(t.Context(), `milt a = 1 a + 1`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := withResult(prog)

	if _, ok := got.Body[1].(*lang.ReturnStmt); !ok {
		t.Errorf("trailing expression not returned: %T", got.Body[1])
	}

	if _, ok := prog.Body[1].(*lang.ExprStmt); !ok {
		t.Error("original program was modified")
	}

	decl, err := lang.ParseString(t.Context(), `milt a = 1`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if withResult(decl) != decl {
		t.Error("program without a trailing expression was rewritten")
	}
}

func TestExecuteCommand(t *testing.T) {
	m := testModel(t)

	if _, err := m.evaluate(t.Context(), `milt answer = 42 func f(a, b) { return a }`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := ansi.Strip(m.listVars()); !strings.Contains(got, "answer = 42") {
		t.Errorf("unexpected variable listing %q", got)
	}

	if got := ansi.Strip(m.listFuncs()); !strings.Contains(got, "f(a, b)") {
		t.Errorf("unexpected function listing %q", got)
	}

	if got := ansi.Strip(m.listActions()); !strings.Contains(got, "print") {
		t.Errorf("unexpected action listing %q", got)
	}

	m, _ = m.executeCommand("reset")

	if got := ansi.Strip(m.listVars()); !strings.Contains(got, "(no variables)") {
		t.Errorf("variables survived reset: %q", got)
	}

	if got := ansi.Strip(m.listFuncs()); !strings.Contains(got, "(no functions)") {
		t.Errorf("functions survived reset: %q", got)
	}

	m, _ = m.executeCommand("quit")

	if !m.quitting {
		t.Error("quit did not stop the session")
	}

	if m.View() != "" {
		t.Error("view rendered after quitting")
	}
}

func TestExecuteInput_History(t *testing.T) {
	m := testModel(t)

	m.input.SetValue("milt z = 1")
	m, _ = m.executeInput()

	if !m.evaluating() {
		t.Fatal("submitted statement did not start an evaluation")
	}

	m, _ = m.finishEval(evalDoneMsg{})

	m = m.switchToMode(modeCtrl)
	m.input.SetValue("vars")
	m, _ = m.executeInput()

	if m.history.Len() != 2 {
		t.Fatalf("expected 2 history entries, got %d", m.history.Len())
	}

	if m.input.Value() != "" {
		t.Errorf("input not cleared: %q", m.input.Value())
	}

	// Stepping back across modes follows the entry's mode.
	m = m.historyStep(-1, false)
	if m.mode != modeCtrl || m.input.Value() != "vars" {
		t.Errorf("unexpected entry %q in mode %d", m.input.Value(), m.mode)
	}

	m = m.historyStep(-1, false)
	if m.mode != modeEval || m.input.Value() != "milt z = 1" {
		t.Errorf("unexpected entry %q in mode %d", m.input.Value(), m.mode)
	}

	// Stepping within the current mode skips control entries.
	m = m.historyStep(1, true)
	if m.historyIdx != m.history.Len() || m.input.Value() != "" {
		t.Errorf("expected input cleared past the newest entry, got %q", m.input.Value())
	}
}

func TestHandleKey_ModeToggle(t *testing.T) {
	m := testModel(t)

	m.input.SetValue("1 + 1")

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != modeCtrl || m.input.Value() != "" {
		t.Fatalf("expected empty control input, got %q in mode %d", m.input.Value(), m.mode)
	}

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != modeEval || m.input.Value() != "1 + 1" {
		t.Errorf("eval input not restored, got %q in mode %d", m.input.Value(), m.mode)
	}
}

func TestHandleKey_CtrlC(t *testing.T) {
	m := testModel(t)

	m.input.SetValue("pending")

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyCtrlC})
	if m.quitting || m.input.Value() != "" {
		t.Fatalf("expected input cleared, got %q quitting=%v", m.input.Value(), m.quitting)
	}

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyCtrlC})
	if !m.quitting {
		t.Error("expected quit on empty input")
	}
}

func TestNewModel_Options(t *testing.T) {
	m := testModel(t, lang.WithMaxDepth(5))

	_, err := m.evaluate(t.Context(), `func r(n) { return r(n + 1) } r(0)`)
	if !errors.Is(err, lang.ErrMaxDepthExceeded) {
		t.Errorf("expected recursion limit from caller option, got %v", err)
	}
}

func TestStartEval(t *testing.T) {
	m := testModel(t)

	m, cmd := m.startEval(`milt z = 1 message("z") z + 1`)
	if !m.evaluating() {
		t.Fatal("expected an evaluation in flight")
	}

	done, ok := cmd().(evalDoneMsg)
	if !ok {
		t.Fatal("evaluation did not report completion")
	}

	if done.err != nil {
		t.Fatalf("unexpected error: %v", done.err)
	}

	if got := plain(done.lines); got != "z\n2" {
		t.Errorf("expected %q, got %q", "z\n2", got)
	}

	m, _ = m.finishEval(done)

	if m.evaluating() {
		t.Error("session still busy after completion")
	}

	if _, ok := m.interp.Lookup("z"); !ok {
		t.Error("declaration did not persist")
	}
}

func TestHandleKey_CtrlCInterruptsEval(t *testing.T) {
	m := testModel(t)

	m, cmd := m.startEval(`while (1) { }`)

	done := make(chan tea.Msg, 1)

	go func() { done <- cmd() }()

	// Enter is ignored while the loop runs.
	m.input.SetValue("1 + 1")

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	if m.history.Len() != 0 || m.input.Value() != "1 + 1" {
		t.Errorf("input submitted during an evaluation: %q", m.input.Value())
	}

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyCtrlC})
	if m.quitting {
		t.Fatal("interrupt quit the session")
	}

	var msg tea.Msg

	select {
	case msg = <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("loop was not interrupted")
	}

	res, ok := msg.(evalDoneMsg)
	if !ok {
		t.Fatalf("unexpected message %T", msg)
	}

	var rerr *lang.RuntimeError
	if !errors.As(res.err, &rerr) {
		t.Fatalf("expected a runtime error, got %v", res.err)
	}

	if !errors.Is(res.err, context.Canceled) {
		t.Errorf("expected cancellation, got %v", res.err)
	}

	m, _ = m.finishEval(res)

	if m.evaluating() {
		t.Error("session still busy after interrupt")
	}

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	if m.history.Len() != 1 || !m.evaluating() {
		t.Error("input not accepted after interrupt")
	}
}
