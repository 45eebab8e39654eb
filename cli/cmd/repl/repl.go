package repl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/miltov/lang"
	"github.com/ardnew/miltov/log"
	"github.com/ardnew/miltov/platform"
)

const (
	evalPrompt = "➜ "
	ctrlPrompt = " :"
)

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help     Print this cruft
  vars     List global variables and their values
  funcs    List user functions
  actions  List host actions
  reset    Discard all variables and functions
  clear    Clear screen
  quit     Exit REPL

Usage:
  Type statements to run them; declarations persist for the session
  The value of a trailing expression is printed
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Esc to toggle between eval and command modes
  Use Up/Down arrows for history navigation (mode switches automatically)
  Use Shift+Up/Shift+Down for history navigation within current mode only
  Press Ctrl+C to interrupt a running statement
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// inputMode represents the current input mode.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	shoutStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

// formatCommand formats the command echo line with prompt and input styled.
func formatCommand(input string) string {
	return promptStyle.Render(evalPrompt) + inputStyle.Render(input)
}

// formatCtrlCommand formats the control command echo line with prompt and input
// styled.
func formatCtrlCommand(input string) string {
	return ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input)
}

// evalDoneMsg carries the outcome of an evaluation started by startEval.
type evalDoneMsg struct {
	lines []string
	err   error
}

// model is the Bubble Tea model for the REPL.
//
// The interpreter and recorder are shared by every copy of the model, so
// state persists across updates. Evaluations run in a command goroutine;
// while one is in flight the model does not touch the interpreter.
type model struct {
	ctxFunc      func() context.Context
	cancelEval   context.CancelCauseFunc // non-nil while an evaluation runs
	input        textinput.Model
	interp       *lang.Interpreter
	output       *platform.Recorder
	logger       log.Logger
	history      *History
	historyIdx   int
	matches      fuzzy.Matches // current fuzzy match results
	wordStart    int           // byte offset of current word start
	wordEnd      int           // byte offset of current word end
	suggIdx      int           // selected candidate index
	tabActive    bool          // whether user is tab-cycling
	preTabText   string        // input text before tab-cycling began
	preTabCursor int           // cursor position before tab-cycling began
	width        int           // terminal width for ellipsization
	quitting     bool
	mode         inputMode
	evalText     string
	evalCursor   int
	ctrlText     string
	ctrlCursor   int
}

// Run starts an interactive session.
//
// If preload is non-nil it is run first, and its declarations are available
// in the session. History is kept in cacheDir.
func Run(
	ctx context.Context,
	preload io.Reader,
	cacheDir string,
	logger log.Logger,
	opts ...lang.Option,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger.TraceContext(ctx, "repl start",
		slog.String("cache_dir", cacheDir),
		slog.Bool("has_preload", preload != nil),
	)

	m := newModel(ctx, NewHistory(filepath.Join(cacheDir, baseHistory)), logger, opts...)

	if err := m.history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history", slog.Any("error", err))
	}

	logger.TraceContext(ctx, "repl history loaded",
		slog.Int("entry_count", m.history.Len()),
	)

	if preload != nil {
		prog, err := lang.ParseReader(ctx, preload, lang.WithLogger(logger))
		if err != nil {
			return fmt.Errorf("%w: %w", ErrPreload, err)
		}

		if _, err := m.interp.Run(ctx, prog); err != nil {
			return fmt.Errorf("%w: %w", ErrPreload, err)
		}

		for _, line := range m.drain() {
			fmt.Fprintln(os.Stdout, line)
		}

		logger.TraceContext(ctx, "repl preload complete",
			slog.Int("globals", len(m.interp.Globals())),
			slog.Int("functions", len(m.interp.Functions())),
		)
	}

	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, err = p.Run()

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	history *History,
	logger log.Logger,
	opts ...lang.Option,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = defaultWidth

	output := new(platform.Recorder)

	// Caller options come last so they may replace the defaults.
	opts = append([]lang.Option{
		lang.WithLogger(logger),
		lang.WithSink(output),
		lang.WithActions(platform.Builtins(output)),
	}, opts...)

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		interp:     lang.New(opts...),
		output:     output,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		width:      defaultWidth,
		mode:       modeEval,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(evalPrompt) - 2

		return m, nil

	case evalDoneMsg:
		return m.finishEval(msg)
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	input := m.input.Value()
	call := detectFunctionCall(input, m.input.Position())

	switch {
	case m.evaluating():
		b.WriteString(hintStyle.Render("Running... press Ctrl+C to interrupt"))

	case m.historyIdx < m.history.Len():
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len())
		b.WriteString(hintStyle.Render(hint))

	case strings.TrimSpace(input) == "":
		hint := "Type a statement or press Esc for commands"
		if m.mode == modeCtrl {
			hint = "Type: help, vars, funcs, actions, reset, clear, quit (press Esc to return)"
		}

		b.WriteString(hintStyle.Render(hint))

	case call.inCall && m.mode == modeEval && len(m.matches) == 0:
		if sig, params := m.signature(call.name); sig != "" {
			b.WriteString(renderSignatureHint(sig, params, call.argIndex))
		}

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width, m.isFunction))
	}

	b.WriteString("\n")

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "repl keypress",
		slog.String("key", msg.String()),
		slog.Int("type", int(msg.Type)),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.evaluating() {
			m.logger.TraceContext(m.ctxFunc(), "repl eval interrupted")
			m.cancelEval(context.Canceled)

			return m, nil
		}

		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if m.evaluating() {
			return m, nil
		}

		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}

		// Lock in the current tab candidate without executing.
		m.tabActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.historyStep(-1, false), nil

	case tea.KeyDown:
		return m.historyStep(1, false), nil

	case tea.KeyShiftUp:
		return m.historyStep(-1, true), nil

	case tea.KeyShiftDown:
		return m.historyStep(1, true), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)

			return m, nil
		}

		if m.mode == modeEval {
			return m.switchToMode(modeCtrl), nil
		}

		return m.switchToMode(modeEval), nil

	case tea.KeyRunes, tea.KeySpace:
		if m.tabActive && msg.Type == tea.KeySpace {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	// For any other key (backspace, delete, arrows, etc.),
	// update input and recompute matches without auto-confirm.
	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// cycle moves the tab selection by step, wrapping at either end. A single
// candidate is completed immediately.
func (m model) cycle(step int) model {
	if len(m.matches) == 0 {
		return m
	}

	if len(m.matches) == 1 {
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	if !m.tabActive {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()
		m.suggIdx = -1

		if step < 0 {
			m.suggIdx = 0
		}
	}

	m.suggIdx = (m.suggIdx + step + len(m.matches)) % len(m.matches)

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m
}

// replaceCurrentWord replaces the current word boundaries in the input with
// the given replacement text and repositions the cursor.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	newInput := input[:m.wordStart] + replacement + input[m.wordEnd:]
	newCursor := m.wordStart + len(replacement)

	m.input.SetValue(newInput)
	m.input.SetCursor(newCursor)

	m.wordEnd = newCursor
}

// refreshMatches recomputes fuzzy matches for the current input state.
// When autoConfirm is true it also clears the matches when exactly one
// candidate remains and the typed word already equals it.
func refreshMatches(m *model, autoConfirm bool) {
	if m.evaluating() {
		m.matches, m.suggIdx, m.tabActive = nil, -1, false

		return
	}

	m.matches, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	if m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.evalText = ""
	m.evalCursor = 0
	m.ctrlText = ""
	m.ctrlCursor = 0
	m.input.SetValue("")
	m.matches = nil

	_, _ = m.history.WriteWithMode(input, m.mode)
	m.historyIdx = m.history.Len()

	if m.mode == modeCtrl {
		m.logger.TraceContext(m.ctxFunc(), "repl command", slog.String("input", input))

		return m.executeCommand(input)
	}

	m.logger.TraceContext(m.ctxFunc(), "repl eval", slog.String("input", input))

	m, cmd := m.startEval(input)

	return m, tea.Sequence(tea.Println(formatCommand(input)), cmd)
}

func (m model) evaluating() bool { return m.cancelEval != nil }

// startEval returns a command that evaluates input under a context which
// Ctrl+C cancels. The command reports back with an evalDoneMsg.
func (m model) startEval(input string) (model, tea.Cmd) {
	ctx, cancel := context.WithCancelCause(m.ctxFunc())

	m.cancelEval = cancel
	m.matches = nil

	return m, func() tea.Msg {
		defer cancel(nil)

		lines, err := m.evaluate(ctx, input)

		return evalDoneMsg{lines: lines, err: err}
	}
}

// finishEval prints the outcome of an evaluation and releases the session.
func (m model) finishEval(msg evalDoneMsg) (model, tea.Cmd) {
	m.cancelEval = nil

	cmds := make([]tea.Cmd, 0, len(msg.lines)+1)
	for _, line := range msg.lines {
		cmds = append(cmds, tea.Println(line))
	}

	if msg.err != nil {
		m.logger.TraceContext(m.ctxFunc(), "repl eval failed", slog.Any("error", msg.err))

		cmds = append(cmds, tea.Println(errorStyle.Render("error: "+msg.err.Error())))
	}

	refreshMatches(&m, false)

	if len(cmds) == 0 {
		return m, nil
	}

	return m, tea.Sequence(cmds...)
}

// evaluate runs input in the session and returns the lines it printed. The
// value of a trailing expression statement is printed last.
func (m model) evaluate(ctx context.Context, input string) ([]string, error) {
	prog, err := lang.ParseString(ctx, input, lang.WithLogger(m.logger))
	if err != nil {
		return nil, err
	}

	result, err := m.interp.Run(ctx, withResult(prog))

	lines := m.drain()

	if err != nil {
		return lines, err
	}

	if !result.IsNull() {
		lines = append(lines, resultStyle.Render(result.Quote()))
	}

	return lines, nil
}

// withResult returns prog with a trailing expression statement turned into
// a return, so its value reaches the caller. prog is not modified.
func withResult(prog *lang.Program) *lang.Program {
	n := len(prog.Body)
	if n == 0 {
		return prog
	}

	last, ok := prog.Body[n-1].(*lang.ExprStmt)
	if !ok {
		return prog
	}

	body := slices.Clone(prog.Body)
	body[n-1] = &lang.ReturnStmt{Argument: last.Expression, At: last.At}

	return &lang.Program{Body: body}
}

// drain returns and discards the recorded output.
func (m model) drain() []string {
	events := m.output.Events()
	m.output.Reset()

	lines := make([]string, len(events))

	for i, e := range events {
		if e.Shout {
			lines[i] = shoutStyle.Render(e.Text)
		} else {
			lines[i] = e.String()
		}
	}

	return lines
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	echoCmd := tea.Println(formatCtrlCommand(input))

	switch parts[0] {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echoCmd, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echoCmd, tea.Println(helpMessage()))

	case "v", "vars", "l", "list":
		return m, tea.Sequence(echoCmd, tea.Println(m.listVars()))

	case "f", "funcs":
		return m, tea.Sequence(echoCmd, tea.Println(m.listFuncs()))

	case "a", "actions":
		return m, tea.Sequence(echoCmd, tea.Println(m.listActions()))

	case "r", "reset":
		m.interp.Reset()
		m.output.Reset()
		refreshMatches(&m, false)

		return m, tea.Sequence(echoCmd, tea.Println(hintStyle.Render("session reset")))

	case "c", "clear":
		return m, tea.ClearScreen

	default:
		return m, tea.Println(
			errorStyle.Render("Unknown command: " + parts[0] + " (try 'help')"),
		)
	}
}

func (m model) listVars() string {
	var b strings.Builder

	for _, name := range m.interp.Globals() {
		v, _ := m.interp.Lookup(name)
		b.WriteString("  " + name + " " + hintStyle.Render("= "+v.Quote()) + "\n")
	}

	if b.Len() == 0 {
		return hintStyle.Render("  (no variables)")
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func (m model) listFuncs() string {
	var b strings.Builder

	for _, name := range m.interp.Functions() {
		sig, _ := m.signature(name)
		b.WriteString("  " + sig + "\n")
	}

	if b.Len() == 0 {
		return hintStyle.Render("  (no functions)")
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func (m model) listActions() string {
	return "  " + strings.Join(m.interp.Actions(), hintStyle.Render(", "))
}

// historyStep moves through history by dir (-1 older, 1 newer). When
// sameMode is set, entries from the other mode are skipped; otherwise the
// input mode follows the entry. Stepping past the newest entry clears the
// input.
func (m model) historyStep(dir int, sameMode bool) model {
	for i := m.historyIdx + dir; i >= 0 && i < m.history.Len(); i += dir {
		entry, err := m.history.GetEntry(i)
		if err != nil || (sameMode && entry.Mode != m.mode) {
			continue
		}

		if m.mode != entry.Mode {
			m = m.switchToMode(entry.Mode)
		}

		m.historyIdx = i
		m.input.SetValue(entry.Line)
		m.input.SetCursor(len(entry.Line))
		refreshMatches(&m, false)

		return m
	}

	if dir > 0 && m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		refreshMatches(&m, false)
	}

	return m
}

// switchToMode switches to the specified mode, preserving input state.
func (m model) switchToMode(mode inputMode) model {
	if m.mode == modeEval {
		m.evalText = m.input.Value()
		m.evalCursor = m.input.Position()
	} else {
		m.ctrlText = m.input.Value()
		m.ctrlCursor = m.input.Position()
	}

	m.mode = mode
	if mode == modeEval {
		m.input.Prompt = promptStyle.Render(evalPrompt)
		m.input.SetValue(m.evalText)
		m.input.SetCursor(m.evalCursor)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
		m.input.SetValue(m.ctrlText)
		m.input.SetCursor(m.ctrlCursor)
	}

	refreshMatches(&m, false)

	return m
}
