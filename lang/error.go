package lang

import (
	"log/slog"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values).
var (
	ErrLex     = NewError("lex error")
	ErrParse   = NewError("parse error")
	ErrRuntime = NewError("runtime error")

	ErrReadInput         = NewError("failed to read input")
	ErrUndefinedVariable = NewError("undefined variable")
	ErrUndefinedFunction = NewError("undefined function")
	ErrArity             = NewError("wrong number of arguments")
	ErrType              = NewError("type mismatch")
	ErrAction            = NewError("action failed")
	ErrMaxDepthExceeded  = NewError("maximum call depth exceeded")
	ErrMaxNesting        = NewError("maximum nesting depth exceeded")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error
	attrs []slog.Attr
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError returns err itself if it is an [*Error], or wraps it otherwise.
func WrapError(err error) *Error {
	if ee, ok := err.(*Error); ok {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from, so copies
// made by Wrap and With still match it.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.err == nil && t.msg != "" && t.msg == e.msg
}

// LogValue implements slog.LogValuer.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.Any("cause", e.err))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap returns a copy of e wrapping err.
func (e *Error) Wrap(err error) *Error {
	return &Error{msg: e.msg, err: err, attrs: e.attrs}
}

// With returns a copy of e with attrs appended.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{msg: e.msg, err: e.err, attrs: newAttrs}
}

// LexError reports input that no token rule accepts.
type LexError struct {
	Char rune
	Pos  Position
}

func (e *LexError) Error() string {
	msg := "lex error at " + e.Pos.String() + ": unexpected character " +
		strconv.QuoteRune(e.Char)
	if e.Char == '"' {
		msg += " (unterminated string)"
	}

	return msg
}

func (e *LexError) Unwrap() error { return ErrLex }

// LogValue implements slog.LogValuer.
func (e *LexError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrLex.msg),
		slog.String("char", string(e.Char)),
		slog.Any("pos", e.Pos),
	)
}

// ParseError reports a token that does not fit the grammar.
// Actual is [EOF] when input ended where a token was required. Err, if set,
// names a limit the parser hit at Pos.
type ParseError struct {
	Err      error
	Text     string
	Expected []Kind
	Pos      Position
	Actual   Kind
}

func (e *ParseError) Error() string {
	var b strings.Builder

	b.WriteString("parse error at ")
	b.WriteString(e.Pos.String())
	b.WriteString(": ")

	if e.Err != nil {
		b.WriteString(e.Err.Error())

		return b.String()
	}

	if e.Actual == EOF {
		b.WriteString("unexpected end of input")

		if len(e.Expected) > 0 {
			b.WriteString(", expected ")
			b.WriteString(e.expected())
		}

		return b.String()
	}

	if len(e.Expected) > 0 {
		b.WriteString("expected ")
		b.WriteString(e.expected())
		b.WriteString(", got ")
	} else {
		b.WriteString("unexpected ")
	}

	b.WriteString(e.Actual.String())

	if e.Text != "" {
		b.WriteString(" ")
		b.WriteString(strconv.Quote(e.Text))
	}

	return b.String()
}

func (e *ParseError) expected() string {
	names := make([]string, len(e.Expected))
	for i, k := range e.Expected {
		names[i] = k.String()
	}

	return strings.Join(names, " or ")
}

func (e *ParseError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrParse, e.Err}
	}

	return []error{ErrParse}
}

// LogValue implements slog.LogValuer.
func (e *ParseError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrParse.msg),
		slog.String("expected", e.expected()),
		slog.String("actual", e.Actual.String()),
		slog.Any("pos", e.Pos),
	)
}

// RuntimeError reports a failure while evaluating a program.
//
// Err is one of the package sentinels or a context error; Cause, if set, is
// the underlying failure reported by an action.
type RuntimeError struct {
	Err    error
	Cause  error
	Detail string
	Pos    Position
}

func (e *RuntimeError) Error() string {
	var b strings.Builder

	b.WriteString("runtime error at ")
	b.WriteString(e.Pos.String())
	b.WriteString(": ")
	b.WriteString(e.Err.Error())

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}

	return b.String()
}

func (e *RuntimeError) Unwrap() []error {
	errs := []error{ErrRuntime, e.Err}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}

	return errs
}

// LogValue implements slog.LogValuer.
func (e *RuntimeError) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("error", ErrRuntime.msg),
		slog.String("kind", e.Err.Error()),
		slog.Any("pos", e.Pos),
	}

	if e.Detail != "" {
		attrs = append(attrs, slog.String("detail", e.Detail))
	}

	if e.Cause != nil {
		attrs = append(attrs, slog.Any("cause", e.Cause))
	}

	return slog.GroupValue(attrs...)
}

func runtimeError(pos Position, err error, detail string) *RuntimeError {
	return &RuntimeError{Err: err, Detail: detail, Pos: pos}
}
