package log

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles used by prettyTextHandler.
//
// Styles are bound to a renderer for the handler's output, so color is
// dropped automatically when the output is not a terminal.
type palette struct {
	msg, key, str, num, yes, no, dur, time, null lipgloss.Style
	trace, debug, info, warn, error              lipgloss.Style
}

func newPalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(c))
	}

	return palette{
		msg:   r.NewStyle(),
		key:   fg("8"),
		str:   fg("6"),
		num:   fg("3"),
		yes:   fg("2"),
		no:    fg("1"),
		dur:   fg("5"),
		time:  fg("4"),
		null:  fg("8"),
		trace: fg("8"),
		debug: fg("4"),
		info:  fg("2"),
		warn:  fg("3").Bold(true),
		error: fg("1").Bold(true),
	}
}

func (p palette) level(l slog.Level) lipgloss.Style {
	switch {
	case l >= slog.LevelError:
		return p.error
	case l >= slog.LevelWarn:
		return p.warn
	case l >= slog.LevelInfo:
		return p.info
	case l >= slog.LevelDebug:
		return p.debug
	default:
		return p.trace
	}
}

// prettyTextHandler writes key=value lines with styled keys and values.
// String values are written without quotes.
type prettyTextHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	colors palette
	attrs  []byte
	groups []string
}

func newPrettyTextHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
) *prettyTextHandler {
	return &prettyTextHandler{
		opts:   *opts,
		mu:     &sync.Mutex{},
		w:      w,
		colors: newPalette(w),
	}
}

func (h *prettyTextHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	if !r.Time.IsZero() {
		h.writeBuiltin(&buf, slog.Time(slog.TimeKey, r.Time), h.colors.time)
	}

	h.writeBuiltin(&buf, slog.Any(slog.LevelKey, r.Level), h.colors.level(r.Level))

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			h.writeBuiltin(&buf,
				slog.String(slog.SourceKey, src.File+":"+strconv.Itoa(src.Line)),
				h.colors.key)
		}
	}

	h.writeBuiltin(&buf, slog.String(slog.MessageKey, r.Message), h.colors.msg)

	if len(h.attrs) > 0 {
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}

		buf.Write(h.attrs)
	}

	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(&buf, h.groups, a)

		return true
	})

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var buf bytes.Buffer

	buf.Write(h.attrs)

	for _, a := range attrs {
		h.writeAttr(&buf, h.groups, a)
	}

	c := *h
	c.attrs = buf.Bytes()

	return &c
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.groups = append(h.groups[:len(h.groups):len(h.groups)], name)

	return &c
}

// writeBuiltin writes one of the record's built-in fields after applying
// ReplaceAttr, which formats the time and level.
func (h *prettyTextHandler) writeBuiltin(
	buf *bytes.Buffer,
	a slog.Attr,
	style lipgloss.Style,
) {
	if h.opts.ReplaceAttr != nil {
		a = h.opts.ReplaceAttr(nil, a)
	}

	if a.Key == "" {
		return
	}

	if buf.Len() > 0 {
		buf.WriteByte(' ')
	}

	buf.WriteString(h.colors.key.Render(a.Key))
	buf.WriteByte('=')
	buf.WriteString(style.Render(a.Value.Resolve().String()))
}

func (h *prettyTextHandler) writeAttr(buf *bytes.Buffer, groups []string, a slog.Attr) {
	a.Value = a.Value.Resolve()

	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			groups = append(groups[:len(groups):len(groups)], a.Key)
		}

		for _, sub := range a.Value.Group() {
			h.writeAttr(buf, groups, sub)
		}

		return
	}

	if buf.Len() > 0 {
		buf.WriteByte(' ')
	}

	key := a.Key
	if len(groups) > 0 {
		key = strings.Join(groups, ".") + "." + key
	}

	buf.WriteString(h.colors.key.Render(key))
	buf.WriteByte('=')
	h.writeValue(buf, a.Value)
}

func (h *prettyTextHandler) writeValue(buf *bytes.Buffer, v slog.Value) {
	switch v.Kind() {
	case slog.KindInt64, slog.KindUint64, slog.KindFloat64:
		buf.WriteString(h.colors.num.Render(v.String()))

	case slog.KindBool:
		if v.Bool() {
			buf.WriteString(h.colors.yes.Render("true"))
		} else {
			buf.WriteString(h.colors.no.Render("false"))
		}

	case slog.KindDuration:
		buf.WriteString(h.colors.dur.Render(v.Duration().String()))

	case slog.KindTime:
		buf.WriteString(h.colors.time.Render(v.Time().String()))

	case slog.KindAny:
		if v.Any() == nil {
			buf.WriteString(h.colors.null.Render("null"))

			return
		}

		if err, ok := v.Any().(error); ok {
			buf.WriteString(h.colors.no.Render(err.Error()))

			return
		}

		buf.WriteString(h.colors.str.Render(v.String()))

	default:
		buf.WriteString(h.colors.str.Render(v.String()))
	}
}

// indentWriter re-indents each JSON record written through it.
// Input that is not valid JSON passes through unchanged.
type indentWriter struct {
	w io.Writer
}

func (iw indentWriter) Write(p []byte) (int, error) {
	var buf bytes.Buffer

	if err := json.Indent(&buf, p, "", "  "); err != nil {
		return iw.w.Write(p)
	}

	if _, err := iw.w.Write(buf.Bytes()); err != nil {
		return 0, err
	}

	return len(p), nil
}
