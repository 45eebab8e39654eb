package platform

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/miltov/lang"
)

// Console is a [lang.Sink] that writes one line per message and one styled
// banner per shout. It is safe for concurrent use.
type Console struct {
	mu     *sync.Mutex
	w      io.Writer
	banner lipgloss.Style
}

// NewConsole returns a Console writing to w.
//
// Banners are colored only when w is a terminal that supports it.
func NewConsole(w io.Writer) Console {
	r := lipgloss.NewRenderer(w)

	return Console{
		mu: &sync.Mutex{},
		w:  w,
		banner: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("13")),
	}
}

// Emit writes the display form of values separated by single spaces.
func (c Console) Emit(_ context.Context, values []lang.Value) {
	s := make([]string, len(values))
	for i, v := range values {
		s[i] = v.String()
	}

	c.write(strings.Join(s, " "))
}

// Announce writes text as a banner.
func (c Console) Announce(_ context.Context, text string) {
	c.write(c.banner.Render(text))
}

// Write failures are dropped: a sink never reports errors to the interpreter.
func (c Console) write(line string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, _ = io.WriteString(c.w, line+"\n")
}
