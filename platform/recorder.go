package platform

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/ardnew/miltov/lang"
)

// Event is one call made on a [Recorder].
type Event struct {
	// Values holds the arguments of an Emit call.
	Values []lang.Value
	// Text holds the argument of an Announce call.
	Text string
	// Shout reports whether the event came from Announce.
	Shout bool
}

// String returns the event as [Console] would print it, without styling.
func (e Event) String() string {
	if e.Shout {
		return e.Text
	}

	s := make([]string, len(e.Values))
	for i, v := range e.Values {
		s[i] = v.String()
	}

	return strings.Join(s, " ")
}

// Recorder is a [lang.Sink] that keeps every event in order.
// The zero Recorder is ready to use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Emit records values.
func (r *Recorder) Emit(_ context.Context, values []lang.Value) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, Event{Values: slices.Clone(values)})
}

// Announce records text.
func (r *Recorder) Announce(_ context.Context, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, Event{Text: text, Shout: true})
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Clone(r.events)
}

// Lines returns each recorded event in its printed form.
func (r *Recorder) Lines() []string {
	events := r.Events()

	lines := make([]string, len(events))
	for i, e := range events {
		lines[i] = e.String()
	}

	return lines
}

// Reset discards all recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = nil
}
