package platform

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/ardnew/miltov/lang"
)

func TestConsole(t *testing.T) {
	var buf bytes.Buffer

	c := NewConsole(&buf)
	c.Emit(t.Context(), []lang.Value{lang.String("x ="), lang.Number(1.5), lang.Bool(true), lang.Null})
	c.Emit(t.Context(), nil)
	c.Announce(t.Context(), "hello")

	// A bytes.Buffer is not a terminal, so the banner carries no styling.
	want := "x = 1.5 true null\n\nhello\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestConsole_Concurrent(t *testing.T) {
	var buf bytes.Buffer

	c := NewConsole(&buf)

	var wg sync.WaitGroup

	for i := range 16 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			c.Emit(t.Context(), []lang.Value{lang.Number(float64(i))})
		}()
	}

	wg.Wait()

	if got := strings.Count(buf.String(), "\n"); got != 16 {
		t.Errorf("expected 16 lines, got %d", got)
	}
}

func TestRecorder(t *testing.T) {
	var r Recorder

	values := []lang.Value{lang.String("a"), lang.Number(2)}
	r.Emit(t.Context(), values)
	r.Announce(t.Context(), "loud")

	values[0] = lang.String("changed")

	events := r.Events()
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}

	if events[0].Shout || !events[1].Shout {
		t.Errorf("unexpected event kinds %+v", events)
	}

	got := r.Lines()
	if got[0] != "a 2" || got[1] != "loud" {
		t.Errorf("unexpected lines %q", got)
	}

	r.Reset()

	if len(r.Lines()) != 0 {
		t.Error("events remain after Reset")
	}
}
