package lang

import (
	"context"
	"maps"
	"slices"
)

// Sink receives the output of message and shout statements.
//
// Neither method reports failure to the interpreter; delivery problems are
// the sink's own concern.
type Sink interface {
	Emit(ctx context.Context, values []Value)
	Announce(ctx context.Context, text string)
}

// Action is a named operation provided by the host. Calls to names that are
// not user functions are dispatched to the matching Action, and the
// interpreter waits for it to return before continuing.
type Action func(ctx context.Context, args []Value) (Value, error)

// Actions maps callee names to their handlers.
type Actions map[string]Action

// Names returns the sorted action names.
func (a Actions) Names() []string {
	return slices.Sorted(maps.Keys(a))
}

// Merge returns a new registry containing a overlaid with each of others in
// order.
func (a Actions) Merge(others ...Actions) Actions {
	out := maps.Clone(a)
	if out == nil {
		out = Actions{}
	}

	for _, o := range others {
		maps.Copy(out, o)
	}

	return out
}

type discard struct{}

func (discard) Emit(context.Context, []Value)    {}
func (discard) Announce(context.Context, string) {}
