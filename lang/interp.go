package lang

import (
	"context"
	"log/slog"
	"maps"
	"slices"
)

// Interpreter executes programs.
//
// It owns the global scope and the function table. Successive calls to
// [Interpreter.Run] share that state, so an Interpreter can back an
// interactive session; use separate Interpreters for independent runs.
// An Interpreter is not safe for concurrent use.
type Interpreter struct {
	config

	globals *Environment
	funcs   map[string]*FuncDecl
}

// New returns an Interpreter with a fresh global scope.
func New(opts ...Option) *Interpreter {
	in := &Interpreter{config: makeConfig(opts...)}
	in.Reset()

	return in
}

// Reset discards all global variables and user functions.
func (in *Interpreter) Reset() {
	in.globals = NewEnvironment(nil)
	in.funcs = make(map[string]*FuncDecl)
}

// Run checks and executes prog.
//
// The returned Value is the argument of a top-level return statement, or
// [Null] if the program ran to completion. The first error aborts the run.
func (in *Interpreter) Run(ctx context.Context, prog *Program) (Value, error) {
	if err := in.Check(prog); err != nil {
		return Null, err
	}

	in.logger.TraceContext(ctx, "run start",
		slog.Int("statements", len(prog.Body)),
		slog.Int("max_depth", in.maxDepth),
	)

	x := &exec{in: in, ctx: ctx, env: in.globals}

	if err := prog.Accept(x); err != nil {
		in.logger.TraceContext(ctx, "run failed", slog.Any("error", err))

		return Null, err
	}

	result := Null
	if x.returning {
		result = x.value
	}

	in.logger.TraceContext(ctx, "run complete",
		slog.Bool("returned", x.returning),
		slog.Any("result", result),
	)

	return result, nil
}

// RunString parses src, using the shared parse cache, and runs it.
func (in *Interpreter) RunString(ctx context.Context, src string) (Value, error) {
	prog, err := ParseString(ctx, src, WithLogger(in.logger))
	if err != nil {
		return Null, err
	}

	return in.Run(ctx, prog)
}

// Check reports the first call in prog whose callee is neither a function
// declared in prog or earlier runs nor a registered action.
func (in *Interpreter) Check(prog *Program) error {
	r := &resolver{declared: make(map[string]bool)}

	if err := prog.Accept(r); err != nil {
		return err
	}

	for _, call := range r.calls {
		if r.declared[call.Callee] {
			continue
		}

		if _, ok := in.funcs[call.Callee]; ok {
			continue
		}

		if _, ok := in.actions[call.Callee]; ok {
			continue
		}

		return runtimeError(call.At, ErrUndefinedFunction, call.Callee)
	}

	return nil
}

// Lookup returns the value of a global variable.
func (in *Interpreter) Lookup(name string) (Value, bool) {
	return in.globals.Get(name)
}

// Globals returns the sorted names of global variables.
func (in *Interpreter) Globals() []string { return in.globals.Names() }

// Function returns the declaration of a user function.
func (in *Interpreter) Function(name string) (*FuncDecl, bool) {
	fn, ok := in.funcs[name]

	return fn, ok
}

// Functions returns the sorted names of user functions.
func (in *Interpreter) Functions() []string {
	return slices.Sorted(maps.Keys(in.funcs))
}

// Actions returns the sorted names of registered actions.
func (in *Interpreter) Actions() []string { return in.actions.Names() }

// Exec parses and runs src with a new [Interpreter].
func Exec(ctx context.Context, src string, opts ...Option) (Value, error) {
	return New(opts...).RunString(ctx, src)
}
