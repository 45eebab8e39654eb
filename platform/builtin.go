package platform

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/builtin"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/miltov/lang"
	"github.com/ardnew/miltov/log"
)

// exprBuiltins lists the expr-lang builtins exposed as actions. Names missing
// from [builtin.Index] are skipped.
//
//nolint:gochecknoglobals
var exprBuiltins = []string{
	"abs", "ceil", "floor", "round", "max", "min",
	"len", "upper", "lower", "trim", "trimPrefix", "trimSuffix",
	"hasPrefix", "hasSuffix", "indexOf", "lastIndexOf",
	"repeat", "replace", "string", "int", "float",
	"toBase64", "fromBase64",
}

// ExprBuiltins returns the sorted names of the expr-lang builtins that
// [Builtins] registers.
func ExprBuiltins() []string {
	names := make([]string, 0, len(exprBuiltins))

	for _, name := range exprBuiltins {
		if _, ok := builtin.Index[name]; ok {
			names = append(names, name)
		}
	}

	slices.Sort(names)

	return names
}

// Builtins returns the standard action registry. print writes to sink; a nil
// sink discards its output.
func Builtins(sink lang.Sink) lang.Actions {
	actions := lang.Actions{
		"env":          env,
		"eval":         eval,
		"pathprefix":   pathPrefix,
		"pathprefixif": pathPrefixIf,
		"print":        printTo(sink),
	}

	for _, name := range ExprBuiltins() {
		actions[name] = callBuiltin(name)
	}

	return actions
}

// Errors returned by actions. The interpreter wraps them with the
// position and name of the failing call.
var (
	ErrArgs    = lang.NewError("invalid arguments")
	ErrCompile = lang.NewError("expression compile error")
	ErrEval    = lang.NewError("expression evaluation error")
)

type programKey struct {
	source string
	arity  int
}

// programs caches compiled expr-lang programs by source and argument count.
//
//nolint:gochecknoglobals
var programs sync.Map

// compile returns the program for source, compiling it on first use.
// Arguments are bound as a0, a1, ... and as the array args.
func compile(source string, arity int) (*vm.Program, error) {
	key := programKey{source, arity}

	if p, ok := programs.Load(key); ok {
		return p.(*vm.Program), nil
	}

	env := map[string]any{"args": []any{}}
	for i := range arity {
		env[argName(i)] = nil
	}

	p, err := expr.Compile(source, expr.Env(env))
	if err != nil {
		return nil, ErrCompile.Wrap(err).With(slog.String("source", source))
	}

	log.Trace("expression compiled",
		slog.String("source", source),
		slog.Int("arity", arity),
	)

	actual, _ := programs.LoadOrStore(key, p)

	return actual.(*vm.Program), nil
}

// run evaluates source with args bound by position.
func run(source string, args []lang.Value) (lang.Value, error) {
	p, err := compile(source, len(args))
	if err != nil {
		return lang.Null, err
	}

	native := make([]any, len(args))
	env := make(map[string]any, len(args)+1)

	for i, a := range args {
		native[i] = a.Native()
		env[argName(i)] = native[i]
	}

	env["args"] = native

	out, err := expr.Run(p, env)
	if err != nil {
		return lang.Null, ErrEval.Wrap(err).With(slog.String("source", source))
	}

	return lang.FromNative(out), nil
}

func argName(i int) string { return "a" + strconv.Itoa(i) }

// callBuiltin returns an action that calls the named expr-lang builtin with
// the action's arguments.
func callBuiltin(name string) lang.Action {
	return func(_ context.Context, args []lang.Value) (lang.Value, error) {
		params := make([]string, len(args))
		for i := range args {
			params[i] = argName(i)
		}

		return run(name+"("+strings.Join(params, ", ")+")", args)
	}
}

// eval evaluates the expr-lang expression in its first argument. The
// remaining arguments are bound as a0, a1, ... and as args.
func eval(_ context.Context, args []lang.Value) (lang.Value, error) {
	if len(args) == 0 {
		return lang.Null, ErrArgs.With(slog.String("usage", "eval(expression, args...)"))
	}

	source, ok := args[0].Str()
	if !ok {
		return lang.Null, ErrArgs.Wrap(
			fmt.Errorf("expression must be a string, got %s", args[0].Type()),
		)
	}

	return run(source, args[1:])
}

// env returns the named process environment variable. An unset variable
// yields the optional second argument, or null.
func env(_ context.Context, args []lang.Value) (lang.Value, error) {
	if len(args) < 1 || len(args) > 2 {
		return lang.Null, ErrArgs.With(slog.String("usage", "env(name[, fallback])"))
	}

	if s, ok := os.LookupEnv(args[0].String()); ok {
		return lang.String(s), nil
	}

	if len(args) == 2 {
		return args[1], nil
	}

	return lang.Null, nil
}

// printTo returns an action that emits its arguments to sink and yields null.
func printTo(sink lang.Sink) lang.Action {
	return func(ctx context.Context, args []lang.Value) (lang.Value, error) {
		if sink != nil {
			sink.Emit(ctx, args)
		}

		return lang.Null, nil
	}
}

// Names returns the sorted names of every action in [Builtins].
func Names() []string {
	return slices.Sorted(maps.Keys(Builtins(nil)))
}
