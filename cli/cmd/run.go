package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ardnew/miltov/lang"
	"github.com/ardnew/miltov/log"
	"github.com/ardnew/miltov/platform"
)

// Run executes a script.
type Run struct {
	MaxDepth int           `default:"10000" help:"Limit on nested function calls"                placeholder:"N"`
	Timeout  time.Duration `default:"0"     help:"Abort the run after this duration (0 disables)"`

	Source []string `arg:"" default:"-" help:"Script file(s) or '-' for stdin" name:"source"`
}

// Run executes the run command.
//
// Output of message, shout and print goes to the command output. A value
// returned at top level is printed after the run completes.
func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if r.Timeout > 0 {
		var stop context.CancelFunc

		ctx, stop = context.WithTimeoutCause(ctx, r.Timeout, ErrTimeout)
		defer stop()
	}

	srcs, err := openSources(r.Source)
	if err != nil {
		return err
	}
	defer srcs.Close()

	logger := log.Default().With(slog.String("source", srcs.Name()))

	prog, err := srcs.Parse(ctx, lang.WithLogger(logger))
	if err != nil {
		return err
	}

	out := outputFrom(ctx)
	console := platform.NewConsole(out)

	in := lang.New(
		lang.WithLogger(logger),
		lang.WithSink(console),
		lang.WithActions(platform.Builtins(console)),
		lang.WithMaxDepth(r.MaxDepth),
	)

	logger.DebugContext(ctx, "run start",
		slog.Int("statements", len(prog.Body)),
		slog.Duration("timeout", r.Timeout),
	)

	start := time.Now()

	result, err := in.Run(ctx, prog)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) &&
			errors.Is(context.Cause(ctx), ErrTimeout) {
			return ErrTimeout.Wrap(err).With(slog.Duration("timeout", r.Timeout))
		}

		return err
	}

	logger.DebugContext(ctx, "run complete",
		slog.Duration("elapsed", time.Since(start)),
		slog.Any("result", result),
	)

	if !result.IsNull() {
		_, err = fmt.Fprintln(out, result.String())
	}

	return err
}
