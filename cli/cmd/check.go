package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/miltov/lang"
	"github.com/ardnew/miltov/log"
	"github.com/ardnew/miltov/platform"
)

// Check parses a script and resolves its calls without running it.
type Check struct {
	Source []string `arg:"" default:"-" help:"Script file(s) or '-' for stdin" name:"source"`
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	srcs, err := openSources(c.Source)
	if err != nil {
		return err
	}
	defer srcs.Close()

	logger := log.Default().With(slog.String("source", srcs.Name()))

	prog, err := srcs.Parse(ctx, lang.WithLogger(logger))
	if err != nil {
		return err
	}

	// Resolve against the same actions that run provides.
	in := lang.New(
		lang.WithLogger(logger),
		lang.WithActions(platform.Builtins(nil)),
	)

	if err := in.Check(prog); err != nil {
		return err
	}

	logger.InfoContext(ctx, "check passed",
		slog.Int("statements", len(prog.Body)),
	)

	return nil
}
