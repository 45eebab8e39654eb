package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/miltov/cli/cmd/repl"
	"github.com/ardnew/miltov/lang"
	"github.com/ardnew/miltov/log"
)

// Repl starts an interactive session.
type Repl struct {
	MaxDepth int `default:"10000" help:"Limit on nested function calls" placeholder:"N"`

	Preload []string `arg:"" help:"Script file(s) run before the session starts" name:"preload" optional:""`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	var preload *Sources

	if len(r.Preload) > 0 {
		preload, err = openSources(r.Preload)
		if err != nil {
			return err
		}
		defer preload.Close()
	}

	cacheDir := os.TempDir()

	if ktx := kongContextFrom(ctx); ktx != nil {
		if dir, ok := ktx.Model.Vars()[CacheIdentifier]; ok && dir != "" {
			cacheDir = dir
		}
	}

	logger := log.Default().With(slog.String("command", "repl"))

	if preload == nil {
		return repl.Run(ctx, nil, cacheDir, logger, lang.WithMaxDepth(r.MaxDepth))
	}

	return repl.Run(ctx, preload, cacheDir, logger, lang.WithMaxDepth(r.MaxDepth))
}
