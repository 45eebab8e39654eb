package cli

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/miltov/lang"
	"github.com/ardnew/miltov/log"
	"github.com/ardnew/miltov/platform"
)

// resolve returns a [kong.ConfigurationLoader] for configuration scripts.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx), "/path/to/config.milt")
//
// The script runs with the platform builtins, so it may compute values, for
// example from the environment. Each global it declares sets the default of
// the flag with the same name, with hyphens written as underscores:
//
//	milt log_level = "debug"
//	milt log_format = env("MILTOV_LOG_FORMAT", "text")
//	milt log_pretty = "false"
//
// Numbers are passed to kong in their display form. Output of message, shout
// and print is discarded. A script that fails to parse or run is logged and
// ignored, so a broken configuration never prevents the CLI from starting.
//
// Command-line flags override configuration values.
func resolve(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		var discard platform.Recorder

		in := lang.New(
			lang.WithLogger(log.Default()),
			lang.WithSink(&discard),
			lang.WithActions(platform.Builtins(&discard)),
		)

		prog, err := lang.ParseReader(ctx, r, lang.WithLogger(log.Default()))
		if err == nil {
			_, err = in.Run(ctx, prog)
		}

		if err != nil {
			log.WarnContext(ctx, "configuration ignored", slog.Any("error", err))

			return config{}, nil
		}

		cfg := make(config)

		for _, name := range in.Globals() {
			v, _ := in.Lookup(name)
			if v.IsNull() {
				continue
			}

			if b, ok := v.Boolean(); ok {
				cfg[name] = b
			} else {
				cfg[name] = v.String()
			}
		}

		log.TraceContext(ctx, "configuration loaded", slog.Int("values", len(cfg)))

		return cfg, nil
	}
}

// config implements [kong.Resolver] for the globals of a configuration
// script.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	if value, ok := c[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	return nil, nil //nolint:nilnil
}
