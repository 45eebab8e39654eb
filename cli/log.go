package cli

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/miltov/log"
)

// logFormat configures the default logger's format as a side effect of
// parsing via encoding.TextUnmarshaler, so that errors reported while kong
// is still parsing already use it.
type logFormat string

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *logFormat) UnmarshalText(text []byte) error {
	*f = logFormat(text)
	log.Config(log.WithFormat(log.ParseFormat(string(*f))))

	return nil
}

// logLevel configures the default logger's level as a side effect of parsing
// via encoding.TextUnmarshaler.
type logLevel string

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *logLevel) UnmarshalText(text []byte) error {
	*l = logLevel(text)
	log.Config(log.WithLevel(log.ParseLevel(string(*l))))

	return nil
}

type logConfig struct {
	Level      logLevel  `default:"${logLevelDefault}"  enum:"${logLevelEnum}"  help:"Set log level."`
	Format     logFormat `default:"${logFormatDefault}" enum:"${logFormatEnum}" help:"Set log format."`
	TimeLayout string    `default:"RFC3339"                                    help:"Set timestamp format (a layout name, a Go layout, or none)."`
	Caller     bool      `default:"false"                                      help:"Include caller information."                                 negatable:""`
	Pretty     bool      `default:"true"                                       help:"Enable colorized pretty printing."                           negatable:""`
}

func (*logConfig) vars() kong.Vars {
	return kong.Vars{
		"logLevelEnum":     strings.Join(slices.Collect(log.Levels()), ","),
		"logLevelDefault":  log.LevelWarn.String(),
		"logFormatEnum":    strings.Join(slices.Collect(log.Formats()), ","),
		"logFormatDefault": log.DefaultFormat.String(),
	}
}

func (*logConfig) group() kong.Group {
	return kong.Group{Key: "log", Title: "Logging options"}
}

// start applies every parsed logger flag to the default logger.
func (f *logConfig) start(ctx context.Context) {
	log.Config(
		log.WithLevel(log.ParseLevel(string(f.Level))),
		log.WithFormat(log.ParseFormat(string(f.Format))),
		log.WithTimeLayout(f.TimeLayout),
		log.WithCaller(f.Caller),
		log.WithPretty(f.Pretty),
	)

	log.DebugContext(ctx, "logger initialized",
		slog.String("level", string(f.Level)),
		slog.String("format", string(f.Format)),
		slog.String("time", f.TimeLayout),
		slog.Bool("caller", f.Caller),
		slog.Bool("pretty", f.Pretty),
	)
}

// scan applies logger flags found in args before kong parses them, so the
// logger is configured regardless of flag position. The level and format are
// also applied by their UnmarshalText methods during parsing, but boolean
// flags are not, so scan handles those too.
func (f *logConfig) scan(args []string) {
	for i := 0; i < len(args); i++ {
		arg, negated := strings.CutPrefix(args[i], "--no-")
		if !negated {
			arg, _ = strings.CutPrefix(args[i], "--")
		}

		name, value, assigned := strings.Cut(arg, "=")

		// next consumes the following argument as the value of a
		// non-boolean flag.
		next := func() string {
			if !assigned && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				i++

				return args[i]
			}

			return value
		}

		// flag returns the value of a boolean flag.
		flag := func() (bool, bool) {
			b := true

			if assigned {
				var err error

				if b, err = strconv.ParseBool(value); err != nil {
					return false, false
				}
			}

			return b != negated, true
		}

		switch name {
		case "log-level":
			if !negated {
				_ = f.Level.UnmarshalText([]byte(next()))
			}

		case "log-format":
			if !negated {
				_ = f.Format.UnmarshalText([]byte(next()))
			}

		case "log-pretty":
			if b, ok := flag(); ok {
				f.Pretty = b
				log.Config(log.WithPretty(b))
			}

		case "log-caller":
			if b, ok := flag(); ok {
				f.Caller = b
				log.Config(log.WithCaller(b))
			}
		}
	}
}
