package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/ardnew/miltov/lang"
	"github.com/ardnew/miltov/log"
	"github.com/ardnew/miltov/profile"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = 2

// Init writes the configuration script from the current flag values.
//
// The script declares one global per flag, named after the flag with
// hyphens replaced by underscores:
//
//	milt log_level = "warn"
//	milt log_pretty = "true"
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)
	if ktx == nil {
		panic("internal error: kong context undefined")
	}

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	// Check if file exists and force not set
	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	file, err := os.Create(confPath)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}
	defer file.Close()

	prog := i.buildProgram(ctx)

	err = prog.Format(ctx, file, defaultConfigIndent)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file",
		slog.String("path", confPath),
		slog.Int("flags", len(prog.Body)),
	)

	return nil
}

// buildProgram declares a global for each top-level flag with a value that
// Miltov source can express.
func (i *Init) buildProgram(ctx context.Context) *lang.Program {
	ktx := kongContextFrom(ctx)

	prog := new(lang.Program)

	ignore := []string{"help", "version", profile.Tag}

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(ignore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		name := strings.ReplaceAll(flag.Name, "-", "_")

		value := flagLiteral(ktx.FlagValue(flag))
		if value == nil {
			log.DebugContext(ctx, "flag not written",
				slog.String("flag", flag.Name),
			)

			continue
		}

		prog.Body = append(prog.Body, &lang.VarDecl{Name: name, Init: value})
	}

	return prog
}

// flagLiteral returns the expression for a flag value, or nil if the value
// is unset or cannot be written as a Miltov literal.
//
// Miltov has no boolean or fractional literals, so booleans, durations and
// fractional numbers are written as strings, which kong parses back.
func flagLiteral(val any) lang.Expr {
	switch v := val.(type) {
	case nil:
		return nil

	case bool:
		return stringLiteral(fmt.Sprint(v))

	case time.Duration:
		return stringLiteral(v.String())

	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return numberLiteral(lang.FromNative(v))

	case float32, float64:
		return numberLiteral(lang.FromNative(v))

	case []string:
		return stringLiteral(strings.Join(v, ","))

	case fmt.Stringer:
		return stringLiteral(v.String())

	default:
		return stringLiteral(fmt.Sprint(v))
	}
}

// String literals cannot contain a double quote or a newline.
func stringLiteral(s string) lang.Expr {
	if s == "" || strings.ContainsAny(s, "\"\n") {
		return nil
	}

	return &lang.Literal{Value: lang.String(s)}
}

func numberLiteral(v lang.Value) lang.Expr {
	f, _ := v.Num()

	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return stringLiteral(v.String())
	}

	if f < 0 {
		return &lang.UnaryExpr{
			Operator: lang.MINUS,
			Argument: &lang.Literal{Value: lang.Number(-f)},
		}
	}

	return &lang.Literal{Value: v}
}
