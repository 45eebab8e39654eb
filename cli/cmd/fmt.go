package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/miltov/lang"
	"github.com/ardnew/miltov/log"
)

// Fmt parses a script and prints it in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as canonical Miltov source (default)."`
	JSON   JSON   `cmd:""                    help:"Format the syntax tree as JSON."`
	YAML   YAML   `cmd:""                    help:"Format the syntax tree as YAML."`
	AST    AST    `cmd:""                    help:"Format the syntax tree as an indented outline."`
	Tokens Tokens `cmd:""                    help:"List the tokens of the source."`
}

// Native formats input as canonical Miltov source.
type Native struct {
	Indent int `default:"2" help:"Indent width for formatted output" short:"i"`

	Source []string `arg:"" default:"-" help:"Source input file(s) or '-' for stdin." name:"source"`
}

// Run executes the native format command.
func (f *Native) Run(ctx context.Context) error {
	return formatProgram(ctx, "native", f.Source,
		func(prog *lang.Program, w io.Writer) error {
			return prog.Format(ctx, w, f.Indent)
		},
	)
}

// JSON formats the syntax tree as JSON.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output (0 for compact)" short:"i"`

	Source []string `arg:"" default:"-" help:"Source input file(s) or '-' for stdin." name:"source"`
}

// Run executes the json format command.
func (f *JSON) Run(ctx context.Context) error {
	return formatProgram(ctx, "json", f.Source,
		func(prog *lang.Program, w io.Writer) error {
			return prog.FormatJSON(ctx, w, f.Indent)
		},
	)
}

// YAML formats the syntax tree as YAML.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output" short:"i"`

	Source []string `arg:"" default:"-" help:"Source input file(s) or '-' for stdin." name:"source"`
}

// Run executes the yaml format command.
func (f *YAML) Run(ctx context.Context) error {
	return formatProgram(ctx, "yaml", f.Source,
		func(prog *lang.Program, w io.Writer) error {
			return prog.FormatYAML(ctx, w, f.Indent)
		},
	)
}

// AST formats the syntax tree as an indented outline.
type AST struct {
	Source []string `arg:"" default:"-" help:"Source input file(s) or '-' for stdin." name:"source"`
}

// Run executes the ast format command.
func (f *AST) Run(ctx context.Context) error {
	return formatProgram(ctx, "ast", f.Source,
		func(prog *lang.Program, w io.Writer) error {
			return prog.FormatAST(ctx, w)
		},
	)
}

// Tokens lists the tokens of the source without parsing it.
type Tokens struct {
	Source []string `arg:"" default:"-" help:"Source input file(s) or '-' for stdin." name:"source"`
}

// Run executes the tokens format command.
func (f *Tokens) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	srcs, err := openSources(f.Source)
	if err != nil {
		return err
	}
	defer srcs.Close()

	data, err := io.ReadAll(srcs)
	if err != nil {
		return ErrReadSource.Wrap(err).With(slog.String("file", srcs.Name()))
	}

	toks, err := lang.Lex(string(data))
	if err != nil {
		return err
	}

	log.DebugContext(ctx, "lexed source",
		slog.String("source", srcs.Name()),
		slog.Int("tokens", len(toks)),
	)

	if err := lang.FormatTokens(outputFrom(ctx), toks); err != nil {
		return ErrFormat.Wrap(err).With(slog.String("format", "tokens"))
	}

	return nil
}

// formatProgram parses the sources and writes the program with write.
func formatProgram(
	ctx context.Context,
	format string,
	paths []string,
	write func(*lang.Program, io.Writer) error,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	srcs, err := openSources(paths)
	if err != nil {
		return err
	}
	defer srcs.Close()

	prog, err := srcs.Parse(ctx, lang.WithLogger(log.Default()))
	if err != nil {
		return lang.WrapError(err).With(slog.String("format", format))
	}

	if err := write(prog, outputFrom(ctx)); err != nil {
		return ErrFormat.Wrap(err).With(slog.String("format", format))
	}

	return nil
}
