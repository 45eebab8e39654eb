package cmd

import "github.com/ardnew/miltov/lang"

// Command errors. They share the structured error type of the language, so
// attributes added with With are logged alongside the cause.
var (
	ErrReadSource  = lang.NewError("read source")
	ErrFormat      = lang.NewError("format program")
	ErrWriteConfig = lang.NewError("write configuration file")
	ErrFileExists  = lang.NewError("file exists (use --force to overwrite)")
	ErrTimeout     = lang.NewError("run timed out")
)
