// Package cli contains the command line interface for miltov.
//
// # Usage
//
//	miltov [flags] [run] [<source> ...]
//	miltov check [<source> ...]
//	miltov fmt {native|json|yaml|ast|tokens} [<source> ...]
//	miltov init [--force]
//	miltov repl [<preload> ...]
//
// A source of "-" reads stdin, which is also the default. The run command is
// selected when no other command is named.
//
// # Configuration
//
// Flag defaults are read from a configuration script in the user
// configuration directory (for example ~/.config/miltov/config.milt). The
// script is ordinary Miltov: each global it declares sets the flag of the
// same name, with hyphens written as underscores.
//
//	milt log_level = "debug"
//	milt log_format = "json"
//	milt max_depth = 500
//
// Use "miltov init" to write the script from the current flag values. A JSON
// file with the same name plus ".json" is also read, if present. Command-line
// flags override both.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, none, etc.)
//   - --[no-]log-caller: Include caller information in log output
//   - --[no-]log-pretty: Colorize output and indent JSON
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o miltov .
//
// Then:
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default: ~/.cache/miltov/pprof)
package cli
