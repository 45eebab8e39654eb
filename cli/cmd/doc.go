// Package cmd implements the miltov subcommands: run, check, fmt, init and
// repl.
//
// Commands receive their [kong.Context] and output writer through the
// [context.Context] passed to Run; see [WithContext] and [WithOutput].
// Every command reads one or more sources, where "-" selects stdin. Sources
// are concatenated in order with stdin last, and a file named more than once
// is read once.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration script.
	ConfigIdentifier = "config"
)
