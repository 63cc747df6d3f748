// Package cmd implements the windstyle subcommands: init, eval, check, ramp,
// and fmt. The interactive repl command lives in package repl.
//
// Commands read expression documents (JSON or YAML) either from their
// positional argument or from the global --source files, and resolve the
// property spec they are typed against from the built-in particle specs or
// from spec files found on the spec search path.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path
	// of the configuration file written by init.
	ConfigIdentifier = "config"
)
