// Package cli contains the command line interface for windstyle.
//
// # Usage
//
// Without a subcommand, windstyle evaluates the expressions of each source
// document against a feature and prints one result per line:
//
//	windstyle -s style.yaml --zoom 6 --prop speed=12.5
//	echo '["interpolate",["linear"],["zoom"],0,1,10,5]' | windstyle --spec particle-speed
//
// The other commands are:
//
//   - init: write a configuration file with the current flag values
//   - check: report the kind (constant, source, camera, composite) and zoom
//     stops of each expression
//   - ramp: render a color expression over wind speeds as a PNG or text ramp
//   - fmt: reformat expression documents as JSON or YAML
//   - repl: evaluate expressions interactively
//
// # Configuration
//
// Flags may also be set in $XDG_CONFIG_HOME/windstyle/config.yaml, or a
// config.json beside it. Nested mappings are joined with hyphens, so these
// are equivalent:
//
//	log-level: debug
//
//	log:
//	  level: debug
//
// Command-line flags override config file values.
//
// WINDSTYLE_CONFIG_DIR and WINDSTYLE_CACHE_DIR replace the configuration and
// cache directories.
//
// # Property Specs
//
// Property specs other than the built-in ones are YAML files named after the
// property. They are looked up in the --spec-path directories, then in the
// directories listed in WINDSTYLE_SPEC_PATH, then in the specs directory of
// the configuration directory.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, none, etc.)
//   - --log-caller: Include caller information in log output
//   - --[no-]log-pretty: Colorize text output
//
// # Metrics
//
//   - --metrics-textfile: Write compile and evaluation counters in the
//     Prometheus text format on exit
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o windstyle .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/windstyle/pprof)
package cli
