// Package log is a small layer over [log/slog] shared by every windstyle
// package.
//
// A [Logger] is built once from functional options and is safe for
// concurrent use:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("none"))
//
//	logger.WarnContext(ctx, "evaluation failed",
//		slog.String("property", "particle-color"))
//
// Logging methods take [slog.Attr] values only, never alternating key/value
// arguments. Each level has a context-aware variant. The others use the
// context returned by [DefaultContextProvider].
//
// # Levels
//
// [LevelTrace] sits below [LevelDebug] and is used for per-node parser
// diagnostics. Records below the configured level are dropped before any
// attribute is resolved.
//
// # Output
//
// Records are encoded as [FormatText] (the default) or [FormatJSON]. With
// [WithPretty], both formats are colorized for terminals and rendered
// without quoting. The plain handlers of [log/slog] are used otherwise.
//
// # Default logger
//
// The package-level functions write to a process-wide logger that starts
// out writing to standard error. The command line front end reconfigures
// it with [Config] as flags are parsed.
package log
