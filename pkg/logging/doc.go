// Package logging configures slog for the scenario tools: JSON records on
// stderr, a module and version attribute on every line, and verbosity taken
// from the LOG_LEVEL environment variable unless a caller pins one.
//
// Binaries install the default logger once at startup and use slog directly
// everywhere else:
//
//	logging.SetDefaultStructuredLogger("scenctl", version)
//	slog.Info("catalog loaded", "documents", 14)
//
// Levels parse case-insensitively (debug, info, warn or warning, error);
// anything unrecognized means info, so a mistyped LOG_LEVEL never silences
// a process. At debug the handler also records source locations:
//
//	LOG_LEVEL=debug scenctl lint
//
// produces records like
//
//	{"time":"2025-01-15T10:30:00.123Z","level":"DEBUG",
//	 "source":{"function":"main.loadCatalog","file":"catalog.go","line":45},
//	 "msg":"catalog reloaded","module":"scenctl","version":"v1.0.0"}
//
// Stderr keeps the streams separable: scenctl list --format json writes its
// document to stdout, so piping the output stays clean no matter how chatty
// the logs are. NewLogLogger bridges dependencies that only accept a
// *log.Logger onto the same handler.
package logging
