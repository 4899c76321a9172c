// Package logging assembles structured slog loggers and formatting helpers used
// across tunelib.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context helpers so a CLI invocation can tag every log
// line with its session id. The package also provides a no-op logger for tests
// and wiring code that cannot fail.
package logging
