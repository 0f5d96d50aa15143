// Package logging assembles structured slog loggers and formatting helpers used
// across subclean.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so stage code can automatically
// tag log lines with file names, stages, and review session IDs. The package
// also provides a no-op logger for tests and wiring code that cannot fail.
//
// Logs default to stderr: stdout belongs to the interactive review console.
package logging
