// Package logging assembles structured slog loggers and formatting helpers used
// across spotlyric.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so lookup code can tag log lines
// with the song under lookup and the request correlation ID. A no-op logger is
// provided for tests and wiring code that cannot fail.
package logging
