// Package logging assembles structured slog loggers and formatting helpers used
// across vidscribe.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so pipeline code can tag log
// lines with session IDs, stages, and correlation IDs. Output goes to stderr
// by default: stdout belongs to the stdio protocol transport.
package logging
