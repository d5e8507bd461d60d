// Package logging assembles structured slog loggers and formatting helpers used
// across fpdedup.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context helpers so scan code can tag every line with
// the run identifier. The package also provides a no-op logger for tests and
// wiring code that cannot fail, and a sampler that thins progress logging to
// percentage buckets when no terminal is attached.
package logging
