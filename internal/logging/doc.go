// Package logging assembles structured slog loggers used across podclaw.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and stamps every record with an invocation identifier so the
// lines written by one CLI run can be pulled out of the shared log file. The
// package also provides a no-op logger for tests and wiring code that cannot
// fail.
//
// Log records are diagnostics for the operator; messages meant for the person
// at the terminal are rendered by the CLI's presentation layer instead.
package logging
