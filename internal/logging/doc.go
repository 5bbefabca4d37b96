// Package logging assembles structured slog loggers and formatting helpers used
// by the moviefinder server and CLI.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and wraps every handler so records logged with a context carry the
// request ID, browser session ID, and OpenTelemetry trace/span IDs found on
// it. A no-op logger is provided for tests and wiring code that cannot fail.
package logging
