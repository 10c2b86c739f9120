// Package logger configures the application's structured logging based on
// log/slog, and provides helpers for carrying a request-scoped logger
// through a context.Context.
package logger
