// Package logger provides structured logging functionality for the application.
//
// It utilizes Go's standard library log/slog package to implement structured JSON logging
// with configurable log levels, a CRITICAL level for swallowed failures, and
// request-scoped loggers carried on context.Context.
package logger
