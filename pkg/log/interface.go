// Package log provides a structured logging interface for variable importance runs.
//
// This package defines a minimal, slog-compatible logging interface backed by
// zerolog. The interface is implementation-agnostic so callers can swap in
// their own backend, while the rest of the module logs fold orchestration,
// strategy computation and aggregation through a consistent API.
//
// Example usage:
//
//	logger := log.GetLoggerWithName("importance.driver").With(
//	    log.StrategyKey, "cpi",
//	    log.SeedKey, 42,
//	)
//	logger.Info("Run started",
//	    log.FoldsKey, 5,
//	    log.GroupsKey, 12,
//	)
package log

import (
	"context"
)

// Logger defines a structured logging interface compatible with Go's log/slog.
//
// The interface supports method chaining through the With method, allowing
// creation of contextual loggers with pre-populated fields.
type Logger interface {
	// Debug logs a debug-level message with optional structured fields.
	Debug(msg string, fields ...any)

	// Info logs an info-level message with optional structured fields.
	Info(msg string, fields ...any)

	// Warn logs a warning-level message with optional structured fields.
	Warn(msg string, fields ...any)

	// Error logs an error-level message with optional structured fields.
	// If the first field is an error, stack trace information from
	// cockroachdb/errors is attached when available.
	Error(msg string, fields ...any)

	// With returns a new Logger with the given fields pre-populated.
	With(fields ...any) Logger

	// Enabled reports whether the logger emits log records at the given level.
	// Useful to avoid expensive field construction for records that would be
	// discarded.
	Enabled(ctx context.Context, level Level) bool
}

// Level represents a logging level, compatible with slog.Level.
type Level int

// Standard logging levels, values are compatible with slog.Level.
const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}
