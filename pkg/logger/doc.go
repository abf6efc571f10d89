// Package logger builds slog loggers with consistent defaults for the
// platform core.
//
// Production services use JSON output for log aggregation; development
// uses text. The factory is configured with functional options and the
// resulting *slog.Logger is passed explicitly to each component
// constructor, never read from ambient state.
package logger
