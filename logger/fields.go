package logger

import (
	"context"

	"go.uber.org/zap"
)

// Standard field names for consistent structured logging.
const (
	// Identity
	FieldRequestID = "request_id"

	// Child processes
	FieldExecutable = "executable"
	FieldCommand    = "command"
	FieldExitCode   = "exit_code"
	FieldLines      = "lines"

	// Files and paths
	FieldFile     = "file"
	FieldFiles    = "files"
	FieldDir      = "dir"
	FieldSuffixes = "suffixes"
	FieldURI      = "uri"

	// Results
	FieldCandidates = "candidates"
	FieldAvailable  = "available"
	FieldVersion    = "version"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"
)

type contextKey string

const requestIDKey contextKey = "logger_request_id"

// WithRequestID adds a request ID to the context for logging
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// FieldsFromContext extracts logging fields from context.
// Returns key-value pairs suitable for use with Infow/Errorw/etc.
func FieldsFromContext(ctx context.Context) []interface{} {
	var fields []interface{}

	if requestID, ok := ctx.Value(requestIDKey).(string); ok && requestID != "" {
		fields = append(fields, FieldRequestID, requestID)
	}

	return fields
}

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	src := ctags.NewSource(ctags.Options{
//	    Logger: logger.ComponentLogger("ctags.source"),
//	})
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}
