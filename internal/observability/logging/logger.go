// Package logging provides structured logging utilities using the standard library's log/slog package.
// It offers helper functions for creating loggers with consistent configuration and context propagation.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"bento-navi/internal/handler/http/requestid"
)

// Format selects the log output encoding.
type Format string

const (
	// FormatJSON writes one JSON object per line (production default).
	FormatJSON Format = "json"
	// FormatText writes human-readable key=value lines for local development.
	FormatText Format = "text"
)

// ParseLevel maps a LOG_LEVEL value to a slog.Level.
// Supported levels: debug, info, warn, error. Anything else is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New creates a structured logger writing to w.
// Source locations are attached for warn and above.
func New(w io.Writer, format Format, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level <= slog.LevelWarn,
	}

	var handler slog.Handler
	if format == FormatText {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler)
}

// NewFromEnv creates a stdout logger configured by LOG_LEVEL and LOG_FORMAT.
// The CLI passes FormatText as fallback so interactive output stays readable;
// servers pass FormatJSON.
func NewFromEnv(fallback Format) *slog.Logger {
	format := fallback
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		format = Format(strings.ToLower(v))
	}
	return New(os.Stdout, format, ParseLevel(os.Getenv("LOG_LEVEL")))
}

// WithRequestID returns a new logger that includes the request ID from the context.
// This enables request tracing across log entries.
func WithRequestID(ctx context.Context, logger *slog.Logger) *slog.Logger {
	reqID := requestid.FromContext(ctx)
	if reqID == "" {
		return logger
	}
	return logger.With("request_id", reqID)
}

// FromContext retrieves the logger from the context, or returns the default logger if not found.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerContextKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey, logger)
}

type contextKey string

const loggerContextKey contextKey = "logger"
