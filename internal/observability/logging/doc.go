// Package logging provides structured logging utilities with context propagation.
//
// Loggers are plain *slog.Logger values. The HTTP layer attaches a
// request-scoped logger to the context; the OGP resolver and the catalog
// service pick it up with FromContext so proxy failures and backend errors
// carry the request_id of the call that caused them.
//
// Example usage:
//
//	logger := logging.NewFromEnv(logging.FormatJSON)
//	ctx = logging.WithLogger(ctx, logging.WithRequestID(ctx, logger))
//	logging.FromContext(ctx).Warn("proxy attempt failed", slog.String("proxy", "allorigins"))
package logging
