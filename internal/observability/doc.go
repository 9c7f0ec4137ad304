// Package observability groups the logging, metrics and tracing infrastructure.
//
// Subpackages:
//   - logging: slog construction and context propagation
//   - metrics: Prometheus collectors for proxy attempts, resolutions and backend calls
//   - tracing: OpenTelemetry spans for HTTP requests and OGP resolution
package observability
