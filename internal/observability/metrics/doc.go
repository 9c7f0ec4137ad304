// Package metrics provides Prometheus metrics registry and recording utilities.
//
// This package centralizes all application metrics including:
//   - HTTP request metrics (duration, count, size)
//   - OGP proxy attempt and resolution metrics
//   - Spreadsheet backend call metrics
//
// All metrics are automatically registered with the Prometheus default registry
// and exposed via the /metrics endpoint.
//
// Example usage:
//
//	import "bento-navi/internal/observability/metrics"
//
//	func resolve(ctx context.Context, target string) {
//	    start := time.Now()
//	    // ... walk proxies ...
//	    metrics.RecordResolution("allorigins", time.Since(start), true, true, false)
//	}
package metrics
