package metrics

import (
	"time"
)

// Proxy attempt outcomes.
const (
	OutcomeSuccess     = "success"
	OutcomeTimeout     = "timeout"
	OutcomeHTTPError   = "http_error"
	OutcomeBadPayload  = "bad_payload"
	OutcomeCircuitOpen = "circuit_open"
	OutcomeError       = "error"
)

// FallbackSource labels resolutions that no proxy could serve.
const FallbackSource = "fallback"

// RecordProxyAttempt records the outcome and latency of one proxy attempt.
//
// Parameters:
//   - proxy: Endpoint name (e.g. "allorigins")
//   - outcome: One of the Outcome* constants
//   - duration: Time from request start to accept/reject
//
// Example:
//
//	start := time.Now()
//	html, err := endpoint.Fetch(ctx, target)
//	metrics.RecordProxyAttempt(endpoint.Name, metrics.OutcomeSuccess, time.Since(start))
func RecordProxyAttempt(proxy, outcome string, duration time.Duration) {
	ProxyAttemptsTotal.WithLabelValues(proxy, outcome).Inc()
	ProxyAttemptDuration.WithLabelValues(proxy).Observe(duration.Seconds())
}

// RecordPayloadSize records the size of an accepted proxy payload.
func RecordPayloadSize(size int) {
	ProxyPayloadSize.Observe(float64(size))
}

// RecordResolution records a finished resolution.
// source is the proxy that produced the HTML, or FallbackSource.
func RecordResolution(source string, duration time.Duration, title, description, image bool) {
	ResolutionsTotal.WithLabelValues(source).Inc()
	ResolutionDuration.Observe(duration.Seconds())

	if title {
		FieldsResolvedTotal.WithLabelValues("title").Inc()
	}
	if description {
		FieldsResolvedTotal.WithLabelValues("description").Inc()
	}
	if image {
		FieldsResolvedTotal.WithLabelValues("image").Inc()
	}
}

// RecordBackendRequest records a spreadsheet backend call.
// Status should be either "success" or "failure".
func RecordBackendRequest(action string, success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "failure"
	}
	BackendRequestsTotal.WithLabelValues(action, status).Inc()
	BackendRequestDuration.WithLabelValues(action).Observe(duration.Seconds())
}

// UpdateCatalogItems updates the item gauges after a catalog load.
func UpdateCatalogItems(bento, locations int) {
	CatalogItems.WithLabelValues("bento").Set(float64(bento))
	CatalogItems.WithLabelValues("location").Set(float64(locations))
}
