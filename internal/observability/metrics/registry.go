// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics track HTTP request patterns and performance
var (
	// HTTPRequestsTotal counts total HTTP requests by method, path, and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration tracks request latency.
	// The upper buckets cover an OGP lookup that walks every proxy to its timeout.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 20, 30},
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestsInFlight tracks the current number of HTTP requests being processed.
	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		},
	)

	// HTTPRequestSize measures HTTP request body size in bytes
	HTTPRequestSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_size_bytes",
			Help:    "HTTP request size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)

	// HTTPResponseSize measures HTTP response body size in bytes
	HTTPResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)

	// HTTPRateLimitedTotal counts requests rejected with 429.
	HTTPRateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "http_rate_limited_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
	)
)

// CircuitBreakerState reports each breaker's state.
// 0: closed, 1: half-open, 2: open (gobreaker.State values)
var CircuitBreakerState = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "circuit_breaker_state",
		Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
	},
	[]string{"circuit"},
)

// OGP resolution metrics
var (
	// ProxyAttemptsTotal counts proxy attempts by proxy name and outcome.
	// outcome: success, timeout, http_error, bad_payload, circuit_open, error
	ProxyAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ogp_proxy_attempts_total",
			Help: "Total number of OGP proxy attempts",
		},
		[]string{"proxy", "outcome"},
	)

	// ProxyAttemptDuration measures time spent on a single proxy attempt.
	ProxyAttemptDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ogp_proxy_attempt_duration_seconds",
			Help:    "Time taken by a single OGP proxy attempt",
			Buckets: []float64{0.1, 0.2, 0.4, 0.8, 1.6, 3.2, 6.4, 12.8},
		},
		[]string{"proxy"},
	)

	// ProxyPayloadSize measures accepted HTML payload size in bytes.
	ProxyPayloadSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "ogp_proxy_payload_size_bytes",
			Help: "Size of HTML payloads accepted from proxies",
			Buckets: []float64{
				100, 400, 1600, 6400, 25600, 102400, 409600,
				1638400, 6553600, // up to ~6MB
			},
		},
	)

	// ResolutionsTotal counts finished resolutions.
	// source: the proxy name that produced the HTML, or "fallback"
	ResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ogp_resolutions_total",
			Help: "Total number of OGP resolutions by producing source",
		},
		[]string{"source"},
	)

	// ResolutionDuration measures the end-to-end time of one resolution.
	ResolutionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ogp_resolution_duration_seconds",
			Help:    "Time taken to resolve OGP metadata for a URL",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
	)

	// FieldsResolvedTotal counts non-empty result fields.
	FieldsResolvedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ogp_fields_resolved_total",
			Help: "Total number of non-empty OGP fields produced",
		},
		[]string{"field"}, // field: title, description, image
	)
)

// Spreadsheet backend metrics
var (
	// BackendRequestsTotal counts spreadsheet backend calls by action and status.
	BackendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backend_requests_total",
			Help: "Total number of spreadsheet backend requests",
		},
		[]string{"action", "status"},
	)

	// BackendRequestDuration measures spreadsheet backend call latency.
	BackendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "backend_request_duration_seconds",
			Help:    "Spreadsheet backend request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
		[]string{"action"},
	)

	// CatalogItems tracks items in the last loaded catalog.
	CatalogItems = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "catalog_items",
			Help: "Number of items in the last loaded catalog",
		},
		[]string{"kind"},
	)
)

// RecordHTTPRequest records an HTTP request with its metadata
func RecordHTTPRequest(method, path, status string, duration time.Duration, requestSize, responseSize int) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())

	if requestSize > 0 {
		HTTPRequestSize.WithLabelValues(method, path).Observe(float64(requestSize))
	}
	if responseSize > 0 {
		HTTPResponseSize.WithLabelValues(method, path).Observe(float64(responseSize))
	}
}
