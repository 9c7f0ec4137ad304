// Package http provides the HTTP handlers and middleware of the API server:
// health checks, metrics, request logging and the middleware chain shared by
// the ogp and catalog handler packages.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// Health states reported per check.
const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
)

// HealthResponse represents the JSON response for health check endpoints.
type HealthResponse struct {
	Status    string                 `json:"status"`    // "healthy", "degraded" or "unhealthy"
	Timestamp string                 `json:"timestamp"` // ISO 8601 format
	Checks    map[string]CheckStatus `json:"checks"`    // Status of each check item
	Version   string                 `json:"version"`   // Application version
}

// CheckStatus represents the status of a single health check.
type CheckStatus struct {
	Status  string                 `json:"status"`
	Message string                 `json:"message,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Circuit exposes the state of a circuit breaker.
type Circuit interface {
	BreakerState() gobreaker.State
}

// ProxyCircuit is a named proxy with its circuit breaker.
type ProxyCircuit interface {
	Circuit
	Name() string
}

// HealthHandler reports the proxy and spreadsheet circuit states.
// The service is unhealthy only when every proxy circuit is open, because
// OGP resolution is then guaranteed to return the fallback title.
type HealthHandler struct {
	Proxies []ProxyCircuit
	Backend Circuit // nil in demo mode
	Version string
}

// ServeHTTP returns 200 OK when healthy or degraded, 503 when unhealthy.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	checks := map[string]CheckStatus{
		"proxies":     h.checkProxies(),
		"spreadsheet": h.checkBackend(),
	}

	// 全体のステータス決定
	status := statusHealthy
	statusCode := http.StatusOK
	for _, c := range checks {
		switch c.Status {
		case statusUnhealthy:
			status = statusUnhealthy
			statusCode = http.StatusServiceUnavailable
		case statusDegraded:
			if status == statusHealthy {
				status = statusDegraded
			}
		}
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Default().Error("health: failed to encode response", slog.Any("error", err))
	}
}

// checkProxies reports each proxy circuit state.
func (h *HealthHandler) checkProxies() CheckStatus {
	if len(h.Proxies) == 0 {
		return CheckStatus{Status: statusUnhealthy, Message: "no proxies configured"}
	}

	details := make(map[string]interface{}, len(h.Proxies))
	open := 0
	for _, p := range h.Proxies {
		state := p.BreakerState()
		details[p.Name()] = state.String()
		if state == gobreaker.StateOpen {
			open++
		}
	}

	switch {
	case open == len(h.Proxies):
		return CheckStatus{Status: statusUnhealthy, Message: "all proxy circuits are open", Details: details}
	case open > 0:
		return CheckStatus{Status: statusDegraded, Message: "some proxy circuits are open", Details: details}
	default:
		return CheckStatus{Status: statusHealthy, Details: details}
	}
}

// checkBackend reports the spreadsheet circuit. An open circuit degrades the
// catalog but OGP resolution keeps working.
func (h *HealthHandler) checkBackend() CheckStatus {
	if h.Backend == nil {
		return CheckStatus{Status: statusHealthy, Message: "not configured (demo mode)"}
	}

	state := h.Backend.BreakerState()
	details := map[string]interface{}{"circuit": state.String()}
	if state == gobreaker.StateOpen {
		return CheckStatus{Status: statusDegraded, Message: "spreadsheet circuit is open", Details: details}
	}
	return CheckStatus{Status: statusHealthy, Details: details}
}

// ReadyHandler handles readiness probe requests.
// It is ready while at least one proxy circuit is not open.
type ReadyHandler struct {
	Proxies []ProxyCircuit
}

// ServeHTTP returns 200 OK if ready, or 503 Service Unavailable otherwise.
func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	for _, p := range h.Proxies {
		if p.BreakerState() != gobreaker.StateOpen {
			w.Header().Set("Content-Type", "text/plain")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready"))
			return
		}
	}
	http.Error(w, "no proxy available", http.StatusServiceUnavailable)
}

// LiveHandler handles liveness probe requests.
type LiveHandler struct{}

// ServeHTTP always returns 200 OK if the application is able to respond.
func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("alive")); err != nil {
		slog.Default().Error("alive: failed to write response", slog.Any("error", err))
	}
}
