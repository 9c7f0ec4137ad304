package http

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"bento-navi/internal/handler/http/respond"
	"bento-navi/internal/observability/metrics"
	"bento-navi/pkg/config"
)

// RateLimiterConfig configures the per-client sliding window.
type RateLimiterConfig struct {
	// Limit is the number of requests allowed per Window.
	Limit  int
	Window time.Duration

	// TrustProxyHeaders takes the client address from X-Forwarded-For and
	// X-Real-IP. Enable only behind a reverse proxy that overwrites them,
	// otherwise clients pick their own key.
	TrustProxyHeaders bool
}

// DefaultRateLimiterConfig allows 30 OGP lookups per minute per client.
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{Limit: 30, Window: time.Minute}
}

// LoadRateLimiterConfig reads OGP_RATE_LIMIT, OGP_RATE_WINDOW and
// TRUST_PROXY_HEADERS.
func LoadRateLimiterConfig() (RateLimiterConfig, error) {
	cfg := DefaultRateLimiterConfig()
	cfg.Limit = config.GetEnvInt("OGP_RATE_LIMIT", cfg.Limit)
	cfg.Window = config.GetEnvDuration("OGP_RATE_WINDOW", cfg.Window)
	cfg.TrustProxyHeaders = config.GetEnvBool("TRUST_PROXY_HEADERS", cfg.TrustProxyHeaders)

	if cfg.Limit < 1 {
		return cfg, fmt.Errorf("OGP_RATE_LIMIT must be positive, got %d", cfg.Limit)
	}
	if err := config.ValidateDurationRange(cfg.Window, time.Second, time.Hour); err != nil {
		return cfg, fmt.Errorf("invalid OGP_RATE_WINDOW: %w", err)
	}
	return cfg, nil
}

// requestRecord stores request timestamps for sliding window rate limiting.
type requestRecord struct {
	timestamps []time.Time
	mu         sync.Mutex
}

// RateLimiter implements client address based rate limiting using a sliding window.
type RateLimiter struct {
	records   sync.Map // map[string]*requestRecord
	cfg       RateLimiterConfig
	now       func() time.Time
	cleanMu   sync.Mutex
	lastClean time.Time
}

// NewRateLimiter creates a new rate limiting middleware.
func NewRateLimiter(cfg RateLimiterConfig) *RateLimiter {
	return &RateLimiter{
		cfg:       cfg,
		now:       time.Now,
		lastClean: time.Now(),
	}
}

// Limit rejects requests over the limit with 429 Too Many Requests and a
// Retry-After header.
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r, rl.cfg.TrustProxyHeaders)

		// 定期的に古いレコードをクリーンアップ（メモリリーク防止）
		rl.periodicCleanup()

		if !rl.allow(ip) {
			metrics.HTTPRateLimitedTotal.Inc()
			w.Header().Set("Retry-After", strconv.Itoa(int(rl.cfg.Window.Seconds())))
			respond.JSON(w, http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// allow determines if a request is permitted and records the timestamp if allowed.
func (rl *RateLimiter) allow(ip string) bool {
	now := rl.now()

	val, _ := rl.records.LoadOrStore(ip, &requestRecord{})
	record := val.(*requestRecord)

	record.mu.Lock()
	defer record.mu.Unlock()

	// 時間窓外の古いタイムスタンプを先頭から削除
	cutoff := now.Add(-rl.cfg.Window)
	drop := 0
	for drop < len(record.timestamps) && !record.timestamps[drop].After(cutoff) {
		drop++
	}
	record.timestamps = record.timestamps[drop:]

	if len(record.timestamps) >= rl.cfg.Limit {
		return false
	}
	record.timestamps = append(record.timestamps, now)
	return true
}

// periodicCleanup drops idle clients every ten minutes.
func (rl *RateLimiter) periodicCleanup() {
	rl.cleanMu.Lock()
	defer rl.cleanMu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastClean) < 10*time.Minute {
		return
	}
	rl.lastClean = now
	cutoff := now.Add(-rl.cfg.Window)

	rl.records.Range(func(key, value any) bool {
		record := value.(*requestRecord)
		record.mu.Lock()
		defer record.mu.Unlock()
		if len(record.timestamps) == 0 || !record.timestamps[len(record.timestamps)-1].After(cutoff) {
			rl.records.Delete(key)
		}
		return true
	})
}

// clientIP returns the address used as the rate limit key.
func clientIP(r *http.Request, trustProxyHeaders bool) string {
	if trustProxyHeaders {
		// 先頭がクライアント（リバースプロキシが付与）
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
				return ip.String()
			}
		}
		if ip := net.ParseIP(strings.TrimSpace(r.Header.Get("X-Real-IP"))); ip != nil {
			return ip.String()
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
