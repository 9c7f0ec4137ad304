package http

import (
	"net/http"

	"bento-navi/internal/handler/http/respond"
)

// Request line limits.
const (
	maxPathLength  = 2048
	maxQueryLength = 4096 // /api/ogp carries a full target URL
)

// InputValidation returns middleware that rejects oversized request lines
// before they reach routing:
//   - URI path longer than 2KB
//   - raw query longer than 4KB
func InputValidation() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(r.URL.Path) > maxPathLength || len(r.URL.RawQuery) > maxQueryLength {
				respond.JSON(w, http.StatusRequestURITooLong, map[string]string{"error": "URI too long"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
