package middleware

import (
	"strings"
)

// wildcard allows any origin.
const wildcard = "*"

// OriginValidator implements exact-match origin validation for CORS requests.
// The single entry "*" allows every origin; the UI is a static page that
// may be opened from anywhere and the API carries no credentials.
//
// Example usage:
//
//	validator := NewOriginValidator([]string{
//	    "http://localhost:3000",
//	    "https://bento.example.com",
//	})
//	allowed := validator.IsAllowed("http://localhost:3000") // true
type OriginValidator struct {
	allowedOrigins []string
	any            bool
}

// NewOriginValidator creates a validator for the given origins.
// Origins are normalized: lowercase, trailing slash removed, empties dropped.
func NewOriginValidator(origins []string) *OriginValidator {
	v := &OriginValidator{allowedOrigins: make([]string, 0, len(origins))}
	for _, origin := range origins {
		origin = normalizeOrigin(origin)
		switch origin {
		case "":
			continue
		case wildcard:
			v.any = true
		default:
			v.allowedOrigins = append(v.allowedOrigins, origin)
		}
	}
	return v
}

// IsAllowed checks if the given origin may receive CORS headers.
func (v *OriginValidator) IsAllowed(origin string) bool {
	origin = normalizeOrigin(origin)
	if origin == "" {
		return false
	}
	if v.any {
		return true
	}
	for _, allowed := range v.allowedOrigins {
		if origin == allowed {
			return true
		}
	}
	return false
}

// AllowOriginValue returns the Access-Control-Allow-Origin value for an
// allowed origin.
func (v *OriginValidator) AllowOriginValue(origin string) string {
	if v.any {
		return wildcard
	}
	return origin
}

// AllowedOrigins returns a copy of the configured origins.
func (v *OriginValidator) AllowedOrigins() []string {
	if v.any {
		return []string{wildcard}
	}
	out := make([]string, len(v.allowedOrigins))
	copy(out, v.allowedOrigins)
	return out
}

func normalizeOrigin(origin string) string {
	origin = strings.ToLower(strings.TrimSpace(origin))
	return strings.TrimSuffix(origin, "/")
}
