package middleware

import (
	"fmt"
	"net/url"
	"strings"

	"bento-navi/pkg/config"
)

// DefaultCORSConfig returns a disabled CORS configuration with the default
// methods and headers.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "X-Trace-Id"},
		MaxAge:         86400,
	}
}

// LoadCORSConfig loads the CORS configuration from environment variables.
//
// Environment Variables:
//   - CORS_ALLOWED_ORIGINS: comma-separated origins, or "*" (default: empty, CORS disabled)
//   - CORS_ALLOWED_METHODS: comma-separated HTTP methods (optional)
//   - CORS_ALLOWED_HEADERS: comma-separated request headers (optional)
//   - CORS_MAX_AGE: preflight cache duration in seconds (default: 86400)
//
// Example:
//
//	CORS_ALLOWED_ORIGINS=http://localhost:3000,https://bento.example.com
func LoadCORSConfig() (CORSConfig, error) {
	cfg := DefaultCORSConfig()

	origins := config.GetEnvStringList("CORS_ALLOWED_ORIGINS", nil)
	if err := validateOrigins(origins); err != nil {
		return cfg, err
	}
	if len(origins) > 0 {
		cfg.Validator = NewOriginValidator(origins)
	}

	methods := config.GetEnvStringList("CORS_ALLOWED_METHODS", cfg.AllowedMethods)
	if err := validateMethods(methods); err != nil {
		return cfg, err
	}
	cfg.AllowedMethods = methods
	cfg.AllowedHeaders = config.GetEnvStringList("CORS_ALLOWED_HEADERS", cfg.AllowedHeaders)

	cfg.MaxAge = config.GetEnvInt("CORS_MAX_AGE", cfg.MaxAge)
	if cfg.MaxAge < 0 || cfg.MaxAge > 86400 {
		return cfg, fmt.Errorf("CORS_MAX_AGE must be between 0 and 86400, got %d", cfg.MaxAge)
	}
	return cfg, nil
}

// validateOrigins checks that every origin is "*" or a bare http(s) origin.
func validateOrigins(origins []string) error {
	for _, o := range origins {
		if o == wildcard {
			if len(origins) > 1 {
				return fmt.Errorf("CORS_ALLOWED_ORIGINS: %q cannot be combined with other origins", wildcard)
			}
			continue
		}

		u, err := url.Parse(o)
		if err != nil {
			return fmt.Errorf("invalid origin URL '%s': %w", o, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("origin must use http or https scheme: %s", o)
		}
		if u.Host == "" {
			return fmt.Errorf("origin must have a host: %s", o)
		}
		if (u.Path != "" && u.Path != "/") || u.RawQuery != "" || u.Fragment != "" {
			return fmt.Errorf("origin must not include path, query or fragment: %s", o)
		}
	}
	return nil
}

func validateMethods(methods []string) error {
	valid := map[string]bool{"GET": true, "POST": true, "PUT": true, "DELETE": true, "PATCH": true, "OPTIONS": true}
	for _, m := range methods {
		if !valid[strings.ToUpper(m)] {
			return fmt.Errorf("invalid HTTP method in CORS_ALLOWED_METHODS: %s", m)
		}
	}
	return nil
}
