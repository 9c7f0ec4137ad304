package proxy

import (
	"fmt"
	"time"

	"bento-navi/pkg/config"
)

// Config holds the configuration for proxy fetching.
type Config struct {
	// Timeout bounds a single proxy attempt. The resolver applies it per
	// attempt; it is kept here so one env variable drives both.
	// Default: 10s, valid range 1s-60s
	Timeout time.Duration

	// MinBodyLength is the minimum number of characters a raw body must have.
	// Shorter bodies are treated as proxy error pages.
	// Default: 100
	MinBodyLength int

	// MaxBodySize is the maximum response body size in bytes.
	// Enforced while reading, not from Content-Length.
	// Default: 5MB
	MaxBodySize int64

	// UserAgent is sent with every proxy request.
	UserAgent string

	// EndpointsFile optionally replaces the built-in proxy list with a YAML file.
	EndpointsFile string

	// Endpoints is the ordered rotation.
	Endpoints []Endpoint
}

// DefaultConfig returns the default proxy configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:       10 * time.Second,
		MinBodyLength: 100,
		MaxBodySize:   5 * 1024 * 1024,
		UserAgent:     "Mozilla/5.0 (compatible; BentoNaviBot/1.0; +https://github.com/bento-navi)",
		Endpoints:     DefaultEndpoints(),
	}
}

// Validate checks if the configuration values are usable.
//
// Validation rules:
//   - Timeout: 1s-60s
//   - MinBodyLength: 0-10000
//   - MaxBodySize: 1KB-100MB
//   - Endpoints: at least one, each valid, unique names
func (c *Config) Validate() error {
	if err := config.ValidateDurationRange(c.Timeout, time.Second, time.Minute); err != nil {
		return fmt.Errorf("invalid proxy timeout: %w", err)
	}

	if c.MinBodyLength < 0 || c.MinBodyLength > 10000 {
		return fmt.Errorf("min body length must be between 0 and 10000, got %d", c.MinBodyLength)
	}

	minBodySize := int64(1024)              // 1KB
	maxBodySize := int64(100 * 1024 * 1024) // 100MB
	if c.MaxBodySize < minBodySize || c.MaxBodySize > maxBodySize {
		return fmt.Errorf("max body size must be between %d and %d bytes, got %d", minBodySize, maxBodySize, c.MaxBodySize)
	}

	if len(c.Endpoints) == 0 {
		return fmt.Errorf("at least one proxy endpoint is required")
	}
	seen := make(map[string]struct{}, len(c.Endpoints))
	for _, ep := range c.Endpoints {
		if err := ep.Validate(); err != nil {
			return err
		}
		if _, dup := seen[ep.Name]; dup {
			return fmt.Errorf("duplicate proxy name %q", ep.Name)
		}
		seen[ep.Name] = struct{}{}
	}

	return nil
}

// LoadConfigFromEnv loads configuration from environment variables.
// Unparseable values fall back to defaults with a logged warning; the
// result is validated before it is returned.
//
// Environment variables:
//   - OGP_PROXY_TIMEOUT: duration, e.g. "10s" (default: 10s)
//   - OGP_MIN_BODY_LENGTH: integer (default: 100)
//   - OGP_MAX_BODY_SIZE: integer in bytes (default: 5242880)
//   - OGP_USER_AGENT: string
//   - OGP_PROXY_FILE: path to a YAML proxy list (default: built-in list)
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	cfg.Timeout = config.GetEnvDuration("OGP_PROXY_TIMEOUT", cfg.Timeout)
	cfg.MinBodyLength = config.GetEnvInt("OGP_MIN_BODY_LENGTH", cfg.MinBodyLength)
	cfg.MaxBodySize = int64(config.GetEnvInt("OGP_MAX_BODY_SIZE", int(cfg.MaxBodySize)))
	cfg.UserAgent = config.GetEnvString("OGP_USER_AGENT", cfg.UserAgent)
	cfg.EndpointsFile = config.GetEnvString("OGP_PROXY_FILE", "")

	if cfg.EndpointsFile != "" {
		endpoints, err := LoadEndpointsFile(cfg.EndpointsFile)
		if err != nil {
			return cfg, err
		}
		cfg.Endpoints = endpoints
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}
