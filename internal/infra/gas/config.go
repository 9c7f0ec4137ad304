package gas

import (
	"fmt"
	"net/url"
	"time"

	"bento-navi/pkg/config"
)

// Config holds the spreadsheet backend configuration.
type Config struct {
	// URL is the deployed Apps Script web app URL.
	// Empty means demo mode: reads return default taxonomies, writes fail.
	URL string

	// Timeout bounds a single backend request. Apps Script cold starts are
	// slow, so this is larger than the proxy timeout.
	// Default: 20s
	Timeout time.Duration
}

// DefaultConfig returns the default backend configuration (demo mode).
func DefaultConfig() Config {
	return Config{
		Timeout: 20 * time.Second,
	}
}

// Enabled reports whether a backend URL is configured.
func (c Config) Enabled() bool {
	return c.URL != ""
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if err := config.ValidateDurationRange(c.Timeout, time.Second, 2*time.Minute); err != nil {
		return fmt.Errorf("invalid backend timeout: %w", err)
	}
	if !c.Enabled() {
		return nil
	}

	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("invalid GAS_URL: %w", err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return fmt.Errorf("GAS_URL must use http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("GAS_URL has no host")
	}
	return nil
}

// LoadConfigFromEnv loads the backend configuration.
//
// Environment variables:
//   - GAS_URL: Apps Script web app URL (default: empty, demo mode)
//   - GAS_TIMEOUT: duration (default: 20s)
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()
	cfg.URL = config.GetEnvString("GAS_URL", "")
	cfg.Timeout = config.GetEnvDuration("GAS_TIMEOUT", cfg.Timeout)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}
