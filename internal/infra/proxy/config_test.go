package proxy

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, 100, cfg.MinBodyLength)
	assert.Equal(t, int64(5*1024*1024), cfg.MaxBodySize)
	assert.NotEmpty(t, cfg.UserAgent)
	assert.Len(t, cfg.Endpoints, 3)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "timeout lower bound", mutate: func(c *Config) { c.Timeout = time.Second }},
		{name: "timeout upper bound", mutate: func(c *Config) { c.Timeout = time.Minute }},
		{name: "timeout too short", mutate: func(c *Config) { c.Timeout = 500 * time.Millisecond }, wantErr: true},
		{name: "timeout too long", mutate: func(c *Config) { c.Timeout = 2 * time.Minute }, wantErr: true},
		{name: "zero min body length", mutate: func(c *Config) { c.MinBodyLength = 0 }},
		{name: "negative min body length", mutate: func(c *Config) { c.MinBodyLength = -1 }, wantErr: true},
		{name: "body size too small", mutate: func(c *Config) { c.MaxBodySize = 512 }, wantErr: true},
		{name: "body size too large", mutate: func(c *Config) { c.MaxBodySize = 200 * 1024 * 1024 }, wantErr: true},
		{name: "no endpoints", mutate: func(c *Config) { c.Endpoints = nil }, wantErr: true},
		{name: "invalid endpoint", mutate: func(c *Config) { c.Endpoints[0].Shape = "xml" }, wantErr: true},
		{
			name: "duplicate endpoint",
			mutate: func(c *Config) {
				c.Endpoints = append(c.Endpoints, c.Endpoints[0])
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "proxies.yaml")
	require.NoError(t, os.WriteFile(path, []byte("proxies:\n  - name: local\n    template: http://127.0.0.1:9999/?u=\n"), 0o600))

	t.Setenv("OGP_PROXY_TIMEOUT", "3s")
	t.Setenv("OGP_MIN_BODY_LENGTH", "50")
	t.Setenv("OGP_MAX_BODY_SIZE", "2048")
	t.Setenv("OGP_USER_AGENT", "test-agent")
	t.Setenv("OGP_PROXY_FILE", path)

	cfg, err := LoadConfigFromEnv()
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, 50, cfg.MinBodyLength)
	assert.Equal(t, int64(2048), cfg.MaxBodySize)
	assert.Equal(t, "test-agent", cfg.UserAgent)
	require.Len(t, cfg.Endpoints, 1)
	assert.Equal(t, "local", cfg.Endpoints[0].Name)
}

func TestLoadConfigFromEnv_Defaults(t *testing.T) {
	t.Setenv("OGP_PROXY_TIMEOUT", "")
	t.Setenv("OGP_PROXY_FILE", "")

	cfg, err := LoadConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Endpoints, cfg.Endpoints)
}

func TestLoadConfigFromEnv_Invalid(t *testing.T) {
	t.Run("timeout out of range", func(t *testing.T) {
		t.Setenv("OGP_PROXY_TIMEOUT", "90s")
		_, err := LoadConfigFromEnv()
		assert.Error(t, err)
	})

	t.Run("missing proxy file", func(t *testing.T) {
		t.Setenv("OGP_PROXY_FILE", filepath.Join(t.TempDir(), "nope.yaml"))
		_, err := LoadConfigFromEnv()
		assert.Error(t, err)
	})
}
