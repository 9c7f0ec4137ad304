package tracing

import (
	"context"
	"fmt"

	"bento-navi/pkg/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Config holds tracing configuration.
type Config struct {
	// Enabled installs an SDK tracer provider. When false the global no-op
	// provider stays in place and spans cost nothing.
	Enabled bool

	// SampleRatio is the fraction of root traces that are sampled (0.0-1.0).
	// Child spans follow their parent's decision.
	SampleRatio float64
}

// DefaultConfig returns tracing disabled with full sampling once enabled.
func DefaultConfig() Config {
	return Config{
		Enabled:     false,
		SampleRatio: 1.0,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.SampleRatio < 0 || c.SampleRatio > 1 {
		return fmt.Errorf("sample ratio must be between 0 and 1, got %v", c.SampleRatio)
	}
	return nil
}

// LoadConfigFromEnv reads TRACING_ENABLED and TRACING_SAMPLE_PERCENT (0-100).
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()
	cfg.Enabled = config.GetEnvBool("TRACING_ENABLED", cfg.Enabled)
	cfg.SampleRatio = float64(config.GetEnvInt("TRACING_SAMPLE_PERCENT", 100)) / 100

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Setup installs a tracer provider and the W3C trace context propagator
// as globals. The returned function flushes and shuts the provider down.
//
// No exporter is attached here. Trace IDs are still generated, so the
// X-Trace-Id response header and the trace_id log field correlate a
// request across the HTTP layer, the resolver and the proxy attempts.
func Setup(cfg Config) (func(context.Context) error, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if !cfg.Enabled {
		return func(context.Context) error { return nil }, nil
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
	)
	otel.SetTracerProvider(tp)

	return tp.Shutdown, nil
}
