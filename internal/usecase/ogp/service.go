package ogp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"bento-navi/internal/domain/entity"
	"bento-navi/internal/observability/logging"
	"bento-navi/internal/observability/metrics"
	"bento-navi/internal/observability/tracing"
	"bento-navi/internal/resilience/retry"

	"go.opentelemetry.io/otel/attribute"
)

// Proxy fetches a target document through a third-party relay.
// Implementations return the raw HTML of the target or an error
// describing why the attempt must be treated as failed.
type Proxy interface {
	// Name identifies the proxy in logs and metrics.
	Name() string

	// Fetch retrieves the HTML of targetURL. The context carries the
	// per-attempt deadline and must abort the request when it expires.
	Fetch(ctx context.Context, targetURL string) (string, error)
}

// Extractor turns an HTML document into metadata.
// Implementations must tolerate malformed HTML and missing elements;
// targetURL is the page address used to make relative image URLs absolute.
type Extractor interface {
	Extract(html, targetURL string) entity.OgpResult
}

// Config holds resolver configuration.
type Config struct {
	// AttemptTimeout bounds each proxy attempt independently.
	AttemptTimeout time.Duration
}

// DefaultConfig returns the default resolver configuration.
func DefaultConfig() Config {
	return Config{AttemptTimeout: 10 * time.Second}
}

// Service resolves Open Graph metadata for arbitrary URLs.
// It holds no per-call state and is safe for concurrent use.
type Service struct {
	proxies   []Proxy
	extractor Extractor
	cfg       Config
}

// NewService creates a resolver that tries proxies in the given order.
//
// Parameters:
//   - proxies: Ordered proxy list; the first usable payload wins
//   - extractor: HTML metadata extractor
//   - cfg: Resolver configuration (per-attempt timeout)
//
// Example:
//
//	svc := ogp.NewService(proxies, ogpparser.New(), ogp.DefaultConfig())
//	result := svc.Resolve(ctx, "https://example.com/")
func NewService(proxies []Proxy, extractor Extractor, cfg Config) *Service {
	if cfg.AttemptTimeout <= 0 {
		cfg.AttemptTimeout = DefaultConfig().AttemptTimeout
	}
	return &Service{
		proxies:   proxies,
		extractor: extractor,
		cfg:       cfg,
	}
}

// Resolve returns best-effort metadata for targetURL.
//
// It never fails: proxy errors advance the rotation, and when no proxy yields
// a payload the title is derived from the hostname. The caller is expected to
// have validated targetURL with entity.ValidateURL. Total time is bounded by
// AttemptTimeout multiplied by the number of proxies.
func (s *Service) Resolve(ctx context.Context, targetURL string) entity.OgpResult {
	start := time.Now()
	ctx, span := tracing.StartSpan(ctx, "ogp.resolve", attribute.String("ogp.target", targetURL))
	defer span.End()

	logger := logging.FromContext(ctx)

	html, source, ok := s.fetchPayload(ctx, targetURL)

	var result entity.OgpResult
	if ok {
		result = s.extract(ctx, html, targetURL)
	} else {
		source = metrics.FallbackSource
		result = TitleFromURL(targetURL)
		logger.Info("all proxies failed, using URL-derived title",
			slog.String("target", targetURL),
			slog.Int("proxies", len(s.proxies)))
	}

	span.SetAttributes(
		attribute.String("ogp.source", source),
		attribute.Bool("ogp.title_found", result.Title != ""),
	)
	metrics.RecordResolution(source, time.Since(start),
		result.Title != "", result.Description != "", result.Image != "")

	return result
}

// fetchPayload walks the proxy list in order and returns the first accepted
// payload together with the name of the proxy that produced it.
func (s *Service) fetchPayload(ctx context.Context, targetURL string) (string, string, bool) {
	logger := logging.FromContext(ctx)

	for i, p := range s.proxies {
		if ctx.Err() != nil {
			logger.Warn("resolution cancelled",
				slog.String("target", targetURL),
				slog.Int("remaining_proxies", len(s.proxies)-i),
				slog.Any("error", ctx.Err()))
			return "", "", false
		}

		html, err := s.attempt(ctx, p, targetURL)
		if err == nil {
			return html, p.Name(), true
		}

		logger.Warn("proxy attempt failed",
			slog.String("proxy", p.Name()),
			slog.String("target", targetURL),
			slog.Int("position", i+1),
			slog.Any("error", err))
	}
	return "", "", false
}

// attempt runs one proxy under its own deadline.
func (s *Service) attempt(ctx context.Context, p Proxy, targetURL string) (string, error) {
	start := time.Now()
	attemptCtx, cancel := context.WithTimeout(ctx, s.cfg.AttemptTimeout)
	defer cancel()

	attemptCtx, span := tracing.StartSpan(attemptCtx, "ogp.proxy_attempt", attribute.String("ogp.proxy", p.Name()))
	defer span.End()

	html, err := p.Fetch(attemptCtx, targetURL)
	if err != nil && ctx.Err() == nil && errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
		err = fmt.Errorf("%w after %v: %w", ErrAttemptTimeout, s.cfg.AttemptTimeout, err)
	}

	outcome := classifyOutcome(err)
	metrics.RecordProxyAttempt(p.Name(), outcome, time.Since(start))
	span.SetAttributes(attribute.String("ogp.outcome", outcome))
	tracing.RecordError(span, err)

	if err != nil {
		return "", err
	}
	metrics.RecordPayloadSize(len(html))
	return html, nil
}

// extract runs the extractor and converts a panic into the URL-derived result.
func (s *Service) extract(ctx context.Context, html, targetURL string) (result entity.OgpResult) {
	defer func() {
		if r := recover(); r != nil {
			logging.FromContext(ctx).Error("metadata extraction panicked",
				slog.String("target", targetURL),
				slog.Any("panic", r))
			result = TitleFromURL(targetURL)
		}
	}()
	return s.extractor.Extract(html, targetURL)
}

// classifyOutcome maps an attempt error to a metrics outcome label.
func classifyOutcome(err error) string {
	var httpErr *retry.HTTPError
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, ErrAttemptTimeout), errors.Is(err, context.DeadlineExceeded):
		return metrics.OutcomeTimeout
	case errors.Is(err, ErrProxyUnavailable):
		return metrics.OutcomeCircuitOpen
	case errors.Is(err, ErrMissingContents), errors.Is(err, ErrEmptyPayload),
		errors.Is(err, ErrPayloadTooShort), errors.Is(err, ErrBodyTooLarge):
		return metrics.OutcomeBadPayload
	case errors.As(err, &httpErr):
		return metrics.OutcomeHTTPError
	default:
		return metrics.OutcomeError
	}
}
