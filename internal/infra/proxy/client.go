package proxy

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"bento-navi/internal/resilience/circuitbreaker"
	"bento-navi/internal/resilience/retry"
	"bento-navi/internal/usecase/ogp"

	"github.com/sony/gobreaker"
)

const (
	acceptJSON = "application/json"
	acceptHTML = "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8"

	maxRedirects = 5
)

// envelope is the JSON response of a ShapeJSON proxy.
type envelope struct {
	Contents *string `json:"contents"`
}

// Client fetches target documents through one proxy Endpoint.
// It implements ogp.Proxy and is safe for concurrent use.
type Client struct {
	endpoint      Endpoint
	httpClient    *http.Client
	breaker       *circuitbreaker.CircuitBreaker
	minBodyLength int
	maxBodySize   int64
	userAgent     string
}

var _ ogp.Proxy = (*Client)(nil)

// NewHTTPClient creates the HTTP client shared by all proxy clients.
// Keep-alives are disabled so every attempt is a fresh connection; the
// client timeout is only a backstop behind the per-attempt context deadline.
func NewHTTPClient(cfg Config) *http.Client {
	return &http.Client{
		Timeout: cfg.Timeout + 5*time.Second,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			DisableKeepAlives:   true,
			TLSHandshakeTimeout: 10 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", len(via))
			}
			return nil
		},
	}
}

// NewClient creates a proxy client for ep with its own circuit breaker.
//
// Parameters:
//   - ep: Proxy endpoint (name, template, response shape)
//   - httpClient: Shared HTTP client, see NewHTTPClient
//   - cfg: Body limits and User-Agent
//
// Example:
//
//	cfg := proxy.DefaultConfig()
//	hc := proxy.NewHTTPClient(cfg)
//	c := proxy.NewClient(cfg.Endpoints[0], hc, cfg)
//	html, err := c.Fetch(ctx, "https://example.com/")
func NewClient(ep Endpoint, httpClient *http.Client, cfg Config) *Client {
	cbCfg := circuitbreaker.ProxyConfig(ep.Name)
	cbCfg.IsSuccessful = func(err error) bool {
		// A caller that gave up says nothing about the proxy.
		return err == nil || errors.Is(err, context.Canceled)
	}

	return &Client{
		endpoint:      ep,
		httpClient:    httpClient,
		breaker:       circuitbreaker.New(cbCfg),
		minBodyLength: cfg.MinBodyLength,
		maxBodySize:   cfg.MaxBodySize,
		userAgent:     cfg.UserAgent,
	}
}

// NewClients creates one client per configured endpoint, in rotation order.
func NewClients(cfg Config) []*Client {
	hc := NewHTTPClient(cfg)
	clients := make([]*Client, 0, len(cfg.Endpoints))
	for _, ep := range cfg.Endpoints {
		clients = append(clients, NewClient(ep, hc, cfg))
	}
	return clients
}

// AsProxies converts clients to the resolver's interface slice.
func AsProxies(clients []*Client) []ogp.Proxy {
	proxies := make([]ogp.Proxy, len(clients))
	for i, c := range clients {
		proxies[i] = c
	}
	return proxies
}

// Name returns the endpoint name.
func (c *Client) Name() string {
	return c.endpoint.Name
}

// Endpoint returns the configured endpoint.
func (c *Client) Endpoint() Endpoint {
	return c.endpoint
}

// BreakerState returns the current circuit state.
func (c *Client) BreakerState() gobreaker.State {
	return c.breaker.State()
}

// Fetch retrieves the HTML of targetURL through the proxy.
// The caller's context carries the attempt deadline.
//
// Errors:
//   - ogp.ErrProxyUnavailable: circuit open, request not sent
//   - *retry.HTTPError: non-2xx status from the proxy
//   - ogp.ErrBodyTooLarge: body exceeded MaxBodySize
//   - ogp.ErrMissingContents: JSON envelope without contents
//   - ogp.ErrEmptyPayload, ogp.ErrPayloadTooShort: raw body rejected
func (c *Client) Fetch(ctx context.Context, targetURL string) (string, error) {
	body, err := circuitbreaker.Do(c.breaker, func() (string, error) {
		return c.doFetch(ctx, targetURL)
	})
	if circuitbreaker.IsRejected(err) {
		return "", fmt.Errorf("%s: %w: %w", c.endpoint.Name, ogp.ErrProxyUnavailable, err)
	}
	return body, err
}

func (c *Client) doFetch(ctx context.Context, targetURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint.BuildURL(targetURL), nil)
	if err != nil {
		return "", fmt.Errorf("build proxy request: %w", err)
	}

	if c.endpoint.Shape == ShapeJSON {
		req.Header.Set("Accept", acceptJSON)
	} else {
		req.Header.Set("Accept", acceptHTML)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("proxy request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &retry.HTTPError{StatusCode: resp.StatusCode, Message: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize+1))
	if err != nil {
		return "", fmt.Errorf("read proxy response: %w", err)
	}
	if int64(len(body)) > c.maxBodySize {
		return "", fmt.Errorf("%w: exceeds %d bytes", ogp.ErrBodyTooLarge, c.maxBodySize)
	}

	if c.endpoint.Shape == ShapeJSON {
		return decodeEnvelope(body)
	}
	return c.acceptRaw(string(body))
}

// decodeEnvelope extracts the HTML from a JSON envelope.
func decodeEnvelope(body []byte) (string, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return "", fmt.Errorf("%w: decode envelope: %v", ogp.ErrMissingContents, err)
	}
	if env.Contents == nil || strings.TrimSpace(*env.Contents) == "" {
		return "", ogp.ErrMissingContents
	}
	return *env.Contents, nil
}

// acceptRaw rejects bodies that are blank or too short to be a real page.
func (c *Client) acceptRaw(body string) (string, error) {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return "", ogp.ErrEmptyPayload
	}
	if n := utf8.RuneCountInString(trimmed); n < c.minBodyLength {
		return "", fmt.Errorf("%w: %d < %d characters", ogp.ErrPayloadTooShort, n, c.minBodyLength)
	}
	return body, nil
}
