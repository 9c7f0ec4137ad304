// Package gas is the client for the Google Apps Script web app that fronts
// the catalog spreadsheet. Every call is a GET with an "action" parameter;
// every answer is a JSON object with a "success" flag.
package gas

import (
	"context"
	"crypto/tls"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"bento-navi/internal/domain/entity"
	"bento-navi/internal/observability/logging"
	"bento-navi/internal/observability/metrics"
	"bento-navi/internal/resilience/circuitbreaker"
	"bento-navi/internal/resilience/retry"
	"bento-navi/internal/usecase/catalog"

	"github.com/sony/gobreaker"
)

// maxResponseSize caps a backend response.
const maxResponseSize = 10 * 1024 * 1024 // 10MB

// Action names understood by the sheet script.
const (
	actionSetup  = "setup"
	actionGetAll = "getAll"
)

// BackendError is a success=false answer from the sheet script.
type BackendError struct {
	Action  string
	Message string
}

// Error implements the error interface.
func (e *BackendError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("spreadsheet %s failed", e.Action)
	}
	return fmt.Sprintf("spreadsheet %s failed: %s", e.Action, e.Message)
}

// BackendMessage returns the script's own error text, which is written for
// end users.
func (e *BackendError) BackendMessage() string {
	return e.Message
}

// Unwrap lets callers match with errors.Is(err, catalog.ErrBackendFailure).
func (e *BackendError) Unwrap() error {
	return catalog.ErrBackendFailure
}

// status is the common part of every response.
type status struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Client implements catalog.Backend against an Apps Script web app.
// Reads are retried with backoff; writes are sent once because the script
// is not idempotent (a retried add appends a second row).
type Client struct {
	baseURL     string
	httpClient  *http.Client
	breaker     *circuitbreaker.CircuitBreaker
	retryConfig retry.Config
	now         func() time.Time
}

var _ catalog.Backend = (*Client)(nil)

// NewClient creates a backend client. cfg.URL must be set.
//
// Example:
//
//	cfg, _ := gas.LoadConfigFromEnv()
//	if cfg.Enabled() {
//	    backend = gas.NewClient(cfg)
//	}
func NewClient(cfg Config) *Client {
	cbCfg := circuitbreaker.SpreadsheetConfig()
	cbCfg.IsSuccessful = func(err error) bool {
		// The script answered; a rejected write says nothing about availability.
		var backendErr *BackendError
		return err == nil || errors.As(err, &backendErr) || errors.Is(err, context.Canceled)
	}

	return &Client{
		baseURL: cfg.URL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        10,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
				TLSClientConfig: &tls.Config{
					MinVersion: tls.VersionTLS12,
				},
			},
		},
		breaker:     circuitbreaker.New(cbCfg),
		retryConfig: retry.SpreadsheetConfig(),
		now:         time.Now,
	}
}

// BreakerState returns the backend circuit state.
func (c *Client) BreakerState() gobreaker.State {
	return c.breaker.State()
}

// Setup creates the sheets and headers if they do not exist.
func (c *Client) Setup(ctx context.Context) (catalog.SetupResult, error) {
	var out catalog.SetupResult
	err := c.read(ctx, actionSetup, nil, &out)
	return out, err
}

// GetAll loads every item and taxonomy.
func (c *Client) GetAll(ctx context.Context) (*entity.Catalog, error) {
	var out getAllResponse
	if err := c.read(ctx, actionGetAll, nil, &out); err != nil {
		return nil, err
	}
	return out.toCatalog(), nil
}

// AddItem appends an item row. The item is sent as base64 JSON in "data".
func (c *Client) AddItem(ctx context.Context, kind entity.Kind, item entity.Item) error {
	return c.writeItem(ctx, itemAction("add", kind), item)
}

// UpdateItem replaces the row with the item's id.
func (c *Client) UpdateItem(ctx context.Context, kind entity.Kind, item entity.Item) error {
	return c.writeItem(ctx, itemAction("update", kind), item)
}

// DeleteItem removes the row with the given id.
func (c *Client) DeleteItem(ctx context.Context, kind entity.Kind, id string) error {
	return c.write(ctx, itemAction("delete", kind), url.Values{"id": {id}})
}

// AddTerm adds a category or area.
func (c *Client) AddTerm(ctx context.Context, kind entity.Kind, axis entity.Axis, term entity.Term) error {
	return c.write(ctx, termAction("add", kind, axis), url.Values{
		"id":   {term.ID},
		"name": {term.Name},
	})
}

// DeleteTerm removes a category or area.
func (c *Client) DeleteTerm(ctx context.Context, kind entity.Kind, axis entity.Axis, id string) error {
	return c.write(ctx, termAction("delete", kind, axis), url.Values{"id": {id}})
}

// TestConnection calls getAll once, without retries.
// A success=false answer yields (false, nil).
func (c *Client) TestConnection(ctx context.Context) (bool, error) {
	err := c.call(ctx, actionGetAll, nil, nil)
	if err == nil {
		return true, nil
	}
	var backendErr *BackendError
	if errors.As(err, &backendErr) {
		return false, nil
	}
	return false, err
}

// itemAction builds e.g. "addBentoShop" or "deleteLocation".
func itemAction(verb string, kind entity.Kind) string {
	if kind == entity.KindLocation {
		return verb + "Location"
	}
	return verb + "BentoShop"
}

// termAction builds e.g. "addBentoCategory" or "deleteLocationArea".
func termAction(verb string, kind entity.Kind, axis entity.Axis) string {
	prefix := "Bento"
	if kind == entity.KindLocation {
		prefix = "Location"
	}
	suffix := "Category"
	if axis == entity.AxisArea {
		suffix = "Area"
	}
	return verb + prefix + suffix
}

// EncodeItem serializes an item the way the sheet script expects:
// standard base64 of its UTF-8 JSON.
func EncodeItem(item entity.Item) (string, error) {
	data, err := json.Marshal(item)
	if err != nil {
		return "", fmt.Errorf("encode item: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

func (c *Client) writeItem(ctx context.Context, action string, item entity.Item) error {
	encoded, err := EncodeItem(item)
	if err != nil {
		return err
	}
	return c.write(ctx, action, url.Values{"data": {encoded}})
}

// read performs an idempotent call with retries.
func (c *Client) read(ctx context.Context, action string, params url.Values, out interface{}) error {
	cfg := c.retryConfig
	cfg.Name = "spreadsheet:" + action
	return retry.WithBackoff(ctx, cfg, func() error {
		return c.call(ctx, action, params, out)
	})
}

// write performs a single call.
func (c *Client) write(ctx context.Context, action string, params url.Values) error {
	return c.call(ctx, action, params, nil)
}

// call runs one request through the circuit breaker and records metrics.
func (c *Client) call(ctx context.Context, action string, params url.Values, out interface{}) error {
	start := time.Now()
	_, err := circuitbreaker.Do(c.breaker, func() (struct{}, error) {
		return struct{}{}, c.do(ctx, action, params, out)
	})
	if circuitbreaker.IsRejected(err) {
		err = fmt.Errorf("%w: %s: %w", catalog.ErrBackendUnavailable, action, err)
	}

	metrics.RecordBackendRequest(action, err == nil, time.Since(start))
	if err != nil {
		logging.FromContext(ctx).Warn("spreadsheet request failed",
			slog.String("action", action),
			slog.Duration("duration", time.Since(start)),
			slog.Any("error", err))
	}
	return err
}

func (c *Client) do(ctx context.Context, action string, params url.Values, out interface{}) error {
	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	q.Set("action", action)
	q.Set("t", strconv.FormatInt(c.now().UnixMilli(), 10))

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("%w: invalid backend URL: %v", catalog.ErrBackendUnavailable, err)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", catalog.ErrBackendUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", catalog.ErrBackendUnavailable, action, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s: %w", catalog.ErrBackendUnavailable, action,
			&retry.HTTPError{StatusCode: resp.StatusCode, Message: resp.Status})
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize+1))
	if err != nil {
		return fmt.Errorf("%w: %s: read response: %w", catalog.ErrBackendUnavailable, action, err)
	}
	if len(body) > maxResponseSize {
		return fmt.Errorf("%w: %s: response exceeds %d bytes", catalog.ErrBackendUnavailable, action, maxResponseSize)
	}

	var st status
	if err := json.Unmarshal(body, &st); err != nil {
		// Apps Script answers an HTML error page when the deployment is wrong.
		return fmt.Errorf("%w: %s: response is not JSON: %v", catalog.ErrBackendUnavailable, action, err)
	}
	if !st.Success {
		return &BackendError{Action: action, Message: st.Error}
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("%w: %s: decode payload: %v", catalog.ErrBackendUnavailable, action, err)
		}
	}
	return nil
}
