// Package ogp provides the Open Graph metadata resolution use case.
// It walks an ordered list of fetch-through-proxy endpoints, extracts
// metadata from the first usable HTML payload and degrades to a title
// derived from the URL when every proxy fails.
package ogp

import "errors"

// Sentinel errors for a single proxy attempt.
// They classify why an attempt was rejected and never escape Resolve.
var (
	// ErrMissingContents indicates a JSON envelope without a usable "contents" field.
	ErrMissingContents = errors.New("proxy envelope has no contents")

	// ErrEmptyPayload indicates a raw response body that is blank after trimming.
	ErrEmptyPayload = errors.New("proxy returned an empty body")

	// ErrPayloadTooShort indicates a raw body shorter than the configured minimum.
	// Short bodies are almost always proxy error pages rather than the target document.
	ErrPayloadTooShort = errors.New("proxy body too short")

	// ErrBodyTooLarge indicates the response exceeded the configured size limit.
	ErrBodyTooLarge = errors.New("proxy response body too large")

	// ErrAttemptTimeout indicates the per-attempt deadline expired.
	ErrAttemptTimeout = errors.New("proxy attempt timed out")

	// ErrProxyUnavailable indicates the proxy was skipped because its circuit is open.
	ErrProxyUnavailable = errors.New("proxy temporarily unavailable")
)
