package ogpparser

import (
	"net/url"
	"strings"
)

// ResolveImageURL makes an extracted image value absolute against targetURL.
//
//   - http://, https:// and data: values are returned unchanged
//   - "//host/x" gets the target's scheme
//   - "/path" gets the target's origin
//   - anything else is appended to the origin root ("origin/" + value)
//
// The last rule does not resolve paths relative to a nested base path;
// "img/a.png" on https://example.com/blog/post becomes
// https://example.com/img/a.png. When targetURL cannot be parsed or has no
// host the value is returned as found.
func ResolveImageURL(value, targetURL string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}

	lower := strings.ToLower(value)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "data:") {
		return value
	}

	base, err := url.Parse(strings.TrimSpace(targetURL))
	if err != nil || base.Host == "" || base.Scheme == "" {
		return value
	}

	switch {
	case strings.HasPrefix(value, "//"):
		return base.Scheme + ":" + value
	case strings.HasPrefix(value, "/"):
		return base.Scheme + "://" + base.Host + value
	default:
		return base.Scheme + "://" + base.Host + "/" + value
	}
}

// originOf returns scheme://host[:port] of rawURL, or "" when it has no host.
func originOf(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" || u.Scheme == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
