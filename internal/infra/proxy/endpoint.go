// Package proxy implements fetch-through-proxy endpoints for the OGP resolver.
// Each Endpoint describes a public CORS relay by a URL template and the
// shape of its response; Client turns an Endpoint into an ogp.Proxy.
package proxy

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Shape is the response format of a proxy.
type Shape string

const (
	// ShapeJSON is a JSON envelope whose "contents" field holds the HTML.
	ShapeJSON Shape = "json"
	// ShapeRaw is the target document passed through unchanged.
	ShapeRaw Shape = "raw"
)

// urlPlaceholder marks where the encoded target goes inside a template.
const urlPlaceholder = "{url}"

// Endpoint is one configured proxy.
type Endpoint struct {
	Name     string `yaml:"name"`
	Template string `yaml:"template"`
	Shape    Shape  `yaml:"shape"`
}

// DefaultEndpoints returns the built-in rotation order.
func DefaultEndpoints() []Endpoint {
	return []Endpoint{
		{Name: "allorigins", Template: "https://api.allorigins.win/get?url=", Shape: ShapeJSON},
		{Name: "corsproxy", Template: "https://corsproxy.io/?url=", Shape: ShapeRaw},
		{Name: "codetabs", Template: "https://api.codetabs.com/v1/proxy?quest=", Shape: ShapeRaw},
	}
}

// BuildURL returns the proxy request URL for target.
// The target is query-escaped and substituted for "{url}" when the template
// contains it, or appended to the template otherwise.
func (e Endpoint) BuildURL(target string) string {
	encoded := url.QueryEscape(target)
	if strings.Contains(e.Template, urlPlaceholder) {
		return strings.ReplaceAll(e.Template, urlPlaceholder, encoded)
	}
	return e.Template + encoded
}

// Validate checks that the endpoint can be used for requests.
func (e Endpoint) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("proxy name is required")
	}
	if e.Shape != ShapeJSON && e.Shape != ShapeRaw {
		return fmt.Errorf("proxy %q: shape must be %q or %q, got %q", e.Name, ShapeJSON, ShapeRaw, e.Shape)
	}

	u, err := url.Parse(strings.ReplaceAll(e.Template, urlPlaceholder, "x"))
	if err != nil {
		return fmt.Errorf("proxy %q: invalid template: %w", e.Name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("proxy %q: template must use http or https, got %q", e.Name, e.Template)
	}
	if u.Host == "" {
		return fmt.Errorf("proxy %q: template has no host", e.Name)
	}
	return nil
}

// endpointsFile is the YAML document accepted by LoadEndpointsFile.
//
//	proxies:
//	  - name: allorigins
//	    template: https://api.allorigins.win/get?url=
//	    shape: json
type endpointsFile struct {
	Proxies []Endpoint `yaml:"proxies"`
}

// ParseEndpoints decodes a YAML proxy list. Entries without a shape default
// to raw; every entry is validated and names must be unique.
func ParseEndpoints(data []byte) ([]Endpoint, error) {
	var f endpointsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode proxy list: %w", err)
	}
	if len(f.Proxies) == 0 {
		return nil, fmt.Errorf("proxy list is empty")
	}

	seen := make(map[string]struct{}, len(f.Proxies))
	for i := range f.Proxies {
		ep := &f.Proxies[i]
		ep.Name = strings.TrimSpace(ep.Name)
		ep.Shape = Shape(strings.ToLower(strings.TrimSpace(string(ep.Shape))))
		if ep.Shape == "" {
			ep.Shape = ShapeRaw
		}
		if err := ep.Validate(); err != nil {
			return nil, fmt.Errorf("proxy #%d: %w", i+1, err)
		}
		if _, dup := seen[ep.Name]; dup {
			return nil, fmt.Errorf("proxy #%d: duplicate name %q", i+1, ep.Name)
		}
		seen[ep.Name] = struct{}{}
	}
	return f.Proxies, nil
}

// LoadEndpointsFile reads and parses a YAML proxy list from path.
func LoadEndpointsFile(path string) ([]Endpoint, error) {
	// #nosec G304 -- path comes from operator configuration, not user input.
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read proxy list %s: %w", path, err)
	}
	return ParseEndpoints(data)
}
