// Package pathutil normalizes request paths for metric labels and extracts
// resource ids from them.
package pathutil

import (
	"regexp"
	"strings"
)

// PathPattern represents a regex pattern and its corresponding normalized template.
type PathPattern struct {
	Pattern  *regexp.Regexp
	Template string
}

// pathPatterns defines the list of patterns for dynamic routes.
// Item ids are UUIDs or sheet timestamps; term ids are "cat_" prefixed or
// built-in slugs, so any single segment is treated as an id.
var pathPatterns = []*PathPattern{
	{Pattern: regexp.MustCompile(`^/api/items/[^/]+$`), Template: "/api/items/:id"},
	{Pattern: regexp.MustCompile(`^/api/terms/[^/]+$`), Template: "/api/terms/:id"},
}

// NormalizePath normalizes dynamic URL paths to prevent metrics label cardinality explosion.
//
// Examples:
//
//	NormalizePath("/api/items/1700000000000")  // "/api/items/:id"
//	NormalizePath("/api/terms/cat_abc")        // "/api/terms/:id"
//	NormalizePath("/api/ogp?url=x")            // "/api/ogp"
//	NormalizePath("/api/items/")               // "/api/items"
//	NormalizePath("/health")                   // "/health" (unchanged)
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}

	// Strip trailing slash if present (except for root path)
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	for _, p := range pathPatterns {
		if p.Pattern.MatchString(path) {
			return p.Template
		}
	}
	return path
}
