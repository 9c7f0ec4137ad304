// Package ogpparser extracts Open Graph style metadata from HTML documents.
// It implements the ogp.Extractor interface with goquery and a fixed
// priority list of heuristics per field.
package ogpparser

import (
	"strings"

	"bento-navi/internal/domain/entity"

	"github.com/PuerkitoBio/goquery"
)

// Meta keys in priority order. Each key is matched case-insensitively
// against both the property and name attributes.
var (
	titleKeys       = []string{"og:title", "twitter:title", "title"}
	descriptionKeys = []string{"og:description", "twitter:description", "description"}
	imageKeys       = []string{"og:image", "og:image:url", "og:image:secure_url", "twitter:image", "twitter:image:src"}
)

// Extractor implements heuristic metadata extraction.
// It is stateless and safe for concurrent use.
type Extractor struct{}

// New creates an Extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract parses html and returns the best title, description and image.
// Missing elements simply advance to the next heuristic; a field that no
// heuristic fills stays empty. The image is made absolute against targetURL.
func (e *Extractor) Extract(html, targetURL string) entity.OgpResult {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return entity.OgpResult{}
	}

	meta := indexMeta(doc)

	return entity.OgpResult{
		Title:       validText(extractTitle(doc, meta)),
		Description: validText(meta.first(descriptionKeys...)),
		Image:       validText(ResolveImageURL(extractImage(doc, meta, targetURL), targetURL)),
	}
}

// validText replaces invalid UTF-8 the same way encoding/json does, so the
// CLI text output and the JSON API print identical values.
func validText(s string) string {
	return strings.ToValidUTF8(s, "\uFFFD")
}

// metaIndex maps a lower-cased property/name key to the first non-empty content.
type metaIndex map[string]string

func indexMeta(doc *goquery.Document) metaIndex {
	idx := make(metaIndex)
	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		content := strings.TrimSpace(s.AttrOr("content", ""))
		if content == "" {
			return
		}
		for _, attr := range []string{"property", "name"} {
			key := strings.ToLower(strings.TrimSpace(s.AttrOr(attr, "")))
			if key == "" {
				continue
			}
			if _, seen := idx[key]; !seen {
				idx[key] = content
			}
		}
	})
	return idx
}

// first returns the content of the first key that has a value.
func (m metaIndex) first(keys ...string) string {
	for _, k := range keys {
		if v := m[k]; v != "" {
			return v
		}
	}
	return ""
}

func extractTitle(doc *goquery.Document, meta metaIndex) string {
	if v := meta.first(titleKeys...); v != "" {
		return v
	}
	if v := strings.TrimSpace(doc.Find("title").First().Text()); v != "" {
		return v
	}
	return strings.TrimSpace(doc.Find("h1").First().Text())
}
