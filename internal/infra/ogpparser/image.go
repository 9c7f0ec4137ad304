package ogpparser

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// minInlineImageSize is the smallest declared width and height for which
// an inline <img> is accepted without a logo/header hint.
const minInlineImageSize = 100

// extractImage walks the image heuristics in priority order and returns the
// raw (possibly relative) value of the first hit.
func extractImage(doc *goquery.Document, meta metaIndex, targetURL string) string {
	if v := meta.first(imageKeys...); v != "" {
		return v
	}
	if v := itempropImage(doc); v != "" {
		return v
	}
	if v := touchIcon(doc); v != "" {
		return v
	}
	if v := largestIcon(doc); v != "" {
		return v
	}
	if v := inlineImage(doc); v != "" {
		return v
	}
	if origin := originOf(targetURL); origin != "" {
		return origin + "/favicon.ico"
	}
	return ""
}

// itempropImage returns the first schema.org image value.
func itempropImage(doc *goquery.Document) string {
	var found string
	doc.Find(`[itemprop~="image"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		for _, attr := range []string{"content", "src", "href"} {
			if v := strings.TrimSpace(s.AttrOr(attr, "")); v != "" {
				found = v
				return false
			}
		}
		return true
	})
	return found
}

// relTokens returns the lower-cased rel tokens of a link element.
func relTokens(s *goquery.Selection) []string {
	return strings.Fields(strings.ToLower(s.AttrOr("rel", "")))
}

func hasToken(tokens []string, want string) bool {
	for _, t := range tokens {
		if t == want {
			return true
		}
	}
	return false
}

func touchIcon(doc *goquery.Document) string {
	var found string
	doc.Find("link[rel][href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		rel := relTokens(s)
		if !hasToken(rel, "apple-touch-icon") && !hasToken(rel, "apple-touch-icon-precomposed") {
			return true
		}
		if v := strings.TrimSpace(s.AttrOr("href", "")); v != "" {
			found = v
			return false
		}
		return true
	})
	return found
}

// largestIcon picks the rel="icon" / rel="shortcut icon" link with the
// largest declared size. Without any parseable size the first icon wins.
func largestIcon(doc *goquery.Document) string {
	var (
		first    string
		best     string
		bestSize int
	)
	doc.Find("link[rel][href]").Each(func(_ int, s *goquery.Selection) {
		if !hasToken(relTokens(s), "icon") {
			return
		}
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if href == "" {
			return
		}
		if first == "" {
			first = href
		}
		if size := parseIconSize(s.AttrOr("sizes", "")); size > bestSize {
			best, bestSize = href, size
		}
	})
	if best != "" {
		return best
	}
	return first
}

// parseIconSize returns the largest leading dimension in a sizes attribute
// such as "16x16" or "32x32 64x64". "any" and malformed entries count as 0.
func parseIconSize(sizes string) int {
	largest := 0
	for _, entry := range strings.Fields(strings.ToLower(sizes)) {
		w, _, ok := strings.Cut(entry, "x")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(w)
		if err == nil && n > largest {
			largest = n
		}
	}
	return largest
}

// inlineImage returns the first <img> that looks like a logo or header, or
// that declares both width and height of at least minInlineImageSize.
// Images without explicit dimensions and without a hint are skipped.
func inlineImage(doc *goquery.Document) string {
	var found string
	doc.Find("img[src]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		src := strings.TrimSpace(s.AttrOr("src", ""))
		if src == "" {
			return true
		}
		if looksLikeBranding(s.AttrOr("alt", "")) || looksLikeBranding(s.AttrOr("class", "")) {
			found = src
			return false
		}
		w := parseDimension(s.AttrOr("width", ""))
		h := parseDimension(s.AttrOr("height", ""))
		if w >= minInlineImageSize && h >= minInlineImageSize {
			found = src
			return false
		}
		return true
	})
	return found
}

func looksLikeBranding(v string) bool {
	v = strings.ToLower(v)
	return strings.Contains(v, "logo") || strings.Contains(v, "header")
}

// parseDimension reads an HTML width/height attribute ("120" or "120px").
// Percentages and garbage yield 0.
func parseDimension(v string) int {
	v = strings.TrimSuffix(strings.TrimSpace(strings.ToLower(v)), "px")
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
