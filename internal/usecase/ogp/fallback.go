package ogp

import (
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"bento-navi/internal/domain/entity"
)

// TitleFromURL derives a presentable title from the target's hostname.
// The host is lower-cased, a leading "www." is removed, and the first
// dot-delimited label is returned with its first character upper-cased.
// Description and image are left empty. An unparseable URL yields an empty result.
//
// Example:
//
//	TitleFromURL("https://Www.Example.com/page") // {Title: "Example"}
func TitleFromURL(targetURL string) entity.OgpResult {
	u, err := url.Parse(strings.TrimSpace(targetURL))
	if err != nil {
		return entity.OgpResult{}
	}

	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")
	label, _, _ := strings.Cut(host, ".")
	if label == "" {
		return entity.OgpResult{}
	}

	r, size := utf8.DecodeRuneInString(label)
	return entity.OgpResult{Title: string(unicode.ToUpper(r)) + label[size:]}
}
