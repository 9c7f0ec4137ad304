package ogp

import (
	"testing"

	"bento-navi/internal/domain/entity"

	"github.com/stretchr/testify/assert"
)

func TestTitleFromURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want entity.OgpResult
	}{
		{name: "www prefix and mixed case", url: "https://Www.Example.com/page", want: entity.OgpResult{Title: "Example"}},
		{name: "subdomain kept as first label", url: "https://shop.example.com/items/1", want: entity.OgpResult{Title: "Shop"}},
		{name: "bare host", url: "http://localhost:8080/", want: entity.OgpResult{Title: "Localhost"}},
		{name: "single www only strips once", url: "https://www.www.example.com", want: entity.OgpResult{Title: "Www"}},
		{name: "japanese idn label", url: "https://弁当.jp/", want: entity.OgpResult{Title: "弁当"}},
		{name: "no host", url: "/relative/path", want: entity.OgpResult{}},
		{name: "unparseable", url: "http://[::1", want: entity.OgpResult{}},
		{name: "empty", url: "", want: entity.OgpResult{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TitleFromURL(tt.url))
		})
	}
}
