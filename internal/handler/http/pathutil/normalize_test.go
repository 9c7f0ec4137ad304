package pathutil

import "testing"

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/api/items/0b7c1f7e-7f5d-4a83-9a43-1e0b4e7a2d11", "/api/items/:id"},
		{"/api/items/1700000000000", "/api/items/:id"},
		{"/api/items/1700000000000/", "/api/items/:id"},
		{"/api/terms/cat_123", "/api/terms/:id"},
		{"/api/items", "/api/items"},
		{"/api/items/", "/api/items"},
		{"/api/ogp?url=https://example.com", "/api/ogp"},
		{"/health", "/health"},
		{"/", "/"},
		{"/unknown/path/123", "/unknown/path/123"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := NormalizePath(tt.path); got != tt.want {
				t.Errorf("NormalizePath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func BenchmarkNormalizePath(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = NormalizePath("/api/items/0b7c1f7e-7f5d-4a83-9a43-1e0b4e7a2d11")
	}
}
