package pathutil

import (
	"errors"
	"testing"
)

func TestExtractID(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		prefix    string
		wantID    string
		wantError error
	}{
		{name: "uuid item id", path: "/api/items/0b7c1f7e-7f5d-4a83-9a43-1e0b4e7a2d11", prefix: "/api/items/", wantID: "0b7c1f7e-7f5d-4a83-9a43-1e0b4e7a2d11"},
		{name: "timestamp item id", path: "/api/items/1700000000000", prefix: "/api/items/", wantID: "1700000000000"},
		{name: "term id", path: "/api/terms/cat_abc", prefix: "/api/terms/", wantID: "cat_abc"},
		{name: "trailing slash", path: "/api/items/42/", prefix: "/api/items/", wantID: "42"},
		{name: "empty", path: "/api/items/", prefix: "/api/items/", wantError: ErrInvalidID},
		{name: "nested segment", path: "/api/items/1/2", prefix: "/api/items/", wantError: ErrInvalidID},
		{name: "wrong prefix", path: "/api/terms/1", prefix: "/api/items/", wantError: ErrInvalidID},
		{name: "dots", path: "/api/items/..", prefix: "/api/items/", wantError: ErrInvalidID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ExtractID(tt.path, tt.prefix)
			if !errors.Is(err, tt.wantError) {
				t.Fatalf("ExtractID() error = %v, want %v", err, tt.wantError)
			}
			if id != tt.wantID {
				t.Errorf("ExtractID() = %q, want %q", id, tt.wantID)
			}
		})
	}
}
