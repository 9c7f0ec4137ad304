package requestid

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext(t *testing.T) {
	assert.Empty(t, FromContext(context.Background()))
	assert.Equal(t, "abc", FromContext(WithRequestID(context.Background(), "abc")))
}

func TestMiddleware(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		wantKeep bool
	}{
		{name: "propagates caller id", incoming: "req-123_abc.1", wantKeep: true},
		{name: "propagates uuid", incoming: "0b7c1f7e-7f5d-4a83-9a43-1e0b4e7a2d11", wantKeep: true},
		{name: "generates when missing", incoming: ""},
		{name: "replaces id with spaces", incoming: "hello world"},
		{name: "replaces log injection", incoming: "x\nlevel=ERROR"},
		{name: "replaces oversized id", incoming: strings.Repeat("a", maxLength+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			h := Middleware(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				seen = FromContext(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/ogp", nil)
			if tt.incoming != "" {
				req.Header.Set(Header, tt.incoming)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, seen, rec.Header().Get(Header))
			if tt.wantKeep {
				assert.Equal(t, tt.incoming, seen)
				return
			}
			_, err := uuid.Parse(seen)
			require.NoError(t, err, "generated id should be a uuid")
		})
	}
}

func TestMiddleware_UniquePerRequest(t *testing.T) {
	ids := make(map[string]struct{})
	h := Middleware(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		ids[FromContext(r.Context())] = struct{}{}
	}))

	for range 50 {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	}
	assert.Len(t, ids, 50)
}
