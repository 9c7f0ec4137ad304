package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInputValidation(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		wantCode int
	}{
		{name: "normal request", target: "/api/ogp?url=https%3A%2F%2Fexample.com", wantCode: http.StatusOK},
		{name: "path at limit", target: "/" + strings.Repeat("a", maxPathLength-1), wantCode: http.StatusOK},
		{name: "path too long", target: "/" + strings.Repeat("a", maxPathLength), wantCode: http.StatusRequestURITooLong},
		{name: "query at limit", target: "/api/ogp?" + strings.Repeat("q", maxQueryLength), wantCode: http.StatusOK},
		{name: "query too long", target: "/api/ogp?" + strings.Repeat("q", maxQueryLength+1), wantCode: http.StatusRequestURITooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := InputValidation()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode != http.StatusOK {
				assert.JSONEq(t, `{"error":"URI too long"}`, rec.Body.String())
			}
		})
	}
}
