package responsewriter

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecorder_Defaults(t *testing.T) {
	rec := Wrap(httptest.NewRecorder())

	assert.False(t, rec.Written())
	assert.Equal(t, http.StatusOK, rec.Status())
	assert.Zero(t, rec.Bytes())
}

func TestRecorder_WriteHeader(t *testing.T) {
	underlying := httptest.NewRecorder()
	rec := Wrap(underlying)

	rec.WriteHeader(http.StatusCreated)
	rec.WriteHeader(http.StatusInternalServerError)

	assert.True(t, rec.Written())
	assert.Equal(t, http.StatusCreated, rec.Status())
	assert.Equal(t, http.StatusCreated, underlying.Code)
}

func TestRecorder_Write(t *testing.T) {
	underlying := httptest.NewRecorder()
	rec := Wrap(underlying)

	_, _ = rec.Write([]byte(`{"title":`))
	_, _ = rec.Write([]byte(`"弁当"}`))

	assert.Equal(t, http.StatusOK, rec.Status())
	assert.Equal(t, len(`{"title":"弁当"}`), rec.Bytes())
	assert.Equal(t, `{"title":"弁当"}`, underlying.Body.String())
}

func TestWrap_ReusesRecorder(t *testing.T) {
	outer := Wrap(httptest.NewRecorder())
	inner := Wrap(outer)

	assert.Same(t, outer, inner)
}

func TestRecorder_Unwrap(t *testing.T) {
	underlying := httptest.NewRecorder()
	rec := Wrap(underlying)

	assert.Same(t, underlying, rec.Unwrap())
	assert.NoError(t, http.NewResponseController(rec).Flush())
	assert.True(t, underlying.Flushed)
}
