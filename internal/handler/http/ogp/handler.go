// Package ogp serves page metadata lookups for the item form.
package ogp

import (
	"context"
	"net/http"
	"strings"

	"bento-navi/internal/domain/entity"
	"bento-navi/internal/handler/http/respond"
)

// Resolver resolves page metadata. It never fails.
type Resolver interface {
	Resolve(ctx context.Context, targetURL string) entity.OgpResult
}

// DTO is the lookup response. Empty fields are always present so the UI can
// bind them directly.
type DTO struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// ResolveHandler handles GET /api/ogp?url=<target>.
type ResolveHandler struct{ Svc Resolver }

func (h ResolveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	target := strings.TrimSpace(r.URL.Query().Get("url"))
	if err := entity.ValidateURL(target); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	res := h.Svc.Resolve(r.Context(), target)
	respond.JSON(w, http.StatusOK, DTO{
		URL:         target,
		Title:       res.Title,
		Description: res.Description,
		Image:       res.Image,
	})
}

// Register registers the OGP lookup route. limit wraps the handler with a
// rate limiter since every lookup fans out to public proxies; nil disables it.
func Register(mux *http.ServeMux, svc Resolver, limit func(http.Handler) http.Handler) {
	var h http.Handler = ResolveHandler{svc}
	if limit != nil {
		h = limit(h)
	}
	mux.Handle("GET    /api/ogp", h)
}
