package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"bento-navi/internal/domain/entity"
	"bento-navi/internal/handler/http/pathutil"
	"bento-navi/internal/handler/http/respond"
)

const termsPrefix = "/api/terms/"

var errInvalidBody = errors.New("invalid request body")

func parseKindAxis(q url.Values) (entity.Kind, entity.Axis, error) {
	kind, err := entity.ParseKind(q.Get("kind"))
	if err != nil {
		return "", "", err
	}
	axis, err := entity.ParseAxis(q.Get("axis"))
	if err != nil {
		return "", "", err
	}
	return kind, axis, nil
}

type CreateTermHandler struct{ Svc Service }

func (h CreateTermHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	kind, axis, err := parseKindAxis(r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}

	var req TermRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, errInvalidBody)
		return
	}

	term, err := h.Svc.AddTerm(r.Context(), kind, axis, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, term)
}

type DeleteTermHandler struct{ Svc Service }

func (h DeleteTermHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ExtractID(r.URL.Path, termsPrefix)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	kind, axis, err := parseKindAxis(r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.Svc.DeleteTerm(r.Context(), kind, axis, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
