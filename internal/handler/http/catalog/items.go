package catalog

import (
	"encoding/json"
	"net/http"

	"bento-navi/internal/domain/entity"
	"bento-navi/internal/handler/http/pathutil"
	"bento-navi/internal/handler/http/respond"
	catUC "bento-navi/internal/usecase/catalog"
)

const itemsPrefix = "/api/items/"

type ListItemsHandler struct{ Svc Service }

func (h ListItemsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	kind, err := entity.ParseKind(q.Get("kind"))
	if err != nil {
		writeError(w, err)
		return
	}

	items, err := h.Svc.ListItems(r.Context(), kind, catUC.Criteria{
		Category: q.Get("category"),
		Area:     q.Get("area"),
		Price:    q.Get("price"),
		Query:    q.Get("q"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, ItemsResponse{Kind: kind, Items: items, Count: len(items)})
}

type CreateItemHandler struct{ Svc Service }

func (h CreateItemHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	kind, err := entity.ParseKind(r.URL.Query().Get("kind"))
	if err != nil {
		writeError(w, err)
		return
	}

	var req ItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, errInvalidBody)
		return
	}

	item, err := h.Svc.AddItem(r.Context(), kind, req.toEntity(""))
	if err != nil {
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, item)
}

type UpdateItemHandler struct{ Svc Service }

func (h UpdateItemHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ExtractID(r.URL.Path, itemsPrefix)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	kind, err := entity.ParseKind(r.URL.Query().Get("kind"))
	if err != nil {
		writeError(w, err)
		return
	}

	var req ItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, errInvalidBody)
		return
	}

	if err := h.Svc.UpdateItem(r.Context(), kind, req.toEntity(id)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type DeleteItemHandler struct{ Svc Service }

func (h DeleteItemHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ExtractID(r.URL.Path, itemsPrefix)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	kind, err := entity.ParseKind(r.URL.Query().Get("kind"))
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.Svc.DeleteItem(r.Context(), kind, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
