package catalog

import (
	"net/http"

	"bento-navi/internal/handler/http/respond"
)

type GetHandler struct{ Svc Service }

func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	view, err := h.Svc.Load(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, view)
}

type SetupHandler struct{ Svc Service }

func (h SetupHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	res, err := h.Svc.Setup(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, res)
}

type ConnectionHandler struct{ Svc Service }

func (h ConnectionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ok, err := h.Svc.TestConnection(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, ConnectionResponse{Connected: ok})
}
