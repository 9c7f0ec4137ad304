package catalog

import "net/http"

// Register registers all catalog HTTP handlers with the given mux.
func Register(mux *http.ServeMux, svc Service) {
	mux.Handle("GET    /api/catalog", GetHandler{svc})

	mux.Handle("GET    /api/items", ListItemsHandler{svc})
	mux.Handle("POST   /api/items", CreateItemHandler{svc})
	mux.Handle("PUT    /api/items/", UpdateItemHandler{svc})
	mux.Handle("DELETE /api/items/", DeleteItemHandler{svc})

	mux.Handle("POST   /api/terms", CreateTermHandler{svc})
	mux.Handle("DELETE /api/terms/", DeleteTermHandler{svc})

	mux.Handle("POST   /api/setup", SetupHandler{svc})
	mux.Handle("GET    /api/connection", ConnectionHandler{svc})
}
