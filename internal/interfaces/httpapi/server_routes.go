package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/matches/find", RequireAuth(verifier, http.HandlerFunc(handler.FindMatch)))
	mux.Handle("POST /v1/boxers/search", RequireAuth(verifier, http.HandlerFunc(handler.SearchBoxers)))
	mux.Handle("GET /v1/boxers/{boxerID}", RequireAuth(verifier, http.HandlerFunc(handler.GetBoxer)))
}
