package web

import "net/http"

// RegisterRoutes registers the dashboard routes on the provided mux.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /{$}", h.Dashboard)
	mux.HandleFunc("GET /incidents/{id}", h.IncidentDetail)
}
