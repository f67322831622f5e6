package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter registers every API route on a fresh router.
func NewRouter(h *Handlers) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)
	r.HandleFunc("/healthz", h.HealthCheck).Methods(http.MethodGet)
	r.HandleFunc("/livez", h.LivenessCheck).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods(http.MethodGet)
	r.HandleFunc("/version", h.GetVersion).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/images", h.ListImages).Methods(http.MethodGet).Name("listImages")
	api.HandleFunc("/images/{id}", h.GetImage).Methods(http.MethodGet).Name("getImage")
	api.HandleFunc("/images/{id}/data", h.GetImageData).Methods(http.MethodGet).Name("getImageData")
	api.HandleFunc("/discover", h.TriggerDiscover).Methods(http.MethodPost).Name("discover")

	return r
}
