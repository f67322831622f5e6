package handlers

import (
	"errors"
	"net/http"

	"lens/internal/indexer"
	"lens/internal/logging"
)

// TriggerDiscover runs a discovery pass and waits for it to finish.
func (h *Handlers) TriggerDiscover(w http.ResponseWriter, r *http.Request) {
	stats, err := h.indexer.Discover(r.Context())
	switch {
	case errors.Is(err, indexer.ErrDiscoveryInProgress):
		writeJSONError(w, "discovery is already in progress", http.StatusConflict)
		return
	case err != nil:
		logging.Error("Discover request failed: %v", err)
		writeJSONError(w, "discovery failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, stats)
}
