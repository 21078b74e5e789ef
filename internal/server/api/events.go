package api

import (
	"net/http"
	"strconv"

	"github.com/ayusman/handmagic/internal/store"
)

// maxHistory caps the limit query parameter.
const maxHistory = 500

// HistoryHandler serves the persisted gesture event log.
type HistoryHandler struct {
	store *store.Store
}

// NewHistoryHandler creates a new HistoryHandler with the given store.
func NewHistoryHandler(s *store.Store) *HistoryHandler {
	return &HistoryHandler{store: s}
}

type historyResponse struct {
	Events []store.EventRecord `json:"events"`
	Counts map[string]int      `json:"counts"`
}

// ServeHTTP returns recent events on GET (newest first, ?limit=N) and clears
// the log on DELETE.
func (h *HistoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodDelete:
		if err := h.store.Events().Clear(); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to clear events")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *HistoryHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = min(n, maxHistory)
	}

	events, err := h.store.Events().Recent(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list events")
		return
	}
	counts, err := h.store.Events().CountByType()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to count events")
		return
	}

	if events == nil {
		events = []store.EventRecord{}
	}
	writeJSON(w, http.StatusOK, historyResponse{Events: events, Counts: counts})
}
