// Package api provides the HTTP API handlers for HandMagic settings, key
// bindings and the gesture event log.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ayusman/handmagic/internal/dispatch"
	"github.com/ayusman/handmagic/internal/store"
)

// BindingHandler handles HTTP requests for key binding resources.
type BindingHandler struct {
	store *store.Store
}

// NewBindingHandler creates a new BindingHandler with the given store.
func NewBindingHandler(s *store.Store) *BindingHandler {
	return &BindingHandler{store: s}
}

// ServeHTTP implements the http.Handler interface and routes requests to appropriate methods.
func (h *BindingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/bindings or /api/bindings/{id}
	path := strings.TrimPrefix(r.URL.Path, "/api/bindings")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Request and response types

type bindingRequest struct {
	Key  string `json:"key"`
	Mode string `json:"mode"`
}

type bindingResponse struct {
	ID        string `json:"id"`
	Key       string `json:"key"`
	Mode      string `json:"mode"`
	Label     string `json:"label"`
	CreatedAt string `json:"created_at"`
}

type listBindingsResponse struct {
	Bindings []bindingResponse `json:"bindings"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toResponse(b *store.KeyBinding) bindingResponse {
	return bindingResponse{
		ID:        b.ID,
		Key:       b.Key,
		Mode:      b.Mode,
		Label:     dispatch.Mode(b.Mode).Label(),
		CreatedAt: b.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeStoreError maps binding store errors to status codes.
func writeStoreError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "Binding not found")
	case errors.Is(err, store.ErrInvalidKey):
		writeError(w, http.StatusBadRequest, "Key must be a digit from 1 to 9")
	case errors.Is(err, store.ErrKeyTaken):
		writeError(w, http.StatusConflict, "Key is already bound")
	default:
		writeError(w, http.StatusInternalServerError, fallback)
	}
}

// list handles GET /api/bindings and returns all bindings ordered by key.
func (h *BindingHandler) list(w http.ResponseWriter, r *http.Request) {
	bindings, err := h.store.Bindings().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list bindings")
		return
	}

	response := listBindingsResponse{
		Bindings: make([]bindingResponse, 0, len(bindings)),
	}
	for _, b := range bindings {
		response.Bindings = append(response.Bindings, toResponse(b))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/bindings/{id}.
func (h *BindingHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	b, err := h.store.Bindings().GetByID(id)
	if err != nil {
		writeStoreError(w, err, "Failed to get binding")
		return
	}
	writeJSON(w, http.StatusOK, toResponse(b))
}

// create handles POST /api/bindings.
func (h *BindingHandler) create(w http.ResponseWriter, r *http.Request) {
	var req bindingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	mode, err := dispatch.ParseMode(req.Mode)
	if err != nil || req.Mode == "" {
		writeError(w, http.StatusBadRequest, "Invalid effect mode")
		return
	}

	b := &store.KeyBinding{Key: req.Key, Mode: string(mode)}
	if err := h.store.Bindings().Create(b); err != nil {
		writeStoreError(w, err, "Failed to create binding")
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(b))
}

// update handles PUT /api/bindings/{id}. Empty fields keep their value.
func (h *BindingHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	b, err := h.store.Bindings().GetByID(id)
	if err != nil {
		writeStoreError(w, err, "Failed to get binding")
		return
	}

	var req bindingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Key != "" {
		b.Key = req.Key
	}
	if req.Mode != "" {
		mode, err := dispatch.ParseMode(req.Mode)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid effect mode")
			return
		}
		b.Mode = string(mode)
	}

	if err := h.store.Bindings().Update(b); err != nil {
		writeStoreError(w, err, "Failed to update binding")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(b))
}

// delete handles DELETE /api/bindings/{id}.
func (h *BindingHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Bindings().Delete(id); err != nil {
		writeStoreError(w, err, "Failed to delete binding")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
