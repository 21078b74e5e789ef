package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ayusman/handmagic/internal/app"
	"github.com/ayusman/handmagic/internal/dispatch"
	"github.com/ayusman/handmagic/internal/store"
)

// Controller is the part of the running app the settings endpoints drive.
type Controller interface {
	Settings() store.Settings
	UpdateSettings(s store.Settings) (store.Settings, error)
	HandleKey(key string) (dispatch.Mode, error)
}

// SettingsHandler serves /api/settings.
type SettingsHandler struct {
	ctrl Controller
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(c Controller) *SettingsHandler {
	return &SettingsHandler{ctrl: c}
}

// ServeHTTP returns the settings on GET and applies a partial update on PUT.
// Fields missing from the PUT body keep their current value.
func (h *SettingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.ctrl.Settings())
	case http.MethodPut:
		s := h.ctrl.Settings()
		if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
		applied, err := h.ctrl.UpdateSettings(s)
		if err != nil {
			if errors.Is(err, dispatch.ErrUnknownMode) {
				writeError(w, http.StatusBadRequest, "Invalid effect mode")
				return
			}
			writeError(w, http.StatusInternalServerError, "Failed to update settings")
			return
		}
		writeJSON(w, http.StatusOK, applied)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// KeypressHandler serves POST /api/keypress, switching the effect bound to
// a number key.
type KeypressHandler struct {
	ctrl Controller
}

// NewKeypressHandler creates a new KeypressHandler.
func NewKeypressHandler(c Controller) *KeypressHandler {
	return &KeypressHandler{ctrl: c}
}

type keypressRequest struct {
	Key string `json:"key"`
}

type keypressResponse struct {
	Key   string `json:"key"`
	Mode  string `json:"mode"`
	Label string `json:"label"`
}

func (h *KeypressHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req keypressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	mode, err := h.ctrl.HandleKey(req.Key)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrInvalidKey):
			writeError(w, http.StatusBadRequest, "Key must be a digit from 1 to 9")
		case errors.Is(err, app.ErrUnboundKey):
			writeError(w, http.StatusNotFound, "Key is not bound")
		case errors.Is(err, dispatch.ErrUnknownMode):
			writeError(w, http.StatusConflict, "Binding refers to an unknown effect")
		default:
			writeError(w, http.StatusInternalServerError, "Failed to handle key")
		}
		return
	}

	writeJSON(w, http.StatusOK, keypressResponse{Key: req.Key, Mode: string(mode), Label: mode.Label()})
}

type modeResponse struct {
	Mode  string `json:"mode"`
	Label string `json:"label"`
}

// ModesHandler serves GET /api/modes, the selectable effects in menu order.
func ModesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	modes := dispatch.Modes()
	out := make([]modeResponse, 0, len(modes))
	for _, m := range modes {
		out = append(out, modeResponse{Mode: string(m), Label: m.Label()})
	}
	writeJSON(w, http.StatusOK, map[string]any{"modes": out})
}
