package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ayusman/handmagic/internal/app"
	"github.com/ayusman/handmagic/internal/dispatch"
	"github.com/ayusman/handmagic/internal/store"
)

type fakeController struct {
	settings store.Settings
	updates  int
}

func (f *fakeController) Settings() store.Settings { return f.settings }

func (f *fakeController) UpdateSettings(s store.Settings) (store.Settings, error) {
	mode, err := dispatch.ParseMode(s.Mode)
	if err != nil {
		return f.settings, err
	}
	s.Mode = string(mode)
	f.settings = s
	f.updates++
	return s, nil
}

func (f *fakeController) HandleKey(key string) (dispatch.Mode, error) {
	switch key {
	case "1":
		f.settings.Mode = string(dispatch.ModeFire)
		return dispatch.ModeFire, nil
	case "8":
		return dispatch.ModeNone, fmt.Errorf("%w: %s", app.ErrUnboundKey, key)
	default:
		return dispatch.ModeNone, store.ErrInvalidKey
	}
}

func TestSettingsHandler_Get(t *testing.T) {
	ctrl := &fakeController{settings: store.DefaultSettings()}
	handler := NewSettingsHandler(ctrl)

	req := httptest.NewRequest(http.MethodGet, "/api/settings", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	var got store.Settings
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got != store.DefaultSettings() {
		t.Errorf("got %+v, want defaults", got)
	}
}

func TestSettingsHandler_PutPartial(t *testing.T) {
	ctrl := &fakeController{settings: store.DefaultSettings()}
	handler := NewSettingsHandler(ctrl)

	req := httptest.NewRequest(http.MethodPut, "/api/settings", bytes.NewBufferString(`{"mode":"snow","brightness":20}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	want := store.DefaultSettings()
	want.Mode = "snow"
	want.Brightness = 20
	if ctrl.settings != want {
		t.Errorf("settings = %+v, want %+v", ctrl.settings, want)
	}
}

func TestSettingsHandler_PutErrors(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		body       string
		wantStatus int
	}{
		{name: "invalid json", method: http.MethodPut, body: `{`, wantStatus: http.StatusBadRequest},
		{name: "unknown mode", method: http.MethodPut, body: `{"mode":"lasers"}`, wantStatus: http.StatusBadRequest},
		{name: "post", method: http.MethodPost, body: `{}`, wantStatus: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := &fakeController{settings: store.DefaultSettings()}
			handler := NewSettingsHandler(ctrl)

			req := httptest.NewRequest(tt.method, "/api/settings", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if ctrl.updates != 0 {
				t.Error("rejected request should not update settings")
			}
		})
	}
}

func TestKeypressHandler(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		body       string
		wantStatus int
		wantMode   string
	}{
		{name: "bound key", method: http.MethodPost, body: `{"key":"1"}`, wantStatus: http.StatusOK, wantMode: "fire"},
		{name: "unbound key", method: http.MethodPost, body: `{"key":"8"}`, wantStatus: http.StatusNotFound},
		{name: "invalid key", method: http.MethodPost, body: `{"key":"x"}`, wantStatus: http.StatusBadRequest},
		{name: "invalid json", method: http.MethodPost, body: `nope`, wantStatus: http.StatusBadRequest},
		{name: "get", method: http.MethodGet, body: ``, wantStatus: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewKeypressHandler(&fakeController{settings: store.DefaultSettings()})

			req := httptest.NewRequest(tt.method, "/api/keypress", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if tt.wantMode == "" {
				return
			}
			var got keypressResponse
			json.NewDecoder(rec.Body).Decode(&got)
			if got.Mode != tt.wantMode || got.Label != "Fire" {
				t.Errorf("got %+v", got)
			}
		})
	}
}

func TestModesHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/modes", nil)
	rec := httptest.NewRecorder()
	ModesHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	var got struct {
		Modes []modeResponse `json:"modes"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(got.Modes) != len(dispatch.Modes()) {
		t.Fatalf("expected %d modes, got %d", len(dispatch.Modes()), len(got.Modes))
	}
	if got.Modes[0].Mode != "none" || got.Modes[1].Label != "Fire" {
		t.Errorf("unexpected order: %+v", got.Modes[:2])
	}
}
