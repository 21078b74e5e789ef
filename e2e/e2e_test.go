package e2e

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"gocv.io/x/gocv"

	"github.com/ayusman/handmagic/internal/app"
	"github.com/ayusman/handmagic/internal/capture"
	"github.com/ayusman/handmagic/internal/detector"
	"github.com/ayusman/handmagic/internal/dispatch"
	"github.com/ayusman/handmagic/internal/server"
	"github.com/ayusman/handmagic/internal/store"
)

type harness struct {
	store    *store.Store
	app      *app.App
	hub      *server.EventHub
	ts       *httptest.Server
	detector *detector.MockDetector
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	tmpDir := t.TempDir()

	s, err := store.New(filepath.Join(tmpDir, "data.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })

	hub := server.NewEventHub()
	t.Cleanup(hub.Close)

	application := app.New(app.Config{
		Store:     s,
		PluginDir: filepath.Join(tmpDir, "plugins"),
		CameraID:  -1,
		Events:    hub,
	})
	t.Cleanup(application.Close)

	mock := detector.NewMockDetector()
	application.SetDetector(mock)

	ts := httptest.NewServer(server.New(server.Config{Store: s, App: application, Events: hub}))
	t.Cleanup(ts.Close)

	return &harness{store: s, app: application, hub: hub, ts: ts, detector: mock}
}

func (h *harness) post(t *testing.T, path, body string) *http.Response {
	t.Helper()
	resp, err := h.ts.Client().Post(h.ts.URL+path, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s error = %v", path, err)
	}
	return resp
}

func TestE2E_BindKeyAndTrigger(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	h := newHarness(t)

	t.Run("BindKey", func(t *testing.T) {
		resp := h.post(t, "/api/bindings", `{"key": "7", "mode": "explosion"}`)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusCreated)
		}
	})

	t.Run("PressKey", func(t *testing.T) {
		resp := h.post(t, "/api/keypress", `{"key": "7"}`)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}

		var got struct {
			Mode string `json:"mode"`
		}
		json.NewDecoder(resp.Body).Decode(&got)
		if got.Mode != "explosion" {
			t.Errorf("mode = %q, want explosion", got.Mode)
		}
	})

	t.Run("StatusReflectsMode", func(t *testing.T) {
		resp, err := h.ts.Client().Get(h.ts.URL + "/api/status")
		if err != nil {
			t.Fatalf("GET /api/status error = %v", err)
		}
		defer resp.Body.Close()

		var status app.Status
		json.NewDecoder(resp.Body).Decode(&status)
		if status.Mode != dispatch.ModeExplosion {
			t.Errorf("status mode = %q, want explosion", status.Mode)
		}
	})

	t.Run("SettingsPersisted", func(t *testing.T) {
		saved, err := h.store.Settings().Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if saved.Mode != "explosion" {
			t.Errorf("saved mode = %q, want explosion", saved.Mode)
		}
	})
}

func TestE2E_GestureEventsReachWebSocket(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	h := newHarness(t)

	url := "ws" + strings.TrimPrefix(h.ts.URL, "http") + "/api/events"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial error = %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for h.hub.Clients() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	if err := h.app.SetMode(dispatch.ModeSnow); err != nil {
		t.Fatal(err)
	}

	fist, open := detector.FistLandmarks(), detector.OpenPalmLandmarks()
	h.detector.SetSequence([][]detector.HandLandmarks{{fist}, {fist}, {open}})

	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()
	for i := 0; i < 3; i++ {
		h.app.ProcessFrame(&frame, int64(1000+i*33))
	}

	var got []string
	for len(got) < 2 {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var ev dispatch.Event
		if err := conn.ReadJSON(&ev); err != nil {
			t.Fatalf("ReadJSON error = %v (got %v)", err, got)
		}
		got = append(got, string(ev.Type))
	}
	if got[0] != "mode_changed" || got[1] != "opened_after_closed" {
		t.Errorf("events = %v, want [mode_changed opened_after_closed]", got)
	}

	resp, err := h.ts.Client().Get(h.ts.URL + "/api/events/history")
	if err != nil {
		t.Fatalf("GET history error = %v", err)
	}
	defer resp.Body.Close()

	var history struct {
		Counts map[string]int `json:"counts"`
	}
	json.NewDecoder(resp.Body).Decode(&history)
	if history.Counts["opened_after_closed"] != 1 {
		t.Errorf("history counts = %v", history.Counts)
	}
}

func TestE2E_StreamServesRenderedFrames(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	h := newHarness(t)

	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()
	h.app.SetCamera(capture.NewMockCamera([]*gocv.Mat{&frame}, true))
	h.detector.SetHands([]detector.HandLandmarks{detector.IndexPointingLandmarks()})

	if err := h.app.SetMode(dispatch.ModeRainbowArcs); err != nil {
		t.Fatal(err)
	}
	if err := h.app.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer h.app.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, h.ts.URL+"/api/stream", nil)
	resp, err := h.ts.Client().Do(req)
	if err != nil {
		t.Fatalf("GET /api/stream error = %v", err)
	}
	defer resp.Body.Close()

	r := bufio.NewReader(resp.Body)
	line, err := r.ReadString('\n')
	if err != nil {
		t.Fatalf("reading stream: %v", err)
	}
	if strings.TrimSpace(line) != "--frame" {
		t.Errorf("first line = %q, want --frame", line)
	}

	status := h.app.Status()
	if !status.Running || status.Mode != dispatch.ModeRainbowArcs {
		t.Errorf("status = %+v", status)
	}
}

func TestE2E_HealthAndModes(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	h := newHarness(t)

	for _, path := range []string{"/api/health", "/api/modes", "/api/settings", "/api/bindings"} {
		resp, err := h.ts.Client().Get(h.ts.URL + path)
		if err != nil {
			t.Fatalf("GET %s error = %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s status = %d, want %d", path, resp.StatusCode, http.StatusOK)
		}
	}
}
