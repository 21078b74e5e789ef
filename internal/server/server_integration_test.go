package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/ayusman/handmagic/internal/store"
)

func TestAPI_BindingWorkflow(t *testing.T) {
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	srv := New(Config{Store: s})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	// 1. Create a binding
	resp, err := client.Post(ts.URL+"/api/bindings", "application/json", bytes.NewBufferString(`{"key":"3","mode":"snow"}`))
	if err != nil {
		t.Fatalf("POST /api/bindings error = %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}

	var created struct {
		ID   string `json:"id"`
		Key  string `json:"key"`
		Mode string `json:"mode"`
	}
	json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()

	if created.Key != "3" || created.Mode != "snow" {
		t.Errorf("created = %+v", created)
	}

	// 2. List bindings
	resp, _ = client.Get(ts.URL + "/api/bindings")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /api/bindings status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var listed struct {
		Bindings []struct {
			ID string `json:"id"`
		} `json:"bindings"`
	}
	json.NewDecoder(resp.Body).Decode(&listed)
	resp.Body.Close()

	if len(listed.Bindings) != 1 || listed.Bindings[0].ID != created.ID {
		t.Errorf("listed = %+v", listed.Bindings)
	}

	// 3. Rebind to another effect
	req, _ := http.NewRequest(http.MethodPut, ts.URL+"/api/bindings/"+created.ID, bytes.NewBufferString(`{"mode":"fire"}`))
	resp, err = client.Do(req)
	if err != nil {
		t.Fatalf("PUT error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("PUT status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	b, err := s.Bindings().GetByKey("3")
	if err != nil || b.Mode != "fire" {
		t.Errorf("stored binding = %+v, %v", b, err)
	}

	// 4. Delete binding
	req, _ = http.NewRequest(http.MethodDelete, ts.URL+"/api/bindings/"+created.ID, nil)
	resp, err = client.Do(req)
	if err != nil {
		t.Fatalf("DELETE error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("DELETE status = %d, want %d", resp.StatusCode, http.StatusNoContent)
	}

	// 5. Verify deleted
	resp, _ = client.Get(ts.URL + "/api/bindings/" + created.ID)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("GET after delete status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
}

func TestAPI_EventHistory(t *testing.T) {
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	if err := s.Events().Record([]store.EventRecord{{Type: "spin", Mode: "snow", TimeMs: 5}}); err != nil {
		t.Fatal(err)
	}

	ts := httptest.NewServer(New(Config{Store: s, Events: NewEventHub()}))
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL + "/api/events/history")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	defer resp.Body.Close()

	var got struct {
		Events []store.EventRecord `json:"events"`
	}
	json.NewDecoder(resp.Body).Decode(&got)
	if len(got.Events) != 1 || got.Events[0].Type != "spin" {
		t.Errorf("history = %+v", got.Events)
	}
}
