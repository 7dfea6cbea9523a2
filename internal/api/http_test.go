package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/san-kum/fluidmind/internal/applog"
	"github.com/san-kum/fluidmind/internal/event"
	"github.com/san-kum/fluidmind/internal/physics"
	"github.com/san-kum/fluidmind/internal/simloop"
)

func newTestServer(t *testing.T) (*Server, func()) {
	t.Helper()
	loop := simloop.New(physics.DefaultConstants(), event.NewBroadcaster())
	ctx, cancel := context.WithCancel(context.Background())
	go loop.Run(ctx)
	// give the loop a moment to take its first tick
	time.Sleep(5 * time.Millisecond)
	return New(loop, applog.New(), 0), cancel
}

func TestHandleInjectReturnsConceptFields(t *testing.T) {
	s, cancel := newTestServer(t)
	defer cancel()

	body, _ := json.Marshal(injectRequest{Concept: "despair", Density: 0.9, Volume: 0.5})
	req := httptest.NewRequest(http.MethodPost, "/inject", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", rec.Code, rec.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["name"] != "despair" {
		t.Errorf("name = %v, want despair", resp["name"])
	}
}

func TestHandleInjectRejectsOutOfRangeDensity(t *testing.T) {
	s, cancel := newTestServer(t)
	defer cancel()

	body, _ := json.Marshal(injectRequest{Concept: "x", Density: 2.0, Volume: 0.5})
	req := httptest.NewRequest(http.MethodPost, "/inject", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandleDivideStatusInactiveByDefault(t *testing.T) {
	s, cancel := newTestServer(t)
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/divide/status", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["active"] != false {
		t.Errorf("active = %v, want false", resp["active"])
	}
}

func TestHandleTriggerContinentPendingBelowThreshold(t *testing.T) {
	s, cancel := newTestServer(t)
	defer cancel()

	body, _ := json.Marshal(triggerContinentRequest{PressureThreshold: 999})
	req := httptest.NewRequest(http.MethodPost, "/continent", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["status"] != "pending" {
		t.Errorf("status = %v, want pending", resp["status"])
	}
}
