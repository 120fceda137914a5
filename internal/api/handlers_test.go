package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/hainm/keobot/internal/event"
	"github.com/hainm/keobot/internal/event/eventtest"
)

func newTestAPI(t *testing.T) (*API, *event.Service) {
	t.Helper()
	svc := event.NewService(eventtest.NewStore(), nil)
	return New("127.0.0.1:0", svc, zerolog.Nop()), svc
}

func TestHandleHealth(t *testing.T) {
	a, _ := newTestAPI(t)

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if w.Body.String() != "ok" {
		t.Errorf("body = %q", w.Body.String())
	}
}

func TestHandleGroupSummaryNotFound(t *testing.T) {
	a, _ := newTestAPI(t)

	req := httptest.NewRequest("GET", "/api/groups/g1/summary", nil)
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestHandleGroupSummary(t *testing.T) {
	a, svc := newTestAPI(t)
	ctx := context.Background()

	ev, err := svc.CreateEvent(ctx, "g1", "u1", "Nam")
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	if _, err := svc.RecordPayment(ctx, ev.ID, "Sân", 200000, ""); err != nil {
		t.Fatalf("RecordPayment: %v", err)
	}

	req := httptest.NewRequest("GET", "/api/groups/g1/summary", nil)
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", w.Code, w.Body.String())
	}

	var resp summaryResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Event.ID != ev.ID || resp.Event.Status != "planning" {
		t.Errorf("event = %+v", resp.Event)
	}
	if resp.Report.CourtCost != 200000 || resp.Report.AttendeeCount != 1 {
		t.Errorf("report = %+v", resp.Report)
	}
	if resp.Report.NonGoerShare != 200000 {
		t.Errorf("per-person court = %d, want 200000", resp.Report.NonGoerShare)
	}
}
