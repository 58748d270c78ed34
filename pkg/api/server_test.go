package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lumine-ai/widget/pkg/branding"
	"github.com/lumine-ai/widget/pkg/trip"
)

func newTestServer(t *testing.T, b branding.Config) *Server {
	t.Helper()
	return NewServer(0, "https://widget.example.com", b)
}

func TestBootstrapHandler(t *testing.T) {
	s := newTestServer(t, branding.Config{WidgetTitle: "Visit Dubai", PrimaryColor: "#D4AF37"})

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/api/widget/bootstrap", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body BootstrapResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.WidgetTitle != "Visit Dubai" {
		t.Errorf("widgetTitle = %q", body.WidgetTitle)
	}
	if body.PrimaryColor != "#D4AF37" {
		t.Errorf("primaryColor = %q", body.PrimaryColor)
	}
	// Unset fields surface as defaults, not empty strings.
	if body.InputPlaceholder == "" {
		t.Error("expected a default input placeholder")
	}
}

func TestEmbedScriptHandler(t *testing.T) {
	s := newTestServer(t, branding.Config{})

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/embed.js", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "javascript") {
		t.Errorf("content type = %q", ct)
	}
	script := rec.Body.String()
	for _, want := range []string{
		"window.Lumine",
		"LUMINE_THEME_CHANGE",
		"LUMINE_WIDGET_CLOSE",
		"LUMINE_WIDGET_MODE",
		"lumine-search",
		"https://widget.example.com",
	} {
		if !strings.Contains(script, want) {
			t.Errorf("loader script missing %q", want)
		}
	}
}

func TestWidgetPageHandler(t *testing.T) {
	s := newTestServer(t, branding.Config{WidgetTitle: "Visit Dubai"})

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/widget", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Errorf("content type = %q", ct)
	}
	page := rec.Body.String()
	for _, want := range []string{"Visit Dubai", "/api/widget/bootstrap", "/ws"} {
		if !strings.Contains(page, want) {
			t.Errorf("widget page missing %q", want)
		}
	}
}

func TestEmbedScriptPointsAtServedWidgetPage(t *testing.T) {
	s := newTestServer(t, branding.Config{})

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/embed.js", nil))
	if !strings.Contains(rec.Body.String(), "https://widget.example.com/widget") {
		t.Fatal("loader script does not reference the widget page URL")
	}

	// The route the loader points at actually exists.
	pageRec := httptest.NewRecorder()
	s.Router().ServeHTTP(pageRec, httptest.NewRequest("GET", "/widget", nil))
	if pageRec.Code != http.StatusOK {
		t.Errorf("widget page status = %d", pageRec.Code)
	}
}

func TestGetTripHandler(t *testing.T) {
	s := newTestServer(t, branding.Config{})
	s.store.Put(&trip.Plan{ID: "trip-1", Destination: "Lisbon", Status: trip.StatusSummaryReady}, "sess-1")

	tests := []struct {
		name       string
		url        string
		wantStatus int
	}{
		{"owner fetch", "/api/trips/trip-1?session_id=sess-1", http.StatusOK},
		{"foreign session", "/api/trips/trip-1?session_id=sess-2", http.StatusForbidden},
		{"missing session", "/api/trips/trip-1", http.StatusForbidden},
		{"unknown trip", "/api/trips/nope?session_id=sess-1", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.Router().ServeHTTP(rec, httptest.NewRequest("GET", tt.url, nil))
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			var plan trip.Plan
			if err := json.NewDecoder(rec.Body).Decode(&plan); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if plan.Destination != "Lisbon" {
				t.Errorf("destination = %q", plan.Destination)
			}
		})
	}
}

func TestApproveTripHandler(t *testing.T) {
	s := newTestServer(t, branding.Config{})
	s.store.Put(&trip.Plan{ID: "trip-1", Status: trip.StatusSummaryReady}, "sess-1")

	req := httptest.NewRequest("POST", "/api/trips/trip-1/approve", strings.NewReader(`{"session_id":"sess-1"}`))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var result trip.ApproveResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Status != trip.StatusBooked {
		t.Errorf("status = %s", result.Status)
	}

	// The stored plan reflects the booking.
	plan, err := s.store.Get("trip-1", "sess-1")
	if err != nil {
		t.Fatalf("store get: %v", err)
	}
	if plan.Status != trip.StatusBooked {
		t.Errorf("stored status = %s", plan.Status)
	}
}

func TestApproveTripHandlerRejectsForeignSession(t *testing.T) {
	s := newTestServer(t, branding.Config{})
	s.store.Put(&trip.Plan{ID: "trip-1", Status: trip.StatusSummaryReady}, "sess-1")

	req := httptest.NewRequest("POST", "/api/trips/trip-1/approve", strings.NewReader(`{"session_id":"sess-2"}`))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d", rec.Code)
	}
	plan, err := s.store.Get("trip-1", "sess-1")
	if err != nil {
		t.Fatalf("store get: %v", err)
	}
	if plan.Status != trip.StatusSummaryReady {
		t.Error("a rejected approve must not mutate the plan")
	}
}

func TestApproveTripHandlerBadBody(t *testing.T) {
	s := newTestServer(t, branding.Config{})
	req := httptest.NewRequest("POST", "/api/trips/trip-1/approve", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}
