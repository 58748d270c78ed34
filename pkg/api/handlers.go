package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/gorilla/mux"

	"github.com/lumine-ai/widget/pkg/trip"
)

// BootstrapResponse carries the branding the widget page applies at load.
type BootstrapResponse struct {
	WidgetTitle      string `json:"widgetTitle"`
	Subtitle         string `json:"subtitle"`
	LauncherText     string `json:"launcherText"`
	WelcomeMessage   string `json:"welcomeMessage,omitempty"`
	InputPlaceholder string `json:"inputPlaceholder"`
	PrimaryColor     string `json:"primaryColor,omitempty"`
	AccentColor      string `json:"accentColor,omitempty"`
	AvatarURL        string `json:"avatarUrl"`
	LogoURL          string `json:"logoUrl,omitempty"`
}

// BootstrapHandler handles GET /api/widget/bootstrap.
func (s *Server) BootstrapHandler(w http.ResponseWriter, r *http.Request) {
	b := s.branding
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(BootstrapResponse{
		WidgetTitle:      b.WidgetTitle,
		Subtitle:         b.Subtitle,
		LauncherText:     b.LauncherText,
		WelcomeMessage:   b.WelcomeMessage,
		InputPlaceholder: b.InputPlaceholder,
		PrimaryColor:     b.PrimaryColor,
		AccentColor:      b.AccentColor,
		AvatarURL:        b.AvatarURL,
		LogoURL:          b.LogoURL,
	})
}

var errTripNotFound = errors.New("trip not found")

// TripStore is the in-memory trip registry backing the dev server. Plans are
// scoped to the session that created them.
type TripStore struct {
	mu     sync.RWMutex
	plans  map[string]*trip.Plan
	owners map[string]string // trip ID -> session ID
}

// NewTripStore returns an empty store.
func NewTripStore() *TripStore {
	return &TripStore{
		plans:  make(map[string]*trip.Plan),
		owners: make(map[string]string),
	}
}

// Put registers a plan owned by sessionID.
func (st *TripStore) Put(plan *trip.Plan, sessionID string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.plans[plan.ID] = plan
	st.owners[plan.ID] = sessionID
}

// Get returns the plan if sessionID owns it; trip.ErrAccessDenied when it is
// owned by another session.
func (st *TripStore) Get(tripID, sessionID string) (*trip.Plan, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	plan, ok := st.plans[tripID]
	if !ok {
		return nil, errTripNotFound
	}
	if st.owners[tripID] != sessionID {
		return nil, trip.ErrAccessDenied
	}
	return plan, nil
}

// Approve marks the plan booked.
func (st *TripStore) Approve(tripID, sessionID string) (trip.Status, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	plan, ok := st.plans[tripID]
	if !ok {
		return "", errTripNotFound
	}
	if st.owners[tripID] != sessionID {
		return "", trip.ErrAccessDenied
	}
	plan.Status = trip.StatusBooked
	return plan.Status, nil
}

// GetTripHandler handles GET /api/trips/{id}.
func (s *Server) GetTripHandler(w http.ResponseWriter, r *http.Request) {
	tripID := mux.Vars(r)["id"]
	sessionID := r.URL.Query().Get("session_id")

	plan, err := s.store.Get(tripID, sessionID)
	if err != nil {
		writeTripError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(plan)
}

// ApproveTripHandler handles POST /api/trips/{id}/approve.
func (s *Server) ApproveTripHandler(w http.ResponseWriter, r *http.Request) {
	tripID := mux.Vars(r)["id"]

	var body struct {
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	status, err := s.store.Approve(tripID, body.SessionID)
	if err != nil {
		writeTripError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(trip.ApproveResult{Status: status})
}

func writeTripError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, trip.ErrAccessDenied):
		http.Error(w, "Access denied", http.StatusForbidden)
	case errors.Is(err, errTripNotFound):
		http.Error(w, "Trip not found", http.StatusNotFound)
	default:
		http.Error(w, "Internal error", http.StatusInternalServerError)
	}
}
