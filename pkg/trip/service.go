package trip

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrAccessDenied marks a trip fetch rejected because the caller's session
// does not own the trip. Callers treat it differently from other failures:
// the stale reference is discarded silently.
var ErrAccessDenied = errors.New("access denied to trip")

// Service fetches and approves trip plans, scoped by a session token.
type Service interface {
	GetTrip(ctx context.Context, tripID, sessionID string) (*Plan, error)
	ApproveTrip(ctx context.Context, tripID, sessionID string) (*ApproveResult, error)
}

// ApproveResult is the backend's answer to an approve request.
type ApproveResult struct {
	Status Status `json:"status"`
}

// HTTPService talks to the trip API over HTTP.
type HTTPService struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPService returns a Service for the trip API at baseURL.
func NewHTTPService(baseURL string) *HTTPService {
	return &HTTPService{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// GetTrip fetches the full plan for tripID. A 403 response maps to
// ErrAccessDenied.
func (s *HTTPService) GetTrip(ctx context.Context, tripID, sessionID string) (*Plan, error) {
	endpoint := s.BaseURL + "/api/trips/" + url.PathEscape(tripID)
	if sessionID != "" {
		endpoint += "?session_id=" + url.QueryEscape(sessionID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch trip: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden {
		return nil, ErrAccessDenied
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("trip fetch returned status %d", resp.StatusCode)
	}

	var plan Plan
	if err := json.NewDecoder(resp.Body).Decode(&plan); err != nil {
		return nil, fmt.Errorf("failed to decode trip: %w", err)
	}
	return &plan, nil
}

// ApproveTrip asks the backend to book the trip.
func (s *HTTPService) ApproveTrip(ctx context.Context, tripID, sessionID string) (*ApproveResult, error) {
	endpoint := s.BaseURL + "/api/trips/" + url.PathEscape(tripID) + "/approve"

	body := strings.NewReader(`{"session_id":` + jsonString(sessionID) + `}`)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to approve trip: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden {
		return nil, ErrAccessDenied
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("trip approve returned status %d", resp.StatusCode)
	}

	var result ApproveResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode approve result: %w", err)
	}
	return &result, nil
}

func jsonString(s string) string {
	data, _ := json.Marshal(s)
	return string(data)
}
