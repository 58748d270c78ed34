// Package chatstream defines the streaming chat connection between the widget
// and the concierge backend: the typed event stream the backend delivers and
// the client used to send user messages over it.
package chatstream

import (
	"encoding/json"

	"github.com/lumine-ai/widget/pkg/trip"
)

// EventType identifies a server-delivered event on the chat stream.
type EventType string

const (
	EventTyping        EventType = "typing"
	EventChunk         EventType = "chunk"
	EventResponse      EventType = "response"
	EventTripPlan      EventType = "trip_plan"
	EventSuggestion    EventType = "suggestion"
	EventPlanItem      EventType = "plan_item"
	EventTripPlanReady EventType = "trip_plan_ready"
	EventError         EventType = "error"
)

// ResponseStateSummaryReady marks a response whose trip summary is complete
// and ready for booking.
const ResponseStateSummaryReady = "summary_ready"

// Response is a complete assistant turn.
type Response struct {
	Response  string   `json:"response"`
	Questions []string `json:"questions,omitempty"`
	State     string   `json:"state,omitempty"`
}

// Suggestion is a standalone recommendation accompanying a response. It never
// enters chat history; the response text already narrates it.
type Suggestion struct {
	Type        string          `json:"type,omitempty"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Data        json.RawMessage `json:"data,omitempty"`
}

// TripPlanReady announces that a full trip plan can be fetched.
type TripPlanReady struct {
	TripPlanID  string  `json:"trip_plan_id"`
	Status      string  `json:"status"`
	Destination string  `json:"destination"`
	TotalPrice  float64 `json:"total_price"`
}

// Handlers is the set of callbacks a stream consumer registers, one per event
// kind. Nil callbacks are skipped. Callbacks may be invoked from the
// connection's reader goroutine; consumers must serialize their own state.
type Handlers struct {
	OnTyping           func(bool)
	OnChunk            func(string)
	OnResponse         func(Response)
	OnTripPlan         func(trip.Plan)
	OnSuggestion       func(Suggestion)
	OnPlanItem         func(trip.PlanItem)
	OnTripPlanReady    func(TripPlanReady)
	OnError            func(string)
	OnConnectionChange func(bool)
}

// Client maintains a persistent chat connection.
type Client interface {
	Connect() error
	Disconnect()
	Send(text string) error
	Connected() bool
}

// Event is the wire envelope for server events. Exactly one payload field is
// populated, selected by Type.
type Event struct {
	Type       EventType       `json:"type"`
	Typing     bool            `json:"typing,omitempty"`
	Content    string          `json:"content,omitempty"`
	Response   *Response       `json:"response_data,omitempty"`
	TripPlan   *trip.Plan      `json:"trip_plan,omitempty"`
	Suggestion *Suggestion     `json:"suggestion,omitempty"`
	Item       *trip.PlanItem  `json:"item,omitempty"`
	Ready      *TripPlanReady  `json:"ready,omitempty"`
	Error      string          `json:"error,omitempty"`
	Raw        json.RawMessage `json:"-"`
}

// Dispatch routes a decoded event to the matching handler. Events with an
// unknown type or a missing payload are dropped silently.
func Dispatch(h Handlers, ev Event) {
	switch ev.Type {
	case EventTyping:
		if h.OnTyping != nil {
			h.OnTyping(ev.Typing)
		}
	case EventChunk:
		if h.OnChunk != nil {
			h.OnChunk(ev.Content)
		}
	case EventResponse:
		if h.OnResponse != nil && ev.Response != nil {
			h.OnResponse(*ev.Response)
		}
	case EventTripPlan:
		if h.OnTripPlan != nil && ev.TripPlan != nil {
			h.OnTripPlan(*ev.TripPlan)
		}
	case EventSuggestion:
		if h.OnSuggestion != nil && ev.Suggestion != nil {
			h.OnSuggestion(*ev.Suggestion)
		}
	case EventPlanItem:
		if h.OnPlanItem != nil && ev.Item != nil {
			h.OnPlanItem(*ev.Item)
		}
	case EventTripPlanReady:
		if h.OnTripPlanReady != nil && ev.Ready != nil {
			h.OnTripPlanReady(*ev.Ready)
		}
	case EventError:
		if h.OnError != nil {
			h.OnError(ev.Error)
		}
	}
}
