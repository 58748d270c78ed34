package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/lumine-ai/widget/pkg/chatstream"
	"github.com/lumine-ai/widget/pkg/trip"
)

var chatUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ChatStreamHandler handles GET /ws: a scripted concierge that speaks the
// chat stream event protocol. It exists so the widget can be developed and
// demoed without a real backend; it is not an AI.
func (s *Server) ChatStreamHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := chatUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[api] chat upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	sessionID := r.URL.Query().Get("session_id")
	sim := &chatSimulator{conn: conn, store: s.store, sessionID: sessionID}
	sim.run()
}

// chatSimulator walks one connection through a canned planning exchange.
type chatSimulator struct {
	conn      *websocket.Conn
	store     *TripStore
	sessionID string
	turns     int
}

func (sim *chatSimulator) run() {
	for {
		var inbound struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		}
		if err := sim.conn.ReadJSON(&inbound); err != nil {
			return
		}
		if inbound.Type != "message" {
			continue
		}
		sim.turns++
		sim.respond(inbound.Message)
	}
}

func (sim *chatSimulator) respond(message string) {
	sim.send(chatstream.Event{Type: chatstream.EventTyping, Typing: true})

	lower := strings.ToLower(message)
	planning := strings.Contains(lower, "trip") || strings.Contains(lower, "plan") ||
		strings.Contains(lower, "travel") || sim.turns > 2

	if !planning {
		text := "Hello! I'm your travel concierge. Where would you like to go?"
		for _, chunk := range splitChunks(text, 16) {
			sim.send(chatstream.Event{Type: chatstream.EventChunk, Content: chunk})
		}
		sim.send(chatstream.Event{Type: chatstream.EventResponse, Response: &chatstream.Response{
			Response:  text,
			Questions: []string{"Plan a weekend trip", "Find me a hotel", "Things to do nearby"},
		}})
		return
	}

	// Planning turn: stream a couple of plan fragments, then announce the
	// assembled plan.
	sim.send(chatstream.Event{Type: chatstream.EventPlanItem, Item: &trip.PlanItem{
		Type: trip.CategoryWeather,
		Data: json.RawMessage(`{"summary":"Sunny, 24-28C","confidence":"high"}`),
	}})
	sim.send(chatstream.Event{Type: chatstream.EventPlanItem, Item: &trip.PlanItem{
		Type: trip.CategoryHotel,
		Data: json.RawMessage(`{"name":"Harbor View Hotel","pricePerNight":180}`),
	}})

	plan := &trip.Plan{
		ID:          uuid.NewString(),
		Destination: "Lisbon",
		StartDate:   "2026-09-12",
		EndDate:     "2026-09-16",
		TotalPrice:  1420,
		Currency:    "USD",
		Status:      trip.StatusSummaryReady,
	}
	sim.store.Put(plan, sim.sessionID)

	text := fmt.Sprintf("I've put together a %s getaway for you. The weather looks great and the Harbor View Hotel has availability.", plan.Destination)
	sim.send(chatstream.Event{Type: chatstream.EventResponse, Response: &chatstream.Response{
		Response: text,
		State:    chatstream.ResponseStateSummaryReady,
	}})
	sim.send(chatstream.Event{Type: chatstream.EventSuggestion, Suggestion: &chatstream.Suggestion{
		Type:        "experience",
		Title:       "Sunset sailing on the Tagus",
		Description: "A two-hour cruise leaving from the marina.",
	}})
	sim.send(chatstream.Event{Type: chatstream.EventTripPlanReady, Ready: &chatstream.TripPlanReady{
		TripPlanID:  plan.ID,
		Status:      string(plan.Status),
		Destination: plan.Destination,
		TotalPrice:  plan.TotalPrice,
	}})
}

func (sim *chatSimulator) send(ev chatstream.Event) {
	if err := sim.conn.WriteJSON(ev); err != nil {
		log.Printf("[api] chat write failed: %v", err)
	}
}

func splitChunks(text string, size int) []string {
	var chunks []string
	for len(text) > size {
		chunks = append(chunks, text[:size])
		text = text[size:]
	}
	if text != "" {
		chunks = append(chunks, text)
	}
	return chunks
}
