package chatstream

import (
	"encoding/json"
	"testing"

	"github.com/lumine-ai/widget/pkg/trip"
)

func TestDispatch(t *testing.T) {
	var (
		chunks    []string
		responses []Response
		readies   []TripPlanReady
		errs      []string
	)
	h := Handlers{
		OnChunk:         func(s string) { chunks = append(chunks, s) },
		OnResponse:      func(r Response) { responses = append(responses, r) },
		OnTripPlanReady: func(r TripPlanReady) { readies = append(readies, r) },
		OnError:         func(s string) { errs = append(errs, s) },
	}

	Dispatch(h, Event{Type: EventChunk, Content: "Lisbon is lovely in "})
	Dispatch(h, Event{Type: EventChunk, Content: "September."})
	Dispatch(h, Event{Type: EventResponse, Response: &Response{Response: "Done", State: ResponseStateSummaryReady}})
	Dispatch(h, Event{Type: EventTripPlanReady, Ready: &TripPlanReady{TripPlanID: "trip-1", Destination: "Lisbon"}})
	Dispatch(h, Event{Type: EventError, Error: "boom"})

	if len(chunks) != 2 || chunks[1] != "September." {
		t.Errorf("chunks = %v", chunks)
	}
	if len(responses) != 1 || responses[0].State != ResponseStateSummaryReady {
		t.Errorf("responses = %v", responses)
	}
	if len(readies) != 1 || readies[0].TripPlanID != "trip-1" {
		t.Errorf("readies = %v", readies)
	}
	if len(errs) != 1 || errs[0] != "boom" {
		t.Errorf("errs = %v", errs)
	}
}

func TestDispatchSkipsNilHandlersAndPayloads(t *testing.T) {
	// No handlers registered: nothing should panic.
	Dispatch(Handlers{}, Event{Type: EventResponse, Response: &Response{Response: "x"}})

	// Handler registered but payload missing: dropped.
	called := false
	h := Handlers{OnResponse: func(Response) { called = true }}
	Dispatch(h, Event{Type: EventResponse})
	if called {
		t.Error("a response event without a payload must be dropped")
	}

	// Unknown event types are other protocol versions' traffic.
	Dispatch(h, Event{Type: "future_event"})
	if called {
		t.Error("unknown event types must be dropped")
	}
}

func TestEventDecoding(t *testing.T) {
	raw := `{
		"type": "plan_item",
		"item": {"type": "hotel", "data": {"name": "Mira", "price": 120}}
	}`
	var ev Event
	if err := json.Unmarshal([]byte(raw), &ev); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ev.Type != EventPlanItem || ev.Item == nil {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if ev.Item.Type != trip.CategoryHotel {
		t.Errorf("item category = %s", ev.Item.Type)
	}

	var delivered *trip.PlanItem
	Dispatch(Handlers{OnPlanItem: func(it trip.PlanItem) { delivered = &it }}, ev)
	if delivered == nil || string(delivered.Data) != `{"name": "Mira", "price": 120}` {
		t.Errorf("delivered item = %+v", delivered)
	}
}
