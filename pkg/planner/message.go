package planner

import (
	"time"

	"github.com/google/uuid"

	"github.com/lumine-ai/widget/pkg/trip"
)

// Sender identifies who authored a chat message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// MessageKind selects how a chat message is displayed.
type MessageKind string

const (
	KindText         MessageKind = "text"
	KindOptions      MessageKind = "options"
	KindCardStack    MessageKind = "card-stack"
	KindConfirmation MessageKind = "confirmation"
	KindTripPlan     MessageKind = "trip-plan"
)

// HotelCard is one selectable stay/attraction/event card attached to a
// message.
type HotelCard struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Location  string   `json:"location"`
	Price     string   `json:"price"`
	Rating    float64  `json:"rating"`
	Image     string   `json:"image"`
	Tags      []string `json:"tags,omitempty"`
	Type      string   `json:"type,omitempty"`
	StartDate string   `json:"startDate,omitempty"`
	EndDate   string   `json:"endDate,omitempty"`
}

// ChatMessage is one entry in the conversation. Messages are immutable once
// appended; history is append-only and insertion order is display order.
type ChatMessage struct {
	ID        string      `json:"id"`
	Sender    Sender      `json:"sender"`
	Kind      MessageKind `json:"type"`
	Text      string      `json:"text"`
	Options   []string    `json:"options,omitempty"`
	Cards     []HotelCard `json:"cards,omitempty"`
	TripPlan  *trip.Plan  `json:"tripPlan,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

func newMessage(sender Sender, kind MessageKind, text string) ChatMessage {
	return ChatMessage{
		ID:        uuid.NewString(),
		Sender:    sender,
		Kind:      kind,
		Text:      text,
		Timestamp: time.Now(),
	}
}
