package channel

import (
	"encoding/json"
	"sync"
)

// Type identifies the kind of cross-context message. Types are namespaced so
// they never collide with unrelated message traffic on the host page.
type Type string

const (
	// Host -> embedded
	TypeThemeChange  Type = "LUMINE_THEME_CHANGE"  // re-theme the embedded document
	TypeWidgetToggle Type = "LUMINE_WIDGET_TOGGLE" // informational open/close notification
	TypeWidgetSearch Type = "LUMINE_WIDGET_SEARCH" // seed a search in the chat input

	// Embedded -> host
	TypeWidgetClose Type = "LUMINE_WIDGET_CLOSE" // host closes the iframe, resets fullscreen
	TypeWidgetMode  Type = "LUMINE_WIDGET_MODE"  // host resizes the iframe container
)

// Widget display modes carried by TypeWidgetMode messages.
const (
	ModeFullscreen = "fullscreen"
	ModeStandard   = "standard"
)

// Message is the envelope for all cross-context messages. Only Type is
// mandatory; the remaining fields are payload-specific. Both sides of the
// channel see every message and must discriminate by Type, ignoring unknown
// types silently.
type Message struct {
	Type   Type   `json:"type"`
	Theme  string `json:"theme,omitempty"`  // TypeThemeChange: "light" | "dark"
	IsOpen bool   `json:"isOpen,omitempty"` // TypeWidgetToggle
	Mode   string `json:"mode,omitempty"`   // TypeWidgetMode
	Query  string `json:"query,omitempty"`  // TypeWidgetSearch
}

// Handler receives every inbound message on an endpoint, including messages
// the endpoint is not the intended recipient of.
type Handler func(Message)

// Endpoint is one side of a cross-context channel. Send is fire-and-forget:
// there is no delivery guarantee and no acknowledgement, and a dropped
// message must never deadlock either side.
type Endpoint interface {
	Send(Message)
	OnMessage(Handler)
}

// PairEndpoint is an in-process Endpoint connected to a peer. Delivery goes
// through a JSON round trip so that only the wire-visible fields cross the
// boundary, matching an untyped structured-clone channel.
type PairEndpoint struct {
	mu       sync.Mutex
	peer     *PairEndpoint
	handlers []Handler
	dropFn   func(Message) bool
}

// NewPair returns two connected endpoints, conventionally (host, embedded).
func NewPair() (*PairEndpoint, *PairEndpoint) {
	a := &PairEndpoint{}
	b := &PairEndpoint{}
	a.peer = b
	b.peer = a
	return a, b
}

// OnMessage registers a handler for all inbound messages.
func (e *PairEndpoint) OnMessage(h Handler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = append(e.handlers, h)
}

// SetDropFunc installs a predicate that silently drops outbound messages it
// returns true for. It models the receiving document not being loaded yet.
func (e *PairEndpoint) SetDropFunc(fn func(Message) bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dropFn = fn
}

// Send delivers msg to the peer endpoint. Undeliverable messages are dropped
// without error.
func (e *PairEndpoint) Send(msg Message) {
	e.mu.Lock()
	drop := e.dropFn
	peer := e.peer
	e.mu.Unlock()

	if peer == nil {
		return
	}
	if drop != nil && drop(msg) {
		return
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	peer.deliver(data)
}

func (e *PairEndpoint) deliver(data []byte) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return // malformed traffic is ignored, not surfaced
	}

	e.mu.Lock()
	handlers := make([]Handler, len(e.handlers))
	copy(handlers, e.handlers)
	e.mu.Unlock()

	for _, h := range handlers {
		h(msg)
	}
}
