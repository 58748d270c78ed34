package channel

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// BridgeEndpoint carries channel messages over a websocket connection so a
// host page process and a widget process can pair across a network boundary.
// It keeps the channel contract: Send is fire-and-forget and write failures
// are swallowed.
type BridgeEndpoint struct {
	mu       sync.Mutex
	conn     *websocket.Conn
	handlers []Handler
	closed   bool
}

var bridgeUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// DialBridge connects to a bridge server at url and returns the local
// endpoint.
func DialBridge(url string) (*BridgeEndpoint, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, err
	}
	return newBridgeEndpoint(conn), nil
}

// UpgradeBridge upgrades an HTTP request to a bridge endpoint on the server
// side.
func UpgradeBridge(w http.ResponseWriter, r *http.Request) (*BridgeEndpoint, error) {
	conn, err := bridgeUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}
	return newBridgeEndpoint(conn), nil
}

func newBridgeEndpoint(conn *websocket.Conn) *BridgeEndpoint {
	e := &BridgeEndpoint{conn: conn}
	go e.readLoop()
	return e
}

// OnMessage registers a handler for all inbound messages.
func (e *BridgeEndpoint) OnMessage(h Handler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = append(e.handlers, h)
}

// Send writes msg to the peer. Failures are dropped silently; the channel
// contract tolerates lost messages.
func (e *BridgeEndpoint) Send(msg Message) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	if err := e.conn.WriteJSON(msg); err != nil {
		log.Printf("[channel] bridge write dropped: %v", err)
	}
}

// Close tears down the underlying connection.
func (e *BridgeEndpoint) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	e.conn.Close()
}

func (e *BridgeEndpoint) readLoop() {
	for {
		var msg Message
		if err := e.conn.ReadJSON(&msg); err != nil {
			e.Close()
			return
		}

		e.mu.Lock()
		handlers := make([]Handler, len(e.handlers))
		copy(handlers, e.handlers)
		e.mu.Unlock()

		for _, h := range handlers {
			h(msg)
		}
	}
}
