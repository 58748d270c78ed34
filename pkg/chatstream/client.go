package chatstream

import (
	"errors"
	"log"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/lumine-ai/widget/pkg/session"
)

// ErrNotConnected is returned by Send when no connection is open. Its text
// matches the transient condition the planner suppresses from the user.
var ErrNotConnected = errors.New("Not connected to server")

// WSClient is a Client over a websocket connection to the concierge backend.
type WSClient struct {
	url      string
	sessions session.Provider
	handlers Handlers

	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool
}

// NewWSClient returns a client for the chat endpoint at rawURL. The session
// provider scopes the connection; a nil provider connects anonymously.
func NewWSClient(rawURL string, sessions session.Provider, handlers Handlers) *WSClient {
	return &WSClient{url: rawURL, sessions: sessions, handlers: handlers}
}

// Connected reports whether a connection is currently open.
func (c *WSClient) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Connect opens the chat connection and starts the reader. It is a no-op if
// already connected.
func (c *WSClient) Connect() error {
	c.mu.Lock()
	if c.connected {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	endpoint := c.url
	if c.sessions != nil {
		if sid := c.sessions.SessionID(); sid != "" {
			endpoint = c.url + "?session_id=" + url.QueryEscape(sid)
		}
	}

	conn, _, err := websocket.DefaultDialer.Dial(endpoint, nil)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()

	if c.handlers.OnConnectionChange != nil {
		c.handlers.OnConnectionChange(true)
	}

	go c.readLoop(conn)
	return nil
}

// Disconnect closes the connection. Safe to call when already disconnected.
func (c *WSClient) Disconnect() {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	wasConnected := c.connected
	c.connected = false
	c.mu.Unlock()

	if conn != nil {
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		conn.Close()
	}
	if wasConnected && c.handlers.OnConnectionChange != nil {
		c.handlers.OnConnectionChange(false)
	}
}

// Send writes a user message to the stream.
func (c *WSClient) Send(text string) error {
	c.mu.Lock()
	conn := c.conn
	connected := c.connected
	c.mu.Unlock()

	if !connected || conn == nil {
		return ErrNotConnected
	}
	return conn.WriteJSON(map[string]string{"type": "message", "message": text})
}

func (c *WSClient) readLoop(conn *websocket.Conn) {
	for {
		var ev Event
		if err := conn.ReadJSON(&ev); err != nil {
			c.mu.Lock()
			// Only report the drop if this connection is still current.
			current := c.conn == conn
			if current {
				c.conn = nil
				c.connected = false
			}
			c.mu.Unlock()

			if current {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
					log.Printf("[chatstream] connection lost: %v", err)
				}
				if c.handlers.OnConnectionChange != nil {
					c.handlers.OnConnectionChange(false)
				}
			}
			return
		}
		Dispatch(c.handlers, ev)
	}
}
