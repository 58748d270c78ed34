package api

import (
	"log"
	"net/http"
	"sync"

	"github.com/lumine-ai/widget/pkg/channel"
)

// bridgeHub pairs bridge connections two at a time and relays channel
// messages between each pair, so a host page process and a widget process can
// share a cross-context channel through the server.
type bridgeHub struct {
	mu      sync.Mutex
	waiting *channel.BridgeEndpoint
}

// join registers an endpoint. The first endpoint waits; the second is wired
// to it and both relay to each other from then on. Messages sent before a
// peer arrives are dropped, per the channel contract.
func (h *bridgeHub) join(e *channel.BridgeEndpoint) {
	h.mu.Lock()
	peer := h.waiting
	if peer == nil {
		h.waiting = e
		h.mu.Unlock()
		return
	}
	h.waiting = nil
	h.mu.Unlock()

	e.OnMessage(peer.Send)
	peer.OnMessage(e.Send)
}

// BridgeHandler handles GET /bridge: it upgrades the connection to a channel
// bridge endpoint and pairs it with the next endpoint to arrive.
func (s *Server) BridgeHandler(w http.ResponseWriter, r *http.Request) {
	endpoint, err := channel.UpgradeBridge(w, r)
	if err != nil {
		log.Printf("[api] bridge upgrade failed: %v", err)
		return
	}
	s.bridge.join(endpoint)
}
