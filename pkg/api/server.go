// Package api exposes the widget server: the embed loader script, the widget
// bootstrap configuration, the trip endpoints and the dev chat stream.
package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/lumine-ai/widget/pkg/branding"
)

// Server serves the widget endpoints.
type Server struct {
	router     *mux.Router
	httpServer *http.Server
	branding   branding.Config
	publicURL  string
	store      *TripStore
	bridge     *bridgeHub
}

// NewServer builds the server for the given branding. publicURL is the
// externally visible base URL baked into the loader script.
func NewServer(port int, publicURL string, b branding.Config) *Server {
	s := &Server{
		router:    mux.NewRouter(),
		branding:  b.WithDefaults(),
		publicURL: publicURL,
		store:     NewTripStore(),
		bridge:    &bridgeHub{},
	}
	s.registerRoutes()
	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.router,
	}
	return s
}

func (s *Server) registerRoutes() {
	s.router.HandleFunc("/embed.js", s.EmbedScriptHandler).Methods("GET")
	s.router.HandleFunc("/api/widget/bootstrap", s.BootstrapHandler).Methods("GET")
	s.router.HandleFunc("/api/trips/{id}", s.GetTripHandler).Methods("GET")
	s.router.HandleFunc("/api/trips/{id}/approve", s.ApproveTripHandler).Methods("POST")
	s.router.HandleFunc("/widget", s.WidgetPageHandler).Methods("GET")
	s.router.HandleFunc("/ws", s.ChatStreamHandler)
	s.router.HandleFunc("/bridge", s.BridgeHandler)
}

// Router exposes the route table, mainly for tests.
func (s *Server) Router() *mux.Router {
	return s.router
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Printf("Lumine widget server listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}
