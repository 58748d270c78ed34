// Package widget implements the shell controller of the embedded document:
// it decodes theme and branding from the widget URL, owns the embedded side
// of the cross-context channel, and couples widget visibility to the
// planner's connection lifecycle.
package widget

import (
	"net/url"
	"sync"

	"github.com/lumine-ai/widget/pkg/branding"
	"github.com/lumine-ai/widget/pkg/channel"
	"github.com/lumine-ai/widget/pkg/planner"
	"github.com/lumine-ai/widget/pkg/theme"
)

// View selects the embedded document layout.
type View string

const (
	ViewChat      View = "chat"
	ViewDashboard View = "dashboard"
)

// Shell is the embedded-document controller.
type Shell struct {
	endpoint channel.Endpoint
	planner  *planner.Planner

	mu         sync.Mutex
	theme      theme.Theme
	branding   branding.Config
	view       View
	searchSeed string
	exitPrompt bool
}

// NewShell builds the shell from the widget document URL (which carries theme
// and branding as query parameters) and starts listening for host messages.
func NewShell(endpoint channel.Endpoint, p *planner.Planner, rawURL string) *Shell {
	s := &Shell{
		endpoint: endpoint,
		planner:  p,
		theme:    theme.Dark,
		view:     ViewChat,
	}

	if u, err := url.Parse(rawURL); err == nil {
		query := u.Query()
		if t := theme.Theme(query.Get("theme")); t.Valid() {
			s.theme = t
		}
		s.branding = branding.FromValues(query).WithDefaults()
	} else {
		s.branding = branding.Config{}.WithDefaults()
	}

	endpoint.OnMessage(s.handleMessage)
	return s
}

// handleMessage reacts to host-originated messages; unknown types are other
// consumers' traffic and are ignored. Handlers are idempotent because the
// channel can duplicate or reorder messages.
func (s *Shell) handleMessage(msg channel.Message) {
	switch msg.Type {
	case channel.TypeThemeChange:
		if t := theme.Theme(msg.Theme); t.Valid() {
			s.mu.Lock()
			s.theme = t
			s.mu.Unlock()
		}
	case channel.TypeWidgetToggle:
		s.planner.SetExpanded(msg.IsOpen)
	case channel.TypeWidgetSearch:
		if msg.Query != "" {
			s.mu.Lock()
			s.searchSeed = msg.Query
			s.mu.Unlock()
		}
	}
}

// Theme returns the theme currently applied to the embedded document.
func (s *Shell) Theme() theme.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

// Branding returns the decoded branding configuration.
func (s *Shell) Branding() branding.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.branding
}

// CurrentView returns the active layout.
func (s *Shell) CurrentView() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// ConsumeSearchSeed returns the pending seeded search query, clearing it.
// Returns "" when no search is pending.
func (s *Shell) ConsumeSearchSeed() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	seed := s.searchSeed
	s.searchSeed = ""
	return seed
}

// ToggleView switches between chat and dashboard layouts and asks the host to
// resize the container accordingly.
func (s *Shell) ToggleView() {
	s.mu.Lock()
	if s.view == ViewChat {
		s.view = ViewDashboard
	} else {
		s.view = ViewChat
	}
	mode := channel.ModeStandard
	if s.view == ViewDashboard {
		mode = channel.ModeFullscreen
	}
	s.mu.Unlock()

	s.endpoint.Send(channel.Message{Type: channel.TypeWidgetMode, Mode: mode})
}

// RequestClose closes the widget, but holds for an exit confirmation when a
// live conversation would be abandoned mid-booking.
func (s *Shell) RequestClose() {
	stage := s.planner.BookingStage()
	abandoning := len(s.planner.History()) > 0 &&
		stage != planner.BookingConfirmed && stage != planner.BookingPostBooking

	if abandoning {
		s.mu.Lock()
		s.exitPrompt = true
		s.mu.Unlock()
		return
	}
	s.endpoint.Send(channel.Message{Type: channel.TypeWidgetClose})
}

// ExitPromptShown reports whether the exit confirmation is up.
func (s *Shell) ExitPromptShown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exitPrompt
}

// ConfirmExit dismisses the exit prompt and closes the widget.
func (s *Shell) ConfirmExit() {
	s.mu.Lock()
	s.exitPrompt = false
	s.mu.Unlock()
	s.endpoint.Send(channel.Message{Type: channel.TypeWidgetClose})
}

// CancelExit dismisses the exit prompt and keeps the widget open.
func (s *Shell) CancelExit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exitPrompt = false
}
