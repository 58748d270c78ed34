// Package host implements the launcher controller living in the host page:
// it owns the host side of the cross-context channel, the open/close state of
// the widget container, theme detection, and the programmatic API exposed to
// the embedding site.
package host

import (
	"log"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/lumine-ai/widget/pkg/branding"
	"github.com/lumine-ai/widget/pkg/channel"
	"github.com/lumine-ai/widget/pkg/theme"
)

// searchDispatchDelay gives the widget time to finish its open transition
// before a queued search is dispatched. If the message still races the open
// it is simply dropped; the failure mode is an empty search box.
const searchDispatchDelay = 500 * time.Millisecond

// Config wires a Controller to its environment.
type Config struct {
	Endpoint  channel.Endpoint
	Branding  branding.Config
	WidgetURL string // base URL of the embedded widget document

	// Document snapshots the host document state for theme detection.
	Document func() theme.DocumentState

	// After schedules fn after d. Defaults to time.AfterFunc.
	After func(d time.Duration, fn func())
}

// Controller is the host-page launcher. It is constructed once at startup
// and passed to anything needing it; there is no ambient singleton.
type Controller struct {
	endpoint  channel.Endpoint
	branding  branding.Config
	widgetURL string
	document  func() theme.DocumentState
	after     func(time.Duration, func())

	mu         sync.Mutex
	isOpen     bool
	fullscreen bool
	theme      theme.Theme
}

// NewController builds the launcher, detects the initial theme and starts
// listening for widget messages.
func NewController(cfg Config) *Controller {
	c := &Controller{
		endpoint:  cfg.Endpoint,
		branding:  cfg.Branding.WithDefaults(),
		widgetURL: cfg.WidgetURL,
		document:  cfg.Document,
		after:     cfg.After,
	}
	if c.after == nil {
		c.after = func(d time.Duration, fn func()) { time.AfterFunc(d, fn) }
	}
	if c.document == nil {
		c.document = func() theme.DocumentState { return theme.DocumentState{} }
	}
	c.theme = theme.Detect(c.document())
	c.endpoint.OnMessage(c.handleMessage)
	return c
}

// handleMessage reacts to widget-originated control messages. Unknown types
// are other consumers' traffic and are ignored.
func (c *Controller) handleMessage(msg channel.Message) {
	switch msg.Type {
	case channel.TypeWidgetClose:
		c.Close()
	case channel.TypeWidgetMode:
		c.mu.Lock()
		c.fullscreen = msg.Mode == channel.ModeFullscreen
		c.mu.Unlock()
	}
}

// Open shows the widget. Idempotent when already open.
func (c *Controller) Open() {
	c.mu.Lock()
	if c.isOpen {
		c.mu.Unlock()
		return
	}
	c.isOpen = true
	c.mu.Unlock()

	c.endpoint.Send(channel.Message{Type: channel.TypeWidgetToggle, IsOpen: true})
}

// Close hides the widget and resets fullscreen. Idempotent when already
// closed.
func (c *Controller) Close() {
	c.mu.Lock()
	if !c.isOpen {
		c.mu.Unlock()
		return
	}
	c.isOpen = false
	c.fullscreen = false
	c.mu.Unlock()

	c.endpoint.Send(channel.Message{Type: channel.TypeWidgetToggle, IsOpen: false})
}

// Toggle flips the open state.
func (c *Controller) Toggle() {
	c.mu.Lock()
	open := c.isOpen
	c.mu.Unlock()
	if open {
		c.Close()
	} else {
		c.Open()
	}
}

// Search opens the widget if needed, then dispatches the query after a fixed
// delay so the open transition can finish first.
func (c *Controller) Search(query string) {
	if strings.TrimSpace(query) == "" {
		return
	}
	c.Open()
	c.after(searchDispatchDelay, func() {
		c.endpoint.Send(channel.Message{Type: channel.TypeWidgetSearch, Query: query})
	})
}

// HandleSearchEvent forwards a host-page custom event payload into Search,
// letting host pages trigger search from their own UI without direct API
// access.
func (c *Controller) HandleSearchEvent(detail map[string]string) {
	if query := detail["query"]; query != "" {
		c.Search(query)
	}
}

// ObserveMutation is invoked on host DOM attribute mutations. It recomputes
// the effective theme, re-applies the launcher theme class and pushes a
// theme-change message; it never restarts the connection.
func (c *Controller) ObserveMutation() {
	detected := theme.Detect(c.document())

	c.mu.Lock()
	changed := detected != c.theme
	c.theme = detected
	c.mu.Unlock()

	if changed {
		log.Printf("[host] theme changed to %s", detected)
	}
	c.endpoint.Send(channel.Message{Type: channel.TypeThemeChange, Theme: string(detected)})
}

// Theme returns the currently detected host theme.
func (c *Controller) Theme() theme.Theme {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.theme
}

// LauncherThemeClass returns the CSS class the launcher carries for the
// current theme.
func (c *Controller) LauncherThemeClass() string {
	if c.Theme() == theme.Dark {
		return "dark-theme"
	}
	return "light-theme"
}

// IsOpen reports whether the widget container is shown.
func (c *Controller) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isOpen
}

// Fullscreen reports whether the widget container fills the viewport.
func (c *Controller) Fullscreen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fullscreen
}

// WidgetSrc builds the embedded document URL carrying the detected theme and
// the branding as query parameters.
func (c *Controller) WidgetSrc() string {
	values := c.branding.Values()
	values.Set("theme", string(c.Theme()))

	base, err := url.Parse(c.widgetURL)
	if err != nil {
		return c.widgetURL
	}
	base.RawQuery = values.Encode()
	return base.String()
}
