// Package planner owns the trip-planning session state: the chat history,
// streaming accumulation, incremental plan items, active/pending trip plans
// and the monotonic UI mode. It consumes chat stream events and exposes the
// command surface the widget shell drives.
package planner

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/lumine-ai/widget/pkg/chatstream"
	"github.com/lumine-ai/widget/pkg/session"
	"github.com/lumine-ai/widget/pkg/trip"
)

const (
	// sendRetryDelay is how long a send waits for a freshly requested
	// connection before its single best-effort retry.
	sendRetryDelay = 500 * time.Millisecond

	// reconnectDelay separates disconnect from reconnect on a session reset
	// so the old connection is fully torn down before a new session token is
	// negotiated.
	reconnectDelay = 300 * time.Millisecond

	tripFetchTimeout = 15 * time.Second
)

// transientErrorMarker matches backend errors that are expected during
// disconnect/reconnect races and never surface to the user.
const transientErrorMarker = "Not connected"

// Config wires a Planner to its collaborators.
type Config struct {
	Trips    trip.Service
	Sessions session.Provider

	// NewStream builds the chat stream client around the planner's event
	// handlers.
	NewStream func(chatstream.Handlers) chatstream.Client

	// After schedules fn after d. Defaults to time.AfterFunc; tests inject a
	// manual scheduler.
	After func(d time.Duration, fn func())
}

// Planner is the trip-planning state machine. All state mutation is
// serialized on an internal mutex because stream events arrive on the
// connection's reader goroutine while commands arrive from the UI.
type Planner struct {
	trips    trip.Service
	sessions session.Provider
	stream   chatstream.Client
	after    func(time.Duration, func())

	mu            sync.Mutex
	history       []ChatMessage
	streamingText strings.Builder
	planItems     []trip.PlanItem
	activePlan    *trip.Plan
	pendingPlan   *trip.Plan
	planConfirmed bool
	approvedByAI  bool
	suggestion    *chatstream.Suggestion
	loading       bool
	mode          TripUIMode
	fullContext   bool
	bookingState  BookingState
	selectedHotel *HotelCard
	tripContext   TripContext
	userIntent    UserIntent
	expanded      bool

	// generation counts session resets; trip fetches started under an older
	// generation discard their resolution instead of mutating fresh state.
	generation uint64
}

// New returns a Planner wired to its collaborators.
func New(cfg Config) *Planner {
	p := &Planner{
		trips:        cfg.Trips,
		sessions:     cfg.Sessions,
		after:        cfg.After,
		bookingState: BookingIdle,
	}
	if p.after == nil {
		p.after = func(d time.Duration, fn func()) { time.AfterFunc(d, fn) }
	}
	if cfg.NewStream == nil {
		p.stream = noopStream{}
	} else {
		p.stream = cfg.NewStream(p.handlers())
	}
	return p
}

// errNoStream is returned by the stand-in stream when no factory was
// configured.
var errNoStream = errors.New("no chat stream configured")

// noopStream stands in when Config.NewStream is absent: the planner degrades
// to a local-only conversation log instead of panicking in the constructor.
type noopStream struct{}

func (noopStream) Connect() error    { return errNoStream }
func (noopStream) Disconnect()       {}
func (noopStream) Send(string) error { return errNoStream }
func (noopStream) Connected() bool   { return false }

// handlers builds the stream event handler set.
func (p *Planner) handlers() chatstream.Handlers {
	return chatstream.Handlers{
		OnTyping:           p.handleTyping,
		OnChunk:            p.handleChunk,
		OnResponse:         p.handleResponse,
		OnTripPlan:         p.handleTripPlan,
		OnSuggestion:       p.handleSuggestion,
		OnPlanItem:         p.handlePlanItem,
		OnTripPlanReady:    p.handleTripPlanReady,
		OnError:            p.handleError,
		OnConnectionChange: p.handleConnectionChange,
	}
}

// --- Commands ---

// SendMessage appends a user message and dispatches it over the stream.
// Empty or whitespace-only text is ignored. When the connection is down the
// planner requests a connect and retries the send once after a short delay
// rather than queuing indefinitely.
func (p *Planner) SendMessage(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}

	p.mu.Lock()
	p.history = append(p.history, newMessage(SenderUser, KindText, text))
	p.mu.Unlock()

	if !p.stream.Connected() {
		log.Printf("[planner] not connected, connecting before send")
		if err := p.stream.Connect(); err != nil {
			log.Printf("[planner] connect failed: %v", err)
		}
		p.after(sendRetryDelay, func() {
			if err := p.stream.Send(text); err != nil {
				log.Printf("[planner] deferred send failed: %v", err)
				return
			}
			p.setLoading(true)
		})
		return
	}

	if err := p.stream.Send(text); err != nil {
		p.handleError(err.Error())
		return
	}
	p.setLoading(true)
}

// StartNewTrip resets every session entity to its initial state and forces a
// fresh streaming connection.
func (p *Planner) StartNewTrip() {
	log.Printf("[planner] starting new trip, resetting all state")

	p.mu.Lock()
	p.generation++
	p.history = nil
	p.streamingText.Reset()
	p.planItems = nil
	p.activePlan = nil
	p.pendingPlan = nil
	p.planConfirmed = false
	p.approvedByAI = false
	p.suggestion = nil
	p.loading = false
	p.mode = ModeIdle
	p.fullContext = false
	p.bookingState = BookingIdle
	p.selectedHotel = nil
	p.tripContext = TripContext{}
	p.userIntent = IntentNone
	p.mu.Unlock()

	// Reconnect after a delay so the old connection fully tears down before
	// a new session token is negotiated.
	p.stream.Disconnect()
	p.after(reconnectDelay, func() {
		if err := p.stream.Connect(); err != nil {
			log.Printf("[planner] reconnect failed: %v", err)
		}
	})
}

// ClearCurrentPlan drops plan state while keeping the conversation. The
// full-context flag survives because the same conversation continues toward a
// new plan.
func (p *Planner) ClearCurrentPlan() {
	log.Printf("[planner] clearing current plan")

	p.mu.Lock()
	defer p.mu.Unlock()
	p.activePlan = nil
	p.pendingPlan = nil
	p.planItems = nil
	p.planConfirmed = false
	p.approvedByAI = false
	p.mode = ModePlanning
	p.bookingState = BookingIdle
	p.selectedHotel = nil
}

// ConfirmPendingTrip promotes a recovered trip plan to active. The explicit
// user confirmation doubles as booking approval.
func (p *Planner) ConfirmPendingTrip() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pendingPlan == nil {
		return
	}
	log.Printf("[planner] confirming pending trip %s", p.pendingPlan.ID)
	p.activePlan = p.pendingPlan
	p.pendingPlan = nil
	p.planConfirmed = true
	p.fullContext = true
	p.approvedByAI = true
}

// DeclinePendingTrip discards a recovered trip plan and returns to idle.
func (p *Planner) DeclinePendingTrip() {
	log.Printf("[planner] declining pending trip")

	p.mu.Lock()
	defer p.mu.Unlock()
	p.generation++
	p.pendingPlan = nil
	p.activePlan = nil
	p.planConfirmed = false
	p.approvedByAI = false
	p.planItems = nil
	p.mode = ModeIdle
}

// SetTripUIMode moves the UI mode. Once full context is reached only forward
// moves are honored, except an explicit reset to idle; rejected moves keep
// the prior mode and are logged, not errored.
func (p *Planner) SetTripUIMode(mode TripUIMode) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fullContext && mode != ModeIdle && mode.Before(p.mode) {
		log.Printf("[planner] prevented UI mode downgrade from %s to %s", p.mode, mode)
		return
	}
	p.mode = mode
}

// SetExpanded couples connection lifetime to widget visibility: connect when
// the widget expands, disconnect when it collapses.
func (p *Planner) SetExpanded(expanded bool) {
	p.mu.Lock()
	p.expanded = expanded
	p.mu.Unlock()

	if expanded && !p.stream.Connected() {
		if err := p.stream.Connect(); err != nil {
			log.Printf("[planner] connect on expand failed: %v", err)
		}
	} else if !expanded && p.stream.Connected() {
		p.stream.Disconnect()
	}
}

// ApproveActiveTrip asks the backend to book the active plan and reports the
// booking into the conversation on success.
func (p *Planner) ApproveActiveTrip(ctx context.Context) error {
	p.mu.Lock()
	plan := p.activePlan
	p.mu.Unlock()

	if plan == nil {
		return errors.New("no active trip plan")
	}
	sessionID := p.sessionID()
	if sessionID == "" {
		return errors.New("no session available")
	}

	result, err := p.trips.ApproveTrip(ctx, plan.ID, sessionID)
	if err != nil {
		return fmt.Errorf("failed to approve trip: %w", err)
	}
	if result.Status == trip.StatusBooked || result.Status == trip.StatusConfirmed {
		p.SendMessage("Trip approved and booked successfully!")
	}
	return nil
}

// AddMessage appends an externally built message (e.g. a card stack from the
// presentation layer) to the history.
func (p *Planner) AddMessage(sender Sender, kind MessageKind, text string, opts ...func(*ChatMessage)) {
	msg := newMessage(sender, kind, text)
	for _, opt := range opts {
		opt(&msg)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.history = append(p.history, msg)
}

// WithOptions attaches selectable options to an added message.
func WithOptions(options []string) func(*ChatMessage) {
	return func(m *ChatMessage) { m.Options = options }
}

// WithCards attaches a card stack to an added message.
func WithCards(cards []HotelCard) func(*ChatMessage) {
	return func(m *ChatMessage) { m.Cards = cards }
}

// ClearChatHistory drops the conversation along with the streaming
// accumulator, the active plan and the current suggestion.
func (p *Planner) ClearChatHistory() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.history = nil
	p.activePlan = nil
	p.suggestion = nil
	p.streamingText.Reset()
}

// ClearPlanItems drops the incremental plan items.
func (p *Planner) ClearPlanItems() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.planItems = nil
}

// ClearCurrentSuggestion drops the standalone suggestion slot.
func (p *Planner) ClearCurrentSuggestion() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.suggestion = nil
}

// SetBookingState updates the booking flow stage.
func (p *Planner) SetBookingState(state BookingState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bookingState = state
}

// SetSelectedHotel records the card the user picked.
func (p *Planner) SetSelectedHotel(card *HotelCard) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.selectedHotel = card
}

// SetUserIntent records the inferred conversation goal.
func (p *Planner) SetUserIntent(intent UserIntent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.userIntent = intent
}

// UpdateTripContext merges non-zero fields of update into the trip context.
func (p *Planner) UpdateTripContext(update TripContext) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if update.Destination != "" {
		p.tripContext.Destination = update.Destination
	}
	if update.Dates != "" {
		p.tripContext.Dates = update.Dates
	}
	if update.Travelers != 0 {
		p.tripContext.Travelers = update.Travelers
	}
	if len(update.Preferences) > 0 {
		p.tripContext.Preferences = update.Preferences
	}
	if update.Budget != "" {
		p.tripContext.Budget = update.Budget
	}
}

// Logout tears down the connection and resets the session.
func (p *Planner) Logout() {
	log.Printf("[planner] logging out, cleaning up all state")
	p.stream.Disconnect()
	p.StartNewTrip()
}

// --- Stream event handlers ---

func (p *Planner) handleTyping(typing bool) {
	p.setLoading(typing)
}

func (p *Planner) handleChunk(chunk string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.streamingText.WriteString(chunk)
}

func (p *Planner) handleResponse(resp chatstream.Response) {
	p.mu.Lock()
	defer p.mu.Unlock()

	msg := newMessage(SenderAssistant, KindText, resp.Response)
	if len(resp.Questions) > 0 {
		msg.Kind = KindOptions
		msg.Options = resp.Questions
	}
	p.history = append(p.history, msg)
	p.streamingText.Reset()
	p.loading = false

	if resp.State == chatstream.ResponseStateSummaryReady {
		log.Printf("[planner] trip approved by AI, ready for booking")
		p.approvedByAI = true
	}
}

func (p *Planner) handleTripPlan(plan trip.Plan) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.setActivePlanLocked(&plan)
	msg := newMessage(SenderAssistant, KindTripPlan, "I've prepared your trip plan:")
	msg.TripPlan = &plan
	p.history = append(p.history, msg)
}

func (p *Planner) handleSuggestion(s chatstream.Suggestion) {
	// Only the suggestion slot updates; the accompanying response event
	// already narrates it in chat.
	p.mu.Lock()
	defer p.mu.Unlock()
	p.suggestion = &s
}

func (p *Planner) handlePlanItem(item trip.PlanItem) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, existing := range p.planItems {
		if existing.Equal(item) {
			return
		}
	}
	p.planItems = append(p.planItems, item)

	if p.mode == ModeIdle || p.mode == ModePlanning {
		p.mode = ModeBuilding
	}

	// Weather, experience and event items signal enough planning context to
	// stop regressing UI state.
	switch item.Type {
	case trip.CategoryWeather, trip.CategoryExperience, trip.CategoryEvent:
		p.fullContext = true
	}
}

func (p *Planner) handleTripPlanReady(ready chatstream.TripPlanReady) {
	log.Printf("[planner] trip plan ready: %s (%s)", ready.TripPlanID, ready.Destination)

	p.mu.Lock()
	gen := p.generation
	p.mu.Unlock()

	go p.fetchReadyTrip(ready.TripPlanID, gen)
}

// fetchReadyTrip pulls the full plan announced by a trip-plan-ready event and
// classifies it as active or pending. A failed fetch never interrupts the
// chat flow.
func (p *Planner) fetchReadyTrip(tripID string, gen uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), tripFetchTimeout)
	defer cancel()

	plan, err := p.trips.GetTrip(ctx, tripID, p.sessionID())

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.generation != gen {
		log.Printf("[planner] discarding stale trip fetch for %s", tripID)
		return
	}

	if err != nil {
		if errors.Is(err, trip.ErrAccessDenied) {
			// Stale or foreign reference; drop any pending plan silently.
			log.Printf("[planner] access denied to trip %s, ignoring stale reference", tripID)
			p.pendingPlan = nil
			return
		}
		log.Printf("[planner] failed to fetch trip %s: %v", tripID, err)
		return
	}

	var userMessages []string
	for _, msg := range p.history {
		if msg.Sender == SenderUser {
			userMessages = append(userMessages, msg.Text)
		}
	}

	if IsMeaningfulConversation(userMessages) {
		// Created during the current conversation: activate directly.
		log.Printf("[planner] setting active trip plan %s (active conversation)", plan.ID)
		p.setActivePlanLocked(plan)
		p.planConfirmed = true
	} else {
		// Leftover from a previous session: park until the user confirms.
		log.Printf("[planner] setting pending trip plan %s (no active conversation)", plan.ID)
		p.pendingPlan = plan
	}

	// The full snapshot supersedes the incremental fragments.
	p.planItems = nil
}

func (p *Planner) handleError(errText string) {
	if strings.Contains(errText, transientErrorMarker) {
		log.Printf("[planner] ignoring temporary connection error")
		p.setLoading(false)
		return
	}

	log.Printf("[planner] stream error: %s", errText)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.history = append(p.history, newMessage(SenderAssistant, KindText,
		fmt.Sprintf("Sorry, there was an error: %s. Please try again.", errText)))
	p.loading = false
}

func (p *Planner) handleConnectionChange(connected bool) {
	if !connected {
		// A drop mid-response must not leave the spinner on forever.
		p.setLoading(false)
	}
}

// setActivePlanLocked installs plan as the active plan. A plan the backend
// already booked carries its own approval.
func (p *Planner) setActivePlanLocked(plan *trip.Plan) {
	p.activePlan = plan
	if plan != nil && plan.Approved() {
		p.approvedByAI = true
	}
}

func (p *Planner) setLoading(loading bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loading = loading
}

func (p *Planner) sessionID() string {
	if p.sessions == nil {
		return ""
	}
	return p.sessions.SessionID()
}

// --- Accessors ---

// History returns a copy of the chat history in display order.
func (p *Planner) History() []ChatMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]ChatMessage, len(p.history))
	copy(out, p.history)
	return out
}

// StreamingText returns the live streaming accumulator.
func (p *Planner) StreamingText() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.streamingText.String()
}

// PlanItems returns a copy of the incremental plan items.
func (p *Planner) PlanItems() []trip.PlanItem {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]trip.PlanItem, len(p.planItems))
	copy(out, p.planItems)
	return out
}

// ActivePlan returns the active trip plan, or nil.
func (p *Planner) ActivePlan() *trip.Plan {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.activePlan
}

// PendingPlan returns the recovered plan awaiting confirmation, or nil.
func (p *Planner) PendingPlan() *trip.Plan {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pendingPlan
}

// HasPendingTrip reports whether a recovered plan awaits user confirmation.
func (p *Planner) HasPendingTrip() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pendingPlan != nil && !p.planConfirmed
}

// PlanConfirmed reports whether the active plan carries confirmed intent,
// either because it was created during this conversation or because the user
// confirmed a recovered plan.
func (p *Planner) PlanConfirmed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.planConfirmed
}

// ApprovedByAI reports whether booking is unlocked.
func (p *Planner) ApprovedByAI() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.approvedByAI
}

// Suggestion returns the current standalone suggestion, or nil.
func (p *Planner) Suggestion() *chatstream.Suggestion {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.suggestion
}

// Loading reports whether an assistant response is in flight.
func (p *Planner) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

// Mode returns the current trip UI mode.
func (p *Planner) Mode() TripUIMode {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mode
}

// FullContext reports whether the downgrade guard is armed.
func (p *Planner) FullContext() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fullContext
}

// BookingStage returns the booking flow stage.
func (p *Planner) BookingStage() BookingState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.bookingState
}

// SelectedHotel returns the picked card, or nil.
func (p *Planner) SelectedHotel() *HotelCard {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.selectedHotel
}

// CurrentTripContext returns what is known about the trip being discussed.
func (p *Planner) CurrentTripContext() TripContext {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tripContext
}

// Intent returns the inferred conversation goal.
func (p *Planner) Intent() UserIntent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.userIntent
}

// Expanded reports whether the widget is currently visible.
func (p *Planner) Expanded() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.expanded
}

// Connected reports whether the chat stream is open.
func (p *Planner) Connected() bool {
	return p.stream.Connected()
}
