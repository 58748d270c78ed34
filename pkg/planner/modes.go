package planner

import "fmt"

// TripUIMode tracks the stage of the trip-planning UI. Modes form a strict
// total order; once the conversation reaches full context the mode only moves
// forward (or is explicitly reset to idle).
type TripUIMode int

const (
	ModeIdle TripUIMode = iota
	ModePlanning
	ModeBuilding
	ModeReady
	ModeReviewing
	ModeBooked
)

var modeNames = map[TripUIMode]string{
	ModeIdle:      "idle",
	ModePlanning:  "planning",
	ModeBuilding:  "building",
	ModeReady:     "ready",
	ModeReviewing: "reviewing",
	ModeBooked:    "booked",
}

func (m TripUIMode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("TripUIMode(%d)", int(m))
}

// Before reports whether m precedes other in the progression. This is the
// single comparison the downgrade guard uses.
func (m TripUIMode) Before(other TripUIMode) bool { return m < other }

// ParseTripUIMode maps a mode name to its TripUIMode.
func ParseTripUIMode(s string) (TripUIMode, error) {
	for mode, name := range modeNames {
		if name == s {
			return mode, nil
		}
	}
	return ModeIdle, fmt.Errorf("unknown trip UI mode %q", s)
}

// BookingState tracks progress through the booking flow.
type BookingState string

const (
	BookingIdle        BookingState = "idle"
	BookingSummary     BookingState = "summary"
	BookingCheckout    BookingState = "checkout"
	BookingConfirmed   BookingState = "confirmed"
	BookingPostBooking BookingState = "post-booking"
)

// UserIntent is the coarse goal inferred for the current conversation.
type UserIntent string

const (
	IntentNone     UserIntent = ""
	IntentPlanning UserIntent = "planning"
	IntentBrowsing UserIntent = "browsing"
	IntentBooking  UserIntent = "booking"
)

// TripContext accumulates what is known about the trip being discussed.
type TripContext struct {
	Destination string
	Dates       string
	Travelers   int
	Preferences []string
	Budget      string
}
