package trip

import (
	"bytes"
	"encoding/json"
)

// Status is the lifecycle state of a trip plan as reported by the backend.
type Status string

const (
	StatusDraft        Status = "draft"
	StatusSummaryReady Status = "summary_ready"
	StatusBooked       Status = "booked"
	StatusConfirmed    Status = "confirmed"
	StatusCancelled    Status = "cancelled"
)

// Plan is a full trip plan snapshot.
type Plan struct {
	ID          string  `json:"id"`
	Destination string  `json:"destination"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	TotalPrice  float64 `json:"total_price"`
	Currency    string  `json:"currency"`
	Status      Status  `json:"status"`
}

// Approved reports whether the backend considers the plan booked.
func (p *Plan) Approved() bool {
	return p.Status == StatusBooked || p.Status == StatusConfirmed
}

// Category tags an incremental plan item.
type Category string

const (
	CategoryWeather    Category = "weather"
	CategoryFlight     Category = "flight"
	CategoryHotel      Category = "hotel"
	CategoryExperience Category = "experience"
	CategoryEvent      Category = "event"
	CategoryAttraction Category = "attraction"
	CategoryTransport  Category = "transport"
	CategoryOther      Category = "other"
)

// PlanItem is one incremental, categorized fragment of a trip plan delivered
// before the full plan is ready. Data is opaque to the widget.
type PlanItem struct {
	Type Category        `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Equal reports whether two items carry the same category and payload.
// Payloads are compared after JSON compaction so formatting differences in
// re-delivered events do not defeat deduplication.
func (i PlanItem) Equal(other PlanItem) bool {
	if i.Type != other.Type {
		return false
	}
	return bytes.Equal(compactJSON(i.Data), compactJSON(other.Data))
}

func compactJSON(data []byte) []byte {
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return data
	}
	return buf.Bytes()
}
