package itinerary

// ScopeMain is the scope key of the traveler's personal schedule. Any other
// scope value is a trip id shared between accepted trip members.
const ScopeMain = "main"

type EventType string

const (
	EventTypeManual   EventType = "manual"
	EventTypeFlight   EventType = "flight"
	EventTypeHotel    EventType = "hotel"
	EventTypeActivity EventType = "activity"
)

// Event is a single scheduled entry of an itinerary.
//
// Cost is an amount in the itinerary's single implicit currency; no currency
// is tracked per event. Multi-currency accounting lives in the expense
// tracker, not here.
type Event struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Cost     float64   `json:"cost"`
	Date     string    `json:"date"` // ISO 8601 calendar date, e.g. "2024-05-01"
	Time     string    `json:"time"` // 24-hour local clock time, e.g. "10:00"
	Category string    `json:"category"`
	Type     EventType `json:"type"`
}

// sortKey composes date and time into a single lexicographically sortable
// instant. Date strings are ISO dates and times are zero-padded HH:MM, so
// plain string comparison orders correctly.
func (e Event) sortKey() string {
	return e.Date + "T" + e.Time
}

// Document is a stored itinerary: the full event collection of one
// (traveler, scope) pair plus the version stamp used for conditional writes.
// An absent document reads as an empty collection with version 0.
type Document struct {
	Events  []Event
	Version int64
}
