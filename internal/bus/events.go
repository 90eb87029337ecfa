package bus

const (
	// TopicItinerarySaved is published after an itinerary document has been
	// successfully written to the store.
	TopicItinerarySaved Topic = "itinerary.saved"
	// TopicBookingConfirmed is published when a confirmed booking has been
	// merged into an itinerary.
	TopicBookingConfirmed Topic = "booking.confirmed"
)

// ItinerarySaved is the payload for TopicItinerarySaved.
type ItinerarySaved struct {
	UserId     int
	Scope      string
	EventCount int
	Version    int64
}

// BookingConfirmed is the payload for TopicBookingConfirmed.
type BookingConfirmed struct {
	UserId    int
	Scope     string
	BookingId string
	Kind      string // "flight" or "hotel"
	Summary   string
	Total     float64
}
