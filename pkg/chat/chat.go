package chat

// Message is a single chat message in a trip's conversation.
type Message struct {
	Id          int
	TripId      string
	UserId      int
	DisplayName string
	Body        string
	SentAt      string // RFC 3339 timestamp
}
