package notification

const KindBookingConfirmed = "booking_confirmed"

// Notification is an in-app message shown to a single user.
type Notification struct {
	Id        int
	UserId    int
	Kind      string
	Title     string
	Body      string
	CreatedAt string // RFC 3339 timestamp
	ReadAt    string // empty while unread
}
