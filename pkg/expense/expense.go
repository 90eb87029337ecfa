package expense

// Expense is a single spend recorded by a traveler, either personal or
// attached to a trip. Amount is kept in the currency it was paid in.
type Expense struct {
	Id       int
	UserId   int
	TripId   string // empty for personal expenses
	Name     string
	Amount   float64
	Currency string
	Category string
	SpentOn  string // ISO 8601 calendar date
}

// Report is a list of expenses with the total expressed in a single currency.
type Report struct {
	Expenses      []Expense
	Total         float64
	TotalCurrency string
}
