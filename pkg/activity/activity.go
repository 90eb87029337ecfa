package activity

// Activity is a point-of-interest suggestion from the activities provider.
type Activity struct {
	Id       string
	Name     string
	Category string
	Price    float64
	Currency string
	Location string
}
