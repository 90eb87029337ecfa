package itinerary

import "fmt"

// Booking shapes as handed over by the booking feature after it has flattened
// the provider-specific JSON. Normalization is deliberately lenient: live
// provider responses vary, so missing pieces are skipped instead of failing
// the whole conversion.

type FlightSegment struct {
	DepartureAirport string
	ArrivalAirport   string
	DepartureAt      string // ISO 8601 timestamp, e.g. "2024-05-03T08:30:00"
	CarrierCode      string
	FlightNumber     string
}

type FlightLeg struct {
	Segments []FlightSegment
}

type FlightBooking struct {
	BookingId  string
	TotalPrice float64
	Legs       []FlightLeg
}

type HotelBooking struct {
	BookingId   string
	HotelName   string
	CheckInDate string // ISO 8601 calendar date
	CheckInTime string // optional, "HH:MM"
	TotalPrice  float64
}

// hotelDefaultCheckInTime is used when the booking carries no explicit
// check-in time.
const hotelDefaultCheckInTime = "15:00"

// FlightEvents converts a flight booking into one event per segment.
//
// The booking's total price is attributed entirely to the first segment of
// the first leg; every other segment gets cost 0. A sum over the resulting
// events therefore equals the booking total exactly once. Event ids are
// derived from the booking id and the leg/segment position, so re-adding the
// same booking produces the same ids and can be deduplicated on merge.
func FlightEvents(booking FlightBooking) []Event {
	var events []Event
	for legIdx, leg := range booking.Legs {
		for segIdx, segment := range leg.Segments {
			date, clock := splitTimestamp(segment.DepartureAt)
			cost := 0.0
			if legIdx == 0 && segIdx == 0 {
				cost = booking.TotalPrice
			}
			events = append(events, Event{
				ID:       fmt.Sprintf("flight:%s:%d-%d", booking.BookingId, legIdx, segIdx),
				Name:     segmentName(segment),
				Cost:     cost,
				Date:     date,
				Time:     clock,
				Category: segment.CarrierCode + segment.FlightNumber,
				Type:     EventTypeFlight,
			})
		}
	}
	return events
}

// HotelEvent converts a hotel booking into a single check-in event, costed at
// the booking's total price. Missing check-in times default to 15:00.
func HotelEvent(booking HotelBooking) Event {
	name := "Hotel check-in"
	if booking.HotelName != "" {
		name = "Check-in: " + booking.HotelName
	}
	checkInTime := booking.CheckInTime
	if checkInTime == "" {
		checkInTime = hotelDefaultCheckInTime
	}
	return Event{
		ID:       "hotel:" + booking.BookingId,
		Name:     name,
		Cost:     booking.TotalPrice,
		Date:     booking.CheckInDate,
		Time:     checkInTime,
		Category: "Hotel Booking",
		Type:     EventTypeHotel,
	}
}

func segmentName(segment FlightSegment) string {
	if segment.DepartureAirport == "" && segment.ArrivalAirport == "" {
		return "Flight"
	}
	return fmt.Sprintf("Flight %s - %s", segment.DepartureAirport, segment.ArrivalAirport)
}

// splitTimestamp extracts the date and HH:MM parts of an ISO 8601 timestamp
// without validating it; malformed timestamps yield empty parts rather than
// an error.
func splitTimestamp(ts string) (date string, clock string) {
	if len(ts) >= 10 {
		date = ts[:10]
	}
	if len(ts) >= 16 {
		clock = ts[11:16]
	}
	return date, clock
}
