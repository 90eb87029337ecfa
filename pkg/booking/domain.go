package booking

import (
	"strconv"

	"github.com/wayfare/wayfare/pkg/itinerary"
)

const (
	KindFlight = "flight"
	KindHotel  = "hotel"
)

// Summary is the thin listing view of a confirmed booking, regardless of kind.
type Summary struct {
	Id       string
	Kind     string
	Title    string
	Date     string
	Total    float64
	Currency string
}

// Provider wire shapes. The provider wraps every collection in a "data"
// envelope and serializes money as strings.

type priceWire struct {
	Total    string `json:"total"`
	Currency string `json:"currency"`
}

type airportWire struct {
	IataCode string `json:"iataCode"`
	At       string `json:"at"`
}

type segmentWire struct {
	Departure   airportWire `json:"departure"`
	Arrival     airportWire `json:"arrival"`
	CarrierCode string      `json:"carrierCode"`
	Number      string      `json:"number"`
}

type flightLegWire struct {
	Segments []segmentWire `json:"segments"`
}

type flightOrderWire struct {
	Id          string          `json:"id"`
	Price       priceWire       `json:"price"`
	Itineraries []flightLegWire `json:"itineraries"`
}

type hotelWire struct {
	Name string `json:"name"`
}

type hotelOrderWire struct {
	Id          string    `json:"id"`
	Hotel       hotelWire `json:"hotel"`
	CheckInDate string    `json:"checkInDate"`
	CheckInTime string    `json:"checkInTime"`
	Price       priceWire `json:"price"`
}

// parseAmount tolerates the provider's string-encoded money; unparseable
// values become 0 rather than failing the booking.
func parseAmount(s string) float64 {
	amount, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return amount
}

func flightOrderToBooking(order flightOrderWire) itinerary.FlightBooking {
	booking := itinerary.FlightBooking{
		BookingId:  order.Id,
		TotalPrice: parseAmount(order.Price.Total),
	}
	for _, leg := range order.Itineraries {
		var segments []itinerary.FlightSegment
		for _, segment := range leg.Segments {
			segments = append(segments, itinerary.FlightSegment{
				DepartureAirport: segment.Departure.IataCode,
				ArrivalAirport:   segment.Arrival.IataCode,
				DepartureAt:      segment.Departure.At,
				CarrierCode:      segment.CarrierCode,
				FlightNumber:     segment.Number,
			})
		}
		booking.Legs = append(booking.Legs, itinerary.FlightLeg{Segments: segments})
	}
	return booking
}

func hotelOrderToBooking(order hotelOrderWire) itinerary.HotelBooking {
	return itinerary.HotelBooking{
		BookingId:   order.Id,
		HotelName:   order.Hotel.Name,
		CheckInDate: order.CheckInDate,
		CheckInTime: order.CheckInTime,
		TotalPrice:  parseAmount(order.Price.Total),
	}
}

func flightOrderToSummary(order flightOrderWire) Summary {
	summary := Summary{
		Id:       order.Id,
		Kind:     KindFlight,
		Title:    "Flight booking " + order.Id,
		Total:    parseAmount(order.Price.Total),
		Currency: order.Price.Currency,
	}
	if len(order.Itineraries) > 0 && len(order.Itineraries[0].Segments) > 0 {
		first := order.Itineraries[0].Segments[0]
		if len(first.Departure.At) >= 10 {
			summary.Date = first.Departure.At[:10]
		}
		if first.Departure.IataCode != "" {
			summary.Title = "Flight " + first.Departure.IataCode
			if last := lastSegment(order.Itineraries); last.Arrival.IataCode != "" {
				summary.Title += " - " + last.Arrival.IataCode
			}
		}
	}
	return summary
}

func lastSegment(legs []flightLegWire) segmentWire {
	for i := len(legs) - 1; i >= 0; i-- {
		if n := len(legs[i].Segments); n > 0 {
			return legs[i].Segments[n-1]
		}
	}
	return segmentWire{}
}

func hotelOrderToSummary(order hotelOrderWire) Summary {
	title := order.Hotel.Name
	if title == "" {
		title = "Hotel booking " + order.Id
	}
	return Summary{
		Id:       order.Id,
		Kind:     KindHotel,
		Title:    title,
		Date:     order.CheckInDate,
		Total:    parseAmount(order.Price.Total),
		Currency: order.Price.Currency,
	}
}
