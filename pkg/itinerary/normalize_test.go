package itinerary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoLegBooking() FlightBooking {
	return FlightBooking{
		BookingId:  "BK123",
		TotalPrice: 300,
		Legs: []FlightLeg{
			{Segments: []FlightSegment{
				{DepartureAirport: "LHR", ArrivalAirport: "JFK", DepartureAt: "2024-05-03T08:30:00", CarrierCode: "BA", FlightNumber: "117"},
				{DepartureAirport: "JFK", ArrivalAirport: "SFO", DepartureAt: "2024-05-03T14:45:00", CarrierCode: "BA", FlightNumber: "287"},
			}},
		},
	}
}

func TestFlightEvents_OneEventPerSegment(t *testing.T) {
	events := FlightEvents(twoLegBooking())

	require.Len(t, events, 2)
	assert.Equal(t, "Flight LHR - JFK", events[0].Name)
	assert.Equal(t, "2024-05-03", events[0].Date)
	assert.Equal(t, "08:30", events[0].Time)
	assert.Equal(t, "BA117", events[0].Category)
	assert.Equal(t, EventTypeFlight, events[0].Type)
}

func TestFlightEvents_TotalPriceAttributedToFirstSegmentOnly(t *testing.T) {
	booking := FlightBooking{
		BookingId:  "BK456",
		TotalPrice: 800,
		Legs: []FlightLeg{
			{Segments: []FlightSegment{
				{DepartureAt: "2024-06-01T07:00:00"},
				{DepartureAt: "2024-06-01T11:00:00"},
			}},
			{Segments: []FlightSegment{
				{DepartureAt: "2024-06-10T18:00:00"},
			}},
		},
	}

	events := FlightEvents(booking)

	require.Len(t, events, 3)
	total := 0.0
	for _, e := range events {
		total += e.Cost
	}
	assert.InDelta(t, 800, total, 0.001)
	assert.InDelta(t, 800, events[0].Cost, 0.001)
	assert.Zero(t, events[1].Cost)
	assert.Zero(t, events[2].Cost)
}

func TestFlightEvents_DeterministicIds(t *testing.T) {
	first := FlightEvents(twoLegBooking())
	second := FlightEvents(twoLegBooking())

	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Equal(t, "flight:BK123:0-0", first[0].ID)
	assert.Equal(t, "flight:BK123:0-1", first[1].ID)
}

func TestFlightEvents_ToleratesMissingData(t *testing.T) {
	booking := FlightBooking{
		BookingId: "BK789",
		Legs: []FlightLeg{
			{Segments: []FlightSegment{
				{DepartureAt: "garbage"},
			}},
			{Segments: nil},
		},
	}

	events := FlightEvents(booking)

	require.Len(t, events, 1)
	assert.Empty(t, events[0].Date)
	assert.Empty(t, events[0].Time)
	assert.Equal(t, "Flight", events[0].Name)
}

func TestFlightEvents_NoLegs(t *testing.T) {
	assert.Empty(t, FlightEvents(FlightBooking{BookingId: "BK000"}))
}

func TestHotelEvent_DefaultsCheckInTime(t *testing.T) {
	event := HotelEvent(HotelBooking{
		BookingId:   "HB1",
		HotelName:   "Hotel Mira",
		CheckInDate: "2024-05-03",
		TotalPrice:  540,
	})

	assert.Equal(t, "15:00", event.Time)
	assert.Equal(t, "hotel:HB1", event.ID)
	assert.Equal(t, "Check-in: Hotel Mira", event.Name)
	assert.Equal(t, "Hotel Booking", event.Category)
	assert.InDelta(t, 540, event.Cost, 0.001)
}

func TestHotelEvent_KeepsExplicitCheckInTime(t *testing.T) {
	event := HotelEvent(HotelBooking{BookingId: "HB2", CheckInDate: "2024-05-03", CheckInTime: "12:30"})

	assert.Equal(t, "12:30", event.Time)
}

func TestHotelEvent_ToleratesMissingPrice(t *testing.T) {
	event := HotelEvent(HotelBooking{BookingId: "HB3", CheckInDate: "2024-05-03"})

	assert.Zero(t, event.Cost)
	assert.Equal(t, "Hotel check-in", event.Name)
}
