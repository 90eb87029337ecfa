package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayfare/wayfare/internal/bus"
	"github.com/wayfare/wayfare/pkg/itinerary"
	"github.com/wayfare/wayfare/pkg/user"
)

var ctx = user.WithUser(context.Background(), user.User{Id: 1, Uid: "traveler-1"})

func setupService(t *testing.T) (*ServiceImpl, *ClientStub, itinerary.Service, *bus.Bus) {
	client := NewClientStub()
	t.Cleanup(client.Cleanup)
	eventBus := bus.New()
	itineraries := itinerary.NewService(itinerary.NewRepositoryStub(), nil, eventBus, time.Hour)
	service := NewService(client, itineraries, eventBus)
	return service, client, itineraries, eventBus
}

func TestService_ListBookingsMergesKindsNewestFirst(t *testing.T) {
	service, client, _, _ := setupService(t)
	client.FlightSummaries = []Summary{{Id: "FL1", Kind: KindFlight, Date: "2024-05-03"}}
	client.HotelSummaries = []Summary{{Id: "HO1", Kind: KindHotel, Date: "2024-06-10"}}

	bookings, err := service.ListBookings(ctx)

	require.NoError(t, err)
	require.Len(t, bookings, 2)
	assert.Equal(t, "HO1", bookings[0].Id)
	assert.Equal(t, "FL1", bookings[1].Id)
}

func TestService_ImportFlightAddsSegmentEvents(t *testing.T) {
	service, client, itineraries, _ := setupService(t)
	client.Flights["FL1"] = itinerary.FlightBooking{
		BookingId:  "FL1",
		TotalPrice: 812.40,
		Legs: []itinerary.FlightLeg{
			{Segments: []itinerary.FlightSegment{
				{DepartureAirport: "LHR", ArrivalAirport: "JFK", DepartureAt: "2024-05-03T08:30:00", CarrierCode: "BA", FlightNumber: "117"},
				{DepartureAirport: "JFK", ArrivalAirport: "SFO", DepartureAt: "2024-05-03T14:00:00", CarrierCode: "BA", FlightNumber: "287"},
			}},
		},
	}

	added, err := service.ImportFlight(ctx, itinerary.ScopeMain, "FL1")

	require.NoError(t, err)
	assert.Equal(t, 2, added)
	schedule, err := itineraries.GetSchedule(ctx, itinerary.ScopeMain)
	require.NoError(t, err)
	assert.InDelta(t, 812.40, schedule.TotalCost, 0.001, "only the first segment carries the price")
}

func TestService_ImportFlightTwiceAddsNothing(t *testing.T) {
	service, client, _, _ := setupService(t)
	client.Flights["FL1"] = itinerary.FlightBooking{
		BookingId:  "FL1",
		TotalPrice: 200,
		Legs: []itinerary.FlightLeg{
			{Segments: []itinerary.FlightSegment{{DepartureAt: "2024-05-03T08:30:00"}}},
		},
	}

	first, err := service.ImportFlight(ctx, itinerary.ScopeMain, "FL1")
	require.NoError(t, err)
	second, err := service.ImportFlight(ctx, itinerary.ScopeMain, "FL1")
	require.NoError(t, err)

	assert.Equal(t, 1, first)
	assert.Equal(t, 0, second)
}

func TestService_ImportHotelPublishesConfirmation(t *testing.T) {
	service, client, _, eventBus := setupService(t)
	client.Hotels["HO1"] = itinerary.HotelBooking{
		BookingId:   "HO1",
		HotelName:   "Hotel Okura",
		CheckInDate: "2024-06-10",
		TotalPrice:  540,
	}

	var received []bus.BookingConfirmed
	eventBus.Subscribe(bus.TopicBookingConfirmed, func(event bus.Event) error {
		received = append(received, event.Data.(bus.BookingConfirmed))
		return nil
	})

	added, err := service.ImportHotel(ctx, itinerary.ScopeMain, "HO1")

	require.NoError(t, err)
	assert.Equal(t, 1, added)
	require.Len(t, received, 1)
	assert.Equal(t, "HO1", received[0].BookingId)
	assert.Equal(t, KindHotel, received[0].Kind)
	assert.Equal(t, "Hotel Okura", received[0].Summary)
	assert.Equal(t, 540.0, received[0].Total)
}

func TestService_ImportUnknownOrder(t *testing.T) {
	service, _, _, _ := setupService(t)

	_, err := service.ImportFlight(ctx, itinerary.ScopeMain, "missing")

	assert.ErrorIs(t, err, ErrBookingNotFound)
}
