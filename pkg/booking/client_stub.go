package booking

import (
	"context"

	"github.com/wayfare/wayfare/pkg/itinerary"
)

type ClientStub struct {
	FlightSummaries []Summary
	HotelSummaries  []Summary
	Flights         map[string]itinerary.FlightBooking
	Hotels          map[string]itinerary.HotelBooking
}

func NewClientStub() *ClientStub {
	return &ClientStub{
		Flights: map[string]itinerary.FlightBooking{},
		Hotels:  map[string]itinerary.HotelBooking{},
	}
}

func (s *ClientStub) ListFlightOrders(ctx context.Context, travelerUid string) ([]Summary, error) {
	return s.FlightSummaries, nil
}

func (s *ClientStub) ListHotelOrders(ctx context.Context, travelerUid string) ([]Summary, error) {
	return s.HotelSummaries, nil
}

func (s *ClientStub) GetFlightOrder(ctx context.Context, orderId string) (itinerary.FlightBooking, error) {
	order, ok := s.Flights[orderId]
	if !ok {
		return itinerary.FlightBooking{}, ErrBookingNotFound
	}
	return order, nil
}

func (s *ClientStub) GetHotelOrder(ctx context.Context, orderId string) (itinerary.HotelBooking, error) {
	order, ok := s.Hotels[orderId]
	if !ok {
		return itinerary.HotelBooking{}, ErrBookingNotFound
	}
	return order, nil
}

func (s *ClientStub) Cleanup() {
	s.FlightSummaries = nil
	s.HotelSummaries = nil
	s.Flights = map[string]itinerary.FlightBooking{}
	s.Hotels = map[string]itinerary.HotelBooking{}
}
