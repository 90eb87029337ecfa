package booking

import (
	"context"
	"fmt"
	"sort"

	log "github.com/sirupsen/logrus"

	"github.com/wayfare/wayfare/internal/bus"
	"github.com/wayfare/wayfare/pkg/itinerary"
	"github.com/wayfare/wayfare/pkg/user"
)

type Service interface {
	// ListBookings returns the current user's confirmed flight and hotel
	// bookings, newest travel date first.
	ListBookings(ctx context.Context) ([]Summary, error)
	// ImportFlight merges the flight order's segments into the scope's
	// itinerary and returns the number of newly added events.
	ImportFlight(ctx context.Context, scope string, orderId string) (int, error)
	// ImportHotel merges the hotel order's check-in event into the scope's
	// itinerary and returns the number of newly added events.
	ImportHotel(ctx context.Context, scope string, orderId string) (int, error)
}

type ServiceImpl struct {
	client      Client
	itineraries itinerary.Service
	eventBus    *bus.Bus
}

func NewService(client Client, itineraries itinerary.Service, eventBus *bus.Bus) *ServiceImpl {
	return &ServiceImpl{
		client:      client,
		itineraries: itineraries,
		eventBus:    eventBus,
	}
}

func (s *ServiceImpl) ListBookings(ctx context.Context) ([]Summary, error) {
	currentUser, err := user.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}

	flights, err := s.client.ListFlightOrders(ctx, currentUser.Uid)
	if err != nil {
		return nil, err
	}
	hotels, err := s.client.ListHotelOrders(ctx, currentUser.Uid)
	if err != nil {
		return nil, err
	}

	summaries := append(flights, hotels...)
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].Date > summaries[j].Date
	})
	return summaries, nil
}

func (s *ServiceImpl) ImportFlight(ctx context.Context, scope string, orderId string) (int, error) {
	order, err := s.client.GetFlightOrder(ctx, orderId)
	if err != nil {
		return 0, err
	}

	added, err := s.itineraries.AddFlightBooking(ctx, scope, order)
	if err != nil {
		return 0, err
	}

	s.publishConfirmed(ctx, scope, order.BookingId, KindFlight, flightSummaryTitle(order), order.TotalPrice)
	return added, nil
}

func (s *ServiceImpl) ImportHotel(ctx context.Context, scope string, orderId string) (int, error) {
	order, err := s.client.GetHotelOrder(ctx, orderId)
	if err != nil {
		return 0, err
	}

	added, err := s.itineraries.AddHotelBooking(ctx, scope, order)
	if err != nil {
		return 0, err
	}

	s.publishConfirmed(ctx, scope, order.BookingId, KindHotel, order.HotelName, order.TotalPrice)
	return added, nil
}

func (s *ServiceImpl) publishConfirmed(ctx context.Context, scope, bookingId, kind, summary string, total float64) {
	if s.eventBus == nil {
		return
	}
	currentUserId, err := user.CurrentId(ctx)
	if err != nil {
		return
	}
	event := bus.NewEvent(ctx, bus.TopicBookingConfirmed, bus.BookingConfirmed{
		UserId:    currentUserId,
		Scope:     scope,
		BookingId: bookingId,
		Kind:      kind,
		Summary:   summary,
		Total:     total,
	})
	if err := s.eventBus.Publish(event); err != nil {
		log.Warnf("Failed to publish booking confirmation: %v", err)
	}
}

func flightSummaryTitle(order itinerary.FlightBooking) string {
	if len(order.Legs) == 0 || len(order.Legs[0].Segments) == 0 {
		return "Flight booking " + order.BookingId
	}
	first := order.Legs[0].Segments[0]
	last := first
	for i := len(order.Legs) - 1; i >= 0; i-- {
		if n := len(order.Legs[i].Segments); n > 0 {
			last = order.Legs[i].Segments[n-1]
			break
		}
	}
	return fmt.Sprintf("Flight %s - %s", first.DepartureAirport, last.ArrivalAirport)
}
