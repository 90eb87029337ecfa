package activity

import (
	"context"
	"fmt"
	"time"

	"github.com/wayfare/wayfare/pkg/itinerary"
)

type Service interface {
	Search(ctx context.Context, destination string, category string) ([]Activity, error)
	// AddToItinerary puts the activity on the scope's schedule at the given
	// date and time. Re-adding the same activity is a no-op.
	AddToItinerary(ctx context.Context, scope string, activityId string, date string, clock string) (itinerary.Event, error)
}

type ServiceImpl struct {
	client      Client
	itineraries itinerary.Service
}

func NewService(client Client, itineraries itinerary.Service) *ServiceImpl {
	return &ServiceImpl{client: client, itineraries: itineraries}
}

func (s *ServiceImpl) Search(ctx context.Context, destination string, category string) ([]Activity, error) {
	if destination == "" {
		return nil, fmt.Errorf("%w: destination is required", itinerary.ErrValidation)
	}
	return s.client.Search(ctx, destination, category)
}

func (s *ServiceImpl) AddToItinerary(ctx context.Context, scope string, activityId string, date string, clock string) (itinerary.Event, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return itinerary.Event{}, fmt.Errorf("%w: date must be an ISO date", itinerary.ErrValidation)
	}
	if _, err := time.Parse("15:04", clock); err != nil {
		return itinerary.Event{}, fmt.Errorf("%w: time must be HH:MM", itinerary.ErrValidation)
	}

	activity, err := s.client.Get(ctx, activityId)
	if err != nil {
		return itinerary.Event{}, err
	}

	category := activity.Category
	if category == "" {
		category = "Activity"
	}
	event := itinerary.Event{
		ID:       "activity:" + activity.Id,
		Name:     activity.Name,
		Cost:     activity.Price,
		Date:     date,
		Time:     clock,
		Category: category,
		Type:     itinerary.EventTypeActivity,
	}

	if _, err := s.itineraries.MergeEvents(ctx, scope, []itinerary.Event{event}); err != nil {
		return itinerary.Event{}, err
	}
	return event, nil
}
