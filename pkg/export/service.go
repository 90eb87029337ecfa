package export

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	gcal "google.golang.org/api/calendar/v3"

	"github.com/wayfare/wayfare/pkg/itinerary"
	"github.com/wayfare/wayfare/pkg/user"
)

const defaultEventDuration = time.Hour

// EventSink receives the calendar events produced by an export.
type EventSink interface {
	Insert(ctx context.Context, calendarId string, event *gcal.Event) error
}

// SinkFactory produces a sink acting as a specific user. Implemented by the
// google feature on top of the per-user OAuth tokens.
type SinkFactory interface {
	ForUser(ctx context.Context, userId int) (EventSink, error)
}

type Service interface {
	// ExportSchedule pushes every event of the scope's schedule to the user's
	// calendar and returns how many events were exported.
	ExportSchedule(ctx context.Context, scope string) (int, error)
}

type ServiceImpl struct {
	itineraries itinerary.Service
	users       user.Service
	sinks       SinkFactory
}

func NewService(itineraries itinerary.Service, users user.Service, sinks SinkFactory) *ServiceImpl {
	return &ServiceImpl{
		itineraries: itineraries,
		users:       users,
		sinks:       sinks,
	}
}

func (s *ServiceImpl) ExportSchedule(ctx context.Context, scope string) (int, error) {
	currentUser, err := s.users.GetCurrentUser(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get current user: %w", err)
	}

	schedule, err := s.itineraries.GetSchedule(ctx, scope)
	if err != nil {
		return 0, err
	}

	sink, err := s.sinks.ForUser(ctx, currentUser.Id)
	if err != nil {
		return 0, err
	}

	calendarId := currentUser.Settings.GoogleCalendarId
	if calendarId == "" {
		calendarId = "primary"
	}
	location, err := time.LoadLocation(currentUser.Settings.Timezone)
	if err != nil {
		log.Warnf("Unknown timezone %q, exporting in UTC", currentUser.Settings.Timezone)
		location = time.UTC
	}

	exported := 0
	for _, day := range schedule.Days {
		for _, event := range day.Events {
			calendarEvent, err := toCalendarEvent(event, location)
			if err != nil {
				log.Warnf("Skipping event %s: %v", event.ID, err)
				continue
			}
			if err := sink.Insert(ctx, calendarId, calendarEvent); err != nil {
				return exported, fmt.Errorf("unable to insert event in Google Calendar: %w", err)
			}
			exported++
		}
	}
	return exported, nil
}

func toCalendarEvent(event itinerary.Event, location *time.Location) (*gcal.Event, error) {
	start, err := time.ParseInLocation("2006-01-02 15:04", event.Date+" "+event.Time, location)
	if err != nil {
		return nil, fmt.Errorf("event has no usable date and time: %w", err)
	}
	end := start.Add(defaultEventDuration)

	description := event.Category
	if event.Cost > 0 {
		description = fmt.Sprintf("%s (%.2f)", event.Category, event.Cost)
	}
	return &gcal.Event{
		Summary:     event.Name,
		Description: description,
		Start:       &gcal.EventDateTime{DateTime: start.Format(time.RFC3339)},
		End:         &gcal.EventDateTime{DateTime: end.Format(time.RFC3339)},
	}, nil
}
