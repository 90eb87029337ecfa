package export

import (
	"context"

	gcal "google.golang.org/api/calendar/v3"

	"github.com/wayfare/wayfare/pkg/google"
)

// GoogleSinkFactory adapts the google feature's authenticated calendar
// clients to the export sink.
type GoogleSinkFactory struct {
	auth *google.Auth
}

func NewGoogleSinkFactory(auth *google.Auth) *GoogleSinkFactory {
	return &GoogleSinkFactory{auth: auth}
}

func (f *GoogleSinkFactory) ForUser(ctx context.Context, userId int) (EventSink, error) {
	service, err := f.auth.CalendarService(ctx, userId)
	if err != nil {
		return nil, err
	}
	return &googleSink{service: service}, nil
}

type googleSink struct {
	service *gcal.Service
}

func (s *googleSink) Insert(ctx context.Context, calendarId string, event *gcal.Event) error {
	_, err := s.service.Events.Insert(calendarId, event).Context(ctx).Do()
	return err
}
