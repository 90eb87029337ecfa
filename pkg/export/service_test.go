package export

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gcal "google.golang.org/api/calendar/v3"

	"github.com/wayfare/wayfare/pkg/itinerary"
	"github.com/wayfare/wayfare/pkg/user"
)

type sinkRecorder struct {
	calendarIds []string
	events      []*gcal.Event
}

func (r *sinkRecorder) Insert(ctx context.Context, calendarId string, event *gcal.Event) error {
	r.calendarIds = append(r.calendarIds, calendarId)
	r.events = append(r.events, event)
	return nil
}

type sinkFactoryStub struct {
	sink *sinkRecorder
	err  error
}

func (f *sinkFactoryStub) ForUser(ctx context.Context, userId int) (EventSink, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.sink, nil
}

func setupService(t *testing.T) (*ServiceImpl, *sinkRecorder, itinerary.Service, context.Context) {
	users := user.NewUserService(user.NewRepoStub())
	created, err := users.CreateUser(context.Background(), user.User{Uid: "traveler-1", Username: "ana"})
	require.NoError(t, err)
	ctx := user.WithUser(context.Background(), created)

	itineraries := itinerary.NewService(itinerary.NewRepositoryStub(), nil, nil, time.Hour)
	recorder := &sinkRecorder{}
	service := NewService(itineraries, users, &sinkFactoryStub{sink: recorder})
	return service, recorder, itineraries, ctx
}

func TestService_ExportSchedule(t *testing.T) {
	service, recorder, itineraries, ctx := setupService(t)
	_, err := itineraries.AddEvent(ctx, itinerary.ScopeMain, itinerary.Event{
		Name: "Ghibli Museum", Cost: 20, Date: "2024-05-04", Time: "10:00",
	})
	require.NoError(t, err)
	_, err = itineraries.AddEvent(ctx, itinerary.ScopeMain, itinerary.Event{
		Name: "Dinner", Date: "2024-05-04", Time: "19:30",
	})
	require.NoError(t, err)

	exported, err := service.ExportSchedule(ctx, itinerary.ScopeMain)

	require.NoError(t, err)
	assert.Equal(t, 2, exported)
	require.Len(t, recorder.events, 2)
	assert.Equal(t, "Ghibli Museum", recorder.events[0].Summary)
	assert.Contains(t, recorder.events[0].Start.DateTime, "2024-05-04T10:00:00")
	assert.Equal(t, "primary", recorder.calendarIds[0], "falls back to the primary calendar")
}

func TestService_ExportUsesConfiguredCalendar(t *testing.T) {
	service, recorder, itineraries, ctx := setupService(t)
	calendarId := "travel@group.calendar.google.com"
	_, err := service.users.UpdateSettings(ctx, user.SettingsPatch{GoogleCalendarId: &calendarId})
	require.NoError(t, err)
	_, err = itineraries.AddEvent(ctx, itinerary.ScopeMain, itinerary.Event{
		Name: "Dinner", Date: "2024-05-04", Time: "19:30",
	})
	require.NoError(t, err)

	_, err = service.ExportSchedule(ctx, itinerary.ScopeMain)

	require.NoError(t, err)
	require.Len(t, recorder.calendarIds, 1)
	assert.Equal(t, calendarId, recorder.calendarIds[0])
}

func TestService_ExportEmptySchedule(t *testing.T) {
	service, recorder, _, ctx := setupService(t)

	exported, err := service.ExportSchedule(ctx, itinerary.ScopeMain)

	require.NoError(t, err)
	assert.Zero(t, exported)
	assert.Empty(t, recorder.events)
}
