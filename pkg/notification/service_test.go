package notification

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayfare/wayfare/internal/bus"
	"github.com/wayfare/wayfare/pkg/user"
)

type tripMembersStub struct {
	members map[string][]int
}

func (s *tripMembersStub) AcceptedMemberIds(ctx context.Context, tripId string) ([]int, error) {
	return s.members[tripId], nil
}

func setupService(t *testing.T) (*ServiceImpl, *bus.Bus, context.Context, user.Service) {
	repo := NewRepositoryStub()
	t.Cleanup(repo.Cleanup)
	users := user.NewUserService(user.NewRepoStub())
	created, err := users.CreateUser(context.Background(), user.User{Uid: "traveler-1", Username: "ana"})
	require.NoError(t, err)
	ctx := user.WithUser(context.Background(), created)

	members := &tripMembersStub{members: map[string][]int{"trip-9": {1, 2}}}
	service := NewService(repo, users, members)
	eventBus := bus.New()
	service.SubscribeToBookings(eventBus)
	return service, eventBus, ctx, users
}

func bookingEvent(ctx context.Context, userId int) bus.Event {
	return bus.NewEvent(ctx, bus.TopicBookingConfirmed, bus.BookingConfirmed{
		UserId:  userId,
		Scope:   "main",
		Kind:    "hotel",
		Summary: "Hotel Okura",
		Total:   540,
	})
}

func TestService_BookingConfirmationCreatesNotification(t *testing.T) {
	service, eventBus, ctx, _ := setupService(t)

	require.NoError(t, eventBus.Publish(bookingEvent(ctx, 1)))

	notifications, err := service.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, KindBookingConfirmed, notifications[0].Kind)
	assert.Contains(t, notifications[0].Body, "Hotel Okura")
}

func TestService_UnsetPreferenceStillNotifies(t *testing.T) {
	service, eventBus, ctx, _ := setupService(t)

	require.NoError(t, eventBus.Publish(bookingEvent(ctx, 1)))

	notifications, err := service.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, notifications, 1, "unset preference defaults to sending")
}

func TestService_ExplicitFalsePreferenceSuppresses(t *testing.T) {
	service, eventBus, ctx, users := setupService(t)
	off := false
	_, err := users.UpdateSettings(ctx, user.SettingsPatch{BookingPush: &off})
	require.NoError(t, err)

	require.NoError(t, eventBus.Publish(bookingEvent(ctx, 1)))

	notifications, err := service.List(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, notifications)
}

func TestService_TripBookingNotifiesAcceptedMembers(t *testing.T) {
	service, eventBus, ctx, users := setupService(t)
	other, err := users.CreateUser(context.Background(), user.User{Uid: "traveler-2", Username: "bob"})
	require.NoError(t, err)
	otherCtx := user.WithUser(context.Background(), other)

	require.NoError(t, eventBus.Publish(bus.NewEvent(ctx, bus.TopicBookingConfirmed, bus.BookingConfirmed{
		UserId:  1,
		Scope:   "trip-9",
		Kind:    "flight",
		Summary: "NRT-CDG",
		Total:   812.40,
	})))

	mine, err := service.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	theirs, err := service.List(otherCtx, false)
	require.NoError(t, err)
	require.Len(t, theirs, 1)
	assert.Contains(t, theirs[0].Body, "NRT-CDG")
}

func TestService_MarkRead(t *testing.T) {
	service, eventBus, ctx, _ := setupService(t)
	require.NoError(t, eventBus.Publish(bookingEvent(ctx, 1)))

	notifications, err := service.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, notifications, 1)

	require.NoError(t, service.MarkRead(ctx, notifications[0].Id))

	unread, err := service.List(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, unread)

	all, err := service.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.NotEmpty(t, all[0].ReadAt)

	assert.Error(t, service.MarkRead(ctx, notifications[0].Id), "already read")
}

func TestService_ListScopedToCurrentUser(t *testing.T) {
	service, eventBus, ctx, users := setupService(t)
	other, err := users.CreateUser(context.Background(), user.User{Uid: "traveler-2", Username: "bob"})
	require.NoError(t, err)
	otherCtx := user.WithUser(context.Background(), other)

	require.NoError(t, eventBus.Publish(bookingEvent(otherCtx, other.Id)))

	notifications, err := service.List(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, notifications)
}
