package itinerary

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wayfare/wayfare/pkg/user"
)

var ctx = user.WithUser(context.Background(), user.User{Id: 1, Uid: "traveler-1"})

type tripAccessStub struct {
	allowed map[string]bool
}

func (s *tripAccessStub) CanAccess(_ context.Context, _ int, tripId string) (bool, error) {
	return s.allowed[tripId], nil
}

func newTestService(repo Repository) *ServiceImpl {
	access := &tripAccessStub{allowed: map[string]bool{"tripA": true, "trip-9": true}}
	return NewService(repo, access, nil, testDelay)
}

func waitForReplaces(t *testing.T, repo *RepositoryStub, n int) {
	t.Helper()
	deadline := time.Now().Add(50 * testDelay)
	for time.Now().Before(deadline) {
		repo.mu.Lock()
		calls := repo.ReplaceCalls
		repo.mu.Unlock()
		if calls >= n {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d repository writes", n)
}

func TestService_LoadingDoesNotTriggerSave(t *testing.T) {
	repo := NewRepositoryStub()
	_, err := repo.Replace(context.Background(), storageKey(1, ScopeMain), []Event{{ID: "x", Date: "2024-05-01", Time: "10:00"}}, 0)
	require.NoError(t, err)
	repo.ReplaceCalls = 0
	service := newTestService(repo)

	schedule, err := service.GetSchedule(ctx, ScopeMain)

	require.NoError(t, err)
	assert.Len(t, schedule.Days, 1)
	time.Sleep(3 * testDelay)
	assert.Zero(t, repo.ReplaceCalls, "loading an existing itinerary must not write it back")
}

func TestService_DebouncedSaveWritesFinalStateOnce(t *testing.T) {
	repo := NewRepositoryStub()
	service := newTestService(repo)

	for i := 0; i < 4; i++ {
		_, err := service.AddEvent(ctx, ScopeMain, Event{
			Name: "Stop", Cost: float64(i), Date: "2024-05-01", Time: "10:00",
		})
		require.NoError(t, err)
	}

	waitForReplaces(t, repo, 1)
	time.Sleep(3 * testDelay)

	assert.Equal(t, 1, repo.ReplaceCalls)
	doc, err := repo.Load(context.Background(), storageKey(1, ScopeMain))
	require.NoError(t, err)
	assert.Len(t, doc.Events, 4)
}

func TestService_ScopeIsolation(t *testing.T) {
	repo := NewRepositoryStub()
	service := newTestService(repo)

	_, err := service.AddEvent(ctx, "tripA", Event{Name: "Shared dinner", Date: "2024-05-02", Time: "19:00"})
	require.NoError(t, err)
	require.NoError(t, service.Flush(ctx, "tripA"))

	personal, err := service.GetSchedule(ctx, ScopeMain)
	require.NoError(t, err)
	assert.Empty(t, personal.Days, "trip event must not leak into the personal scope")

	// Switching back reproduces the trip scope unchanged.
	require.NoError(t, service.Leave(ctx, "tripA"))
	shared, err := service.GetSchedule(ctx, "tripA")
	require.NoError(t, err)
	require.Len(t, shared.Days, 1)
	assert.Equal(t, "Shared dinner", shared.Days[0].Events[0].Name)
}

func TestService_LeaveCancelsPendingSaveForOldScope(t *testing.T) {
	repo := NewRepositoryStub()
	service := newTestService(repo)

	_, err := service.AddEvent(ctx, "tripA", Event{Name: "Abandoned", Date: "2024-05-02", Time: "19:00"})
	require.NoError(t, err)
	require.NoError(t, service.Leave(ctx, "tripA"))

	time.Sleep(3 * testDelay)
	assert.Zero(t, repo.ReplaceCalls, "leaving a scope must not fire its pending save")
}

func TestService_EndToEndScenario(t *testing.T) {
	repo := NewRepositoryStub()
	service := newTestService(repo)

	_, err := service.AddEvent(ctx, ScopeMain, Event{Name: "Museum", Cost: 20, Date: "2024-05-01", Time: "10:00"})
	require.NoError(t, err)

	added, err := service.AddFlightBooking(ctx, ScopeMain, twoLegBooking())
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	schedule, err := service.GetSchedule(ctx, ScopeMain)
	require.NoError(t, err)

	require.Len(t, schedule.Days, 2)
	assert.Equal(t, "2024-05-01", schedule.Days[0].Date)
	require.Len(t, schedule.Days[0].Events, 1)
	assert.Equal(t, "Museum", schedule.Days[0].Events[0].Name)

	assert.Equal(t, "2024-05-03", schedule.Days[1].Date)
	require.Len(t, schedule.Days[1].Events, 2)
	assert.InDelta(t, 300, schedule.Days[1].Events[0].Cost, 0.001)
	assert.Zero(t, schedule.Days[1].Events[1].Cost)

	assert.InDelta(t, 320, schedule.TotalCost, 0.001)
}

func TestService_ReAddingBookingIsDeduplicated(t *testing.T) {
	repo := NewRepositoryStub()
	service := newTestService(repo)

	added, err := service.AddFlightBooking(ctx, ScopeMain, twoLegBooking())
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	added, err = service.AddFlightBooking(ctx, ScopeMain, twoLegBooking())
	require.NoError(t, err)
	assert.Zero(t, added)

	schedule, err := service.GetSchedule(ctx, ScopeMain)
	require.NoError(t, err)
	assert.InDelta(t, 300, schedule.TotalCost, 0.001, "total must not double on re-add")
}

func TestService_ValidationRejectsPartialEvents(t *testing.T) {
	repo := NewRepositoryStub()
	service := newTestService(repo)

	cases := []Event{
		{Cost: 10, Date: "2024-05-01", Time: "10:00"},              // no name
		{Name: "X", Cost: -1, Date: "2024-05-01", Time: "10:00"},   // negative cost
		{Name: "X", Cost: 10, Date: "05/01/2024", Time: "10:00"},   // bad date
		{Name: "X", Cost: 10, Date: "2024-05-01", Time: "25:99"},   // bad time
		{Name: "X", Cost: 10, Date: "2024-05-01", Time: ""},        // no time
	}
	for _, event := range cases {
		_, err := service.AddEvent(ctx, ScopeMain, event)
		assert.ErrorIs(t, err, ErrValidation)
	}

	schedule, err := service.GetSchedule(ctx, ScopeMain)
	require.NoError(t, err)
	assert.Empty(t, schedule.Days, "rejected input must not create partial events")
}

func TestService_RemoveEvent(t *testing.T) {
	repo := NewRepositoryStub()
	service := newTestService(repo)

	created, err := service.AddEvent(ctx, ScopeMain, Event{Name: "Museum", Cost: 20, Date: "2024-05-01", Time: "10:00"})
	require.NoError(t, err)

	require.NoError(t, service.RemoveEvent(ctx, ScopeMain, created.ID))
	assert.ErrorIs(t, service.RemoveEvent(ctx, ScopeMain, created.ID), ErrNotFound)

	schedule, err := service.GetSchedule(ctx, ScopeMain)
	require.NoError(t, err)
	assert.Empty(t, schedule.Days)
}

func TestService_DeniesForeignTripScope(t *testing.T) {
	repo := NewRepositoryStub()
	service := newTestService(repo)

	_, err := service.GetSchedule(ctx, "someone-elses-trip")

	assert.ErrorIs(t, err, ErrScopeDenied)
}

func TestService_RequiresUserInContext(t *testing.T) {
	repo := NewRepositoryStub()
	service := newTestService(repo)

	_, err := service.GetSchedule(context.Background(), ScopeMain)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get current user")
}

func TestService_VersionConflictIsRetriedWithRemoteVersion(t *testing.T) {
	repo := NewRepositoryStub()
	service := newTestService(repo)

	_, err := service.AddEvent(ctx, ScopeMain, Event{Name: "Museum", Cost: 20, Date: "2024-05-01", Time: "10:00"})
	require.NoError(t, err)
	// A concurrent writer bumps the stored version before our save fires.
	repo.BumpVersion(storageKey(1, ScopeMain))

	require.NoError(t, service.Flush(ctx, ScopeMain))

	doc, err := repo.Load(context.Background(), storageKey(1, ScopeMain))
	require.NoError(t, err)
	assert.Len(t, doc.Events, 1, "local state wins after one reload-and-retry")
	assert.Equal(t, 2, repo.ReplaceCalls)
}
