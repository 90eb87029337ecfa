package itinerary

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDelay = 20 * time.Millisecond

type savedWrite struct {
	userId int
	scope  string
	events []Event
}

type saveRecorder struct {
	mu     sync.Mutex
	writes []savedWrite
}

func (r *saveRecorder) save(ctx context.Context, userId int, scope string, events []Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes = append(r.writes, savedWrite{userId: userId, scope: scope, events: events})
	return nil
}

func (r *saveRecorder) all() []savedWrite {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]savedWrite, len(r.writes))
	copy(out, r.writes)
	return out
}

func waitForWrites(t *testing.T, r *saveRecorder, n int) {
	t.Helper()
	deadline := time.Now().Add(50 * testDelay)
	for time.Now().Before(deadline) {
		if len(r.all()) >= n {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("expected %d writes, got %d", n, len(r.all()))
}

func TestCoordinator_CoalescesRapidMutationsIntoOneWrite(t *testing.T) {
	recorder := &saveRecorder{}
	c := NewCoordinator(testDelay, recorder.save)
	ctx := context.Background()

	var state []Event
	for i := 0; i < 5; i++ {
		state = append(state, Event{ID: string(rune('a' + i))})
		snapshot := make([]Event, len(state))
		copy(snapshot, state)
		c.Schedule(ctx, 1, ScopeMain, snapshot)
	}

	waitForWrites(t, recorder, 1)
	time.Sleep(3 * testDelay)

	writes := recorder.all()
	require.Len(t, writes, 1)
	// The single write carries the state after the last mutation.
	assert.Len(t, writes[0].events, 5)
}

func TestCoordinator_NothingScheduledMeansNothingSaved(t *testing.T) {
	recorder := &saveRecorder{}
	NewCoordinator(testDelay, recorder.save)

	time.Sleep(3 * testDelay)

	assert.Empty(t, recorder.all())
}

func TestCoordinator_CancelDropsPendingSave(t *testing.T) {
	recorder := &saveRecorder{}
	c := NewCoordinator(testDelay, recorder.save)

	c.Schedule(context.Background(), 1, "trip-1", []Event{{ID: "a"}})
	c.Cancel(1, "trip-1")

	time.Sleep(3 * testDelay)
	assert.Empty(t, recorder.all())
}

func TestCoordinator_CancelIsScopedToOneKey(t *testing.T) {
	recorder := &saveRecorder{}
	c := NewCoordinator(testDelay, recorder.save)

	c.Schedule(context.Background(), 1, "trip-1", []Event{{ID: "a"}})
	c.Schedule(context.Background(), 1, ScopeMain, []Event{{ID: "b"}})
	c.Cancel(1, "trip-1")

	waitForWrites(t, recorder, 1)
	time.Sleep(2 * testDelay)

	writes := recorder.all()
	require.Len(t, writes, 1)
	assert.Equal(t, ScopeMain, writes[0].scope)
}

func TestCoordinator_FlushFiresImmediately(t *testing.T) {
	recorder := &saveRecorder{}
	c := NewCoordinator(time.Hour, recorder.save)

	c.Schedule(context.Background(), 1, ScopeMain, []Event{{ID: "a"}})
	c.Flush(1, ScopeMain)

	writes := recorder.all()
	require.Len(t, writes, 1)
	assert.Equal(t, "a", writes[0].events[0].ID)
}

func TestCoordinator_FlushWithoutPendingIsNoop(t *testing.T) {
	recorder := &saveRecorder{}
	c := NewCoordinator(testDelay, recorder.save)

	c.Flush(1, ScopeMain)

	assert.Empty(t, recorder.all())
}

func TestCoordinator_SeparateScopesSaveSeparately(t *testing.T) {
	recorder := &saveRecorder{}
	c := NewCoordinator(testDelay, recorder.save)

	c.Schedule(context.Background(), 1, ScopeMain, []Event{{ID: "personal"}})
	c.Schedule(context.Background(), 1, "trip-9", []Event{{ID: "shared"}})

	waitForWrites(t, recorder, 2)

	scopes := map[string]bool{}
	for _, w := range recorder.all() {
		scopes[w.scope] = true
	}
	assert.True(t, scopes[ScopeMain])
	assert.True(t, scopes["trip-9"])
}
