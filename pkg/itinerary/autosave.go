package itinerary

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// DefaultSaveDelay is the quiet period after the last mutation before the
// collection is persisted.
const DefaultSaveDelay = 1500 * time.Millisecond

// SaveFunc persists a full event collection for one (traveler, scope) pair.
type SaveFunc func(ctx context.Context, userId int, scope string, events []Event) error

// Coordinator debounces itinerary persistence. Every mutation schedules a
// save and restarts the delay timer; only the snapshot present when the timer
// fires is written, so rapid mutations coalesce into a single full overwrite.
// Loading a scope schedules nothing, which is what suppresses the save that a
// plain "state changed" trigger would fire right after load.
//
// A failed save is logged and dropped; the in-memory collection remains the
// user-visible source of truth and the next mutation re-attempts the full
// overwrite anyway.
type Coordinator struct {
	delay time.Duration
	save  SaveFunc

	mu      sync.Mutex
	pending map[string]*pendingSave
}

type pendingSave struct {
	timer  *time.Timer
	ctx    context.Context
	userId int
	scope  string
	events []Event
}

func NewCoordinator(delay time.Duration, save SaveFunc) *Coordinator {
	if delay <= 0 {
		delay = DefaultSaveDelay
	}
	return &Coordinator{
		delay:   delay,
		save:    save,
		pending: make(map[string]*pendingSave),
	}
}

func saveKey(userId int, scope string) string {
	return fmt.Sprintf("%d/%s", userId, scope)
}

// Schedule records the latest snapshot for the scope and (re)arms the delay
// timer. The snapshot replaces any previously scheduled one.
func (c *Coordinator) Schedule(ctx context.Context, userId int, scope string, events []Event) {
	key := saveKey(userId, scope)

	// The timer outlives the request; keep context values (current user) but
	// not the request's cancellation.
	detached := context.WithoutCancel(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.pending[key]; ok {
		p.timer.Stop()
	}
	p := &pendingSave{ctx: detached, userId: userId, scope: scope, events: events}
	p.timer = time.AfterFunc(c.delay, func() {
		c.fire(key)
	})
	c.pending[key] = p
}

// Cancel drops any pending save for the scope without firing it. Used when
// the scope is switched or left, so a stale save never leaks against the
// previous scope.
func (c *Coordinator) Cancel(userId int, scope string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := saveKey(userId, scope)
	if p, ok := c.pending[key]; ok {
		p.timer.Stop()
		delete(c.pending, key)
	}
}

// Flush fires the pending save for the scope immediately, if there is one.
func (c *Coordinator) Flush(userId int, scope string) {
	c.fire(saveKey(userId, scope))
}

func (c *Coordinator) fire(key string) {
	c.mu.Lock()
	p, ok := c.pending[key]
	if ok {
		p.timer.Stop()
		delete(c.pending, key)
	}
	c.mu.Unlock()
	if !ok {
		return
	}

	if err := c.save(p.ctx, p.userId, p.scope, p.events); err != nil {
		log.Errorf("failed to save itinerary for user %d scope %q: %v", p.userId, p.scope, err)
	}
}
