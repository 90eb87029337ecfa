package bus

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Topic identifies a kind of event on the bus.
type Topic string

// Event is the envelope delivered to subscribers. Data carries the payload and
// is asserted to a concrete type by each handler.
type Event struct {
	ctx       context.Context
	Topic     Topic
	Timestamp time.Time
	Data      any
}

func NewEvent(ctx context.Context, topic Topic, data any) Event {
	return Event{
		ctx:       ctx,
		Topic:     topic,
		Timestamp: time.Now(),
		Data:      data,
	}
}

// Context returns the context the event was published with. Handlers should
// use it for cancellation and for context values such as the current user.
func (e Event) Context() context.Context {
	if e.ctx == nil {
		return context.Background()
	}
	return e.ctx
}

type handler func(Event) error

// Bus is a concurrency-safe synchronous event dispatcher. Handlers run
// sequentially during Publish, in registration order.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[Topic][]subscription
	nextId      uint64
}

type subscription struct {
	id uint64
	h  handler
}

func New() *Bus {
	return &Bus{subscribers: make(map[Topic][]subscription)}
}

// Subscribe registers a handler for the topic and returns a function that
// removes it again.
func (b *Bus) Subscribe(topic Topic, h func(Event) error) (unsubscribe func()) {
	b.mu.Lock()
	b.nextId++
	id := b.nextId
	b.subscribers[topic] = append(b.subscribers[topic], subscription{id: id, h: h})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.subscribers[topic]
		for i, s := range subs {
			if s.id == id {
				b.subscribers[topic] = append(subs[:i], subs[i+1:]...)
				break
			}
		}
		if len(b.subscribers[topic]) == 0 {
			delete(b.subscribers, topic)
		}
	}
}

// Publish delivers the event to every handler registered for its topic.
// Handler errors and panics do not stop delivery; they are collected and
// returned as a single error.
func (b *Bus) Publish(e Event) error {
	if err := e.Context().Err(); err != nil {
		return fmt.Errorf("event %s: context cancelled before publish: %w", e.Topic, err)
	}

	b.mu.RLock()
	subs := make([]subscription, len(b.subscribers[e.Topic]))
	copy(subs, b.subscribers[e.Topic])
	b.mu.RUnlock()

	var failures []error
	for _, sub := range subs {
		if err := e.Context().Err(); err != nil {
			failures = append(failures, fmt.Errorf("context cancelled during event processing: %w", err))
			break
		}

		err := func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("handler panic (id %d) for event %s: %v", sub.id, e.Topic, r)
					log.Error(err)
				}
			}()
			return sub.h(e)
		}()
		if err != nil {
			log.Errorf("bus: handler error (id %d) for event %s: %v", sub.id, e.Topic, err)
			failures = append(failures, err)
		}
	}

	if len(failures) > 0 {
		return fmt.Errorf("event %s: %d handler(s) failed: %v", e.Topic, len(failures), failures)
	}
	return nil
}
