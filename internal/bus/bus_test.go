package bus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBus_PublishDeliversToAllSubscribers(t *testing.T) {
	b := New()
	var got []string

	b.Subscribe("test.topic", func(e Event) error {
		got = append(got, "first")
		return nil
	})
	b.Subscribe("test.topic", func(e Event) error {
		got = append(got, "second")
		return nil
	})

	err := b.Publish(NewEvent(context.Background(), "test.topic", "payload"))

	assert.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, got)
}

func TestBus_UnsubscribeStopsDelivery(t *testing.T) {
	b := New()
	calls := 0
	unsub := b.Subscribe("test.topic", func(e Event) error {
		calls++
		return nil
	})

	_ = b.Publish(NewEvent(context.Background(), "test.topic", nil))
	unsub()
	_ = b.Publish(NewEvent(context.Background(), "test.topic", nil))

	assert.Equal(t, 1, calls)
}

func TestBus_HandlerErrorDoesNotStopOthers(t *testing.T) {
	b := New()
	reached := false
	b.Subscribe("test.topic", func(e Event) error {
		return errors.New("boom")
	})
	b.Subscribe("test.topic", func(e Event) error {
		reached = true
		return nil
	})

	err := b.Publish(NewEvent(context.Background(), "test.topic", nil))

	assert.Error(t, err)
	assert.True(t, reached)
}

func TestBus_RecoversFromHandlerPanic(t *testing.T) {
	b := New()
	b.Subscribe("test.topic", func(e Event) error {
		panic("handler exploded")
	})

	err := b.Publish(NewEvent(context.Background(), "test.topic", nil))

	assert.Error(t, err)
}

func TestBus_CancelledContextSkipsHandlers(t *testing.T) {
	b := New()
	calls := 0
	b.Subscribe("test.topic", func(e Event) error {
		calls++
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := b.Publish(NewEvent(ctx, "test.topic", nil))

	assert.Error(t, err)
	assert.Equal(t, 0, calls)
}
