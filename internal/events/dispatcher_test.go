package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInMemoryDispatcher(t *testing.T) {
	t.Run("delivers events to subscribed handlers", func(t *testing.T) {
		dispatcher := NewInMemoryDispatcher()
		var received []Event
		dispatcher.Subscribe(EventFollowUpCompleted, func(_ context.Context, event Event) error {
			received = append(received, event)
			return nil
		})

		err := dispatcher.Publish(context.Background(), Event{Type: EventFollowUpCompleted, EventID: "e1"})
		assert.NoError(t, err)
		assert.Len(t, received, 1)
		assert.Equal(t, "e1", received[0].EventID)
	})

	t.Run("handler error does not stop remaining handlers", func(t *testing.T) {
		dispatcher := NewInMemoryDispatcher()
		var secondCalled bool
		dispatcher.Subscribe(EventContactLogged, func(context.Context, Event) error {
			return errors.New("boom")
		})
		dispatcher.Subscribe(EventContactLogged, func(context.Context, Event) error {
			secondCalled = true
			return nil
		})

		err := dispatcher.Publish(context.Background(), Event{Type: EventContactLogged})
		assert.NoError(t, err)
		assert.True(t, secondCalled)
	})

	t.Run("ignores events without subscribers", func(t *testing.T) {
		dispatcher := NewInMemoryDispatcher()
		assert.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventCrisisEventCreated}))
	})
}
