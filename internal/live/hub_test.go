package live

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribeBroadcastUnsubscribe(t *testing.T) {
	hub := NewHub()

	a := hub.Subscribe()
	b := hub.Subscribe()

	hub.Broadcast([]byte("tick"))

	assert.Equal(t, []byte("tick"), <-a)
	assert.Equal(t, []byte("tick"), <-b)

	hub.Unsubscribe(a)
	// Unsubscribing twice is a no-op
	hub.Unsubscribe(a)

	hub.Broadcast([]byte("tock"))
	assert.Equal(t, []byte("tock"), <-b)

	// Closed channel yields no more payloads
	_, ok := <-a
	assert.False(t, ok)

	hub.Unsubscribe(b)
}

func TestSlowConsumerDoesNotBlockBroadcast(t *testing.T) {
	hub := NewHub()
	ch := hub.Subscribe()
	defer hub.Unsubscribe(ch)

	// Overfill the buffered channel; Broadcast must not block
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			hub.Broadcast([]byte("x"))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Broadcast blocked on a slow consumer")
	}
}

func TestRunPollsAndBroadcasts(t *testing.T) {
	hub := NewHub()
	ch := hub.Subscribe()
	defer hub.Unsubscribe(ch)

	stop := make(chan struct{})
	defer close(stop)

	go hub.Run(10*time.Millisecond, func() (interface{}, error) {
		return map[string]int{"sessions": 2}, nil
	}, stop)

	select {
	case payload := <-ch:
		require.JSONEq(t, `{"sessions":2}`, string(payload))
	case <-time.After(2 * time.Second):
		t.Fatal("No broadcast received from poller")
	}
}
