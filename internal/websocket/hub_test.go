package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"enterprise-assistant-be/internal/pkg/logger"
	"enterprise-assistant-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(nil, logger.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub
}

func TestHub_PublishReachesRegisteredClients(t *testing.T) {
	hub := startHub(t)

	a := &Client{Hub: hub, Key: "a", Send: make(chan []byte, 4)}
	b := &Client{Hub: hub, Key: "b", Send: make(chan []byte, 4)}
	require.True(t, hub.add(a))
	require.True(t, hub.add(b))
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 5*time.Millisecond)

	err := hub.Publish(context.Background(), events.BaseEvent{
		Type: "TICKET_CREATED",
		Data: map[string]interface{}{"ticket_id": "TICKET-1001"},
	})
	require.NoError(t, err)

	for _, c := range []*Client{a, b} {
		select {
		case raw := <-c.Send:
			var frame Frame
			require.NoError(t, json.Unmarshal(raw, &frame))
			assert.Equal(t, "event", frame.Type)
			ev, err := events.Unmarshal(frame.Data)
			require.NoError(t, err)
			assert.Equal(t, "TICKET-1001", ev.Payload()["ticket_id"])
		case <-time.After(time.Second):
			t.Fatalf("client %s got nothing", c.Key)
		}
	}
}

func TestHub_SlowClientIsDropped(t *testing.T) {
	hub := startHub(t)

	slow := &Client{Hub: hub, Key: "slow", Send: make(chan []byte)}
	require.True(t, hub.add(slow))
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, hub.Publish(context.Background(), events.BaseEvent{Type: "MEETING_REQUESTED"}))

	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
	_, open := <-slow.Send
	assert.False(t, open)
}

func TestHub_RegisterAfterShutdownFails(t *testing.T) {
	hub := NewHub(nil, logger.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	assert.False(t, hub.add(&Client{Hub: hub, Send: make(chan []byte, 1)}))
}
