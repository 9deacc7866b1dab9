package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"enterprise-assistant-be/internal/pkg/logger"
	"enterprise-assistant-be/pkg/events"
	pktNats "enterprise-assistant-be/pkg/nats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSubscriber struct {
	eventType string
	durable   string
	handler   pktNats.EventHandler
	err       error
}

func (c *captureSubscriber) Subscribe(_ context.Context, eventType string, durableName string, handler pktNats.EventHandler) error {
	c.eventType, c.durable, c.handler = eventType, durableName, handler
	return c.err
}

type capturePublisher struct {
	events []events.Event
	err    error
}

func (c *capturePublisher) Publish(_ context.Context, e events.Event) error {
	c.events = append(c.events, e)
	return c.err
}

func TestEventRelay_ForwardsEveryEvent(t *testing.T) {
	sub := &captureSubscriber{}
	delivery := &capturePublisher{}
	relay := NewEventRelayService(sub, delivery, logger.NewNopLogger())

	require.NoError(t, relay.Start(context.Background()))
	assert.Equal(t, ">", sub.eventType)
	assert.Equal(t, relayDurable, sub.durable)

	evt := events.BaseEvent{Type: "TICKET_CREATED", OccurredAt: time.Now()}
	require.NoError(t, sub.handler(context.Background(), evt))
	require.Len(t, delivery.events, 1)
	assert.Equal(t, "TICKET_CREATED", delivery.events[0].EventType())

	delivery.err = errors.New("redis down")
	assert.Error(t, sub.handler(context.Background(), evt), "errors are returned so the bus redelivers")
}

func TestEventRelay_StartFailsWhenSubscribeFails(t *testing.T) {
	relay := NewEventRelayService(&captureSubscriber{err: errors.New("no stream")}, &capturePublisher{}, logger.NewNopLogger())
	assert.Error(t, relay.Start(context.Background()))
}
