package service

import (
	"context"

	"enterprise-assistant-be/internal/pkg/logger"
	"enterprise-assistant-be/pkg/events"
	pktNats "enterprise-assistant-be/pkg/nats"
)

const relayDurable = "dashboard-relay"

type EventSubscriber interface {
	Subscribe(ctx context.Context, eventType string, durableName string, handler pktNats.EventHandler) error
}

// EventRelayService forwards bus events to live dashboards.
type EventRelayService struct {
	subscriber EventSubscriber
	delivery   events.Publisher
	logger     logger.ILogger
}

func NewEventRelayService(sub EventSubscriber, delivery events.Publisher, log logger.ILogger) *EventRelayService {
	return &EventRelayService{
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

func (s *EventRelayService) Start(ctx context.Context) error {
	if err := s.subscriber.Subscribe(ctx, ">", relayDurable, s.handleEvent); err != nil {
		return err
	}
	s.logger.Info(logger.ModuleEvents, "Event relay started", nil)
	return nil
}

func (s *EventRelayService) handleEvent(ctx context.Context, event events.Event) error {
	s.logger.Info(logger.ModuleEvents, "Event received", map[string]interface{}{
		"type":        event.EventType(),
		"occurred_at": event.Timestamp(),
	})
	return s.delivery.Publish(ctx, event)
}
