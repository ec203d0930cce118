// Package messaging holds the event publishers that need no cloud account.
package messaging

import (
	"context"

	"go.uber.org/zap"

	"taxonomy-console/application/ports"
	"taxonomy-console/domain/events"
)

// LoggingPublisher writes domain events to the log. It is used when the
// EventBridge publisher is disabled.
type LoggingPublisher struct {
	logger *zap.Logger
}

// NewLoggingPublisher creates a publisher that logs every event at info level
func NewLoggingPublisher(logger *zap.Logger) ports.EventPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingPublisher{logger: logger}
}

// Publish logs one event
func (p *LoggingPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	p.logger.Info("Domain event",
		zap.String("eventType", event.GetEventType()),
		zap.String("aggregateID", event.GetAggregateID()),
		zap.Int("version", event.GetVersion()),
		zap.Time("timestamp", event.GetTimestamp()),
		zap.Any("event", event),
	)
	return nil
}

// PublishBatch logs events in order
func (p *LoggingPublisher) PublishBatch(ctx context.Context, domainEvents []events.DomainEvent) error {
	for _, event := range domainEvents {
		if err := p.Publish(ctx, event); err != nil {
			return err
		}
	}
	return nil
}
