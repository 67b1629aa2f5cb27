package app

import (
	"context"

	"go.uber.org/zap"

	"autocare/internal/models"
)

// Sink receives a single domain event.
type Sink interface {
	Publish(ctx context.Context, event models.Event) error
}

// eventDispatcher delivers the events an operation returned. Delivery is
// fire-and-forget: a failed publish is logged and never fails the operation.
type eventDispatcher struct {
	sink   Sink
	logger *zap.Logger
}

func newEventDispatcher(sink Sink, logger *zap.Logger) *eventDispatcher {
	return &eventDispatcher{sink: sink, logger: logger}
}

// Dispatch publishes every event in order.
func (d *eventDispatcher) Dispatch(ctx context.Context, events []models.Event) {
	for _, event := range events {
		d.logger.Debug("domain event", zap.String("event", event.EventName()))
		if d.sink == nil {
			continue
		}
		if err := d.sink.Publish(ctx, event); err != nil {
			d.logger.Warn("failed to publish event",
				zap.String("event", event.EventName()),
				zap.Error(err),
			)
		}
	}
}
