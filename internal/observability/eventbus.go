package observability

import (
	"context"
)

// EventBus implements the domain EventPublisher interface by emitting
// structured log records. A real broker can replace it without touching
// the orchestrator.
type EventBus struct{}

// NewEventBus creates a new event bus.
func NewEventBus() *EventBus {
	return &EventBus{}
}

// Publish publishes an event with the given type and data.
func (e *EventBus) Publish(ctx context.Context, eventType string, data map[string]interface{}) {
	logger := FromContext(ctx)

	fields := make([]interface{}, 0, len(data)*2)
	for k, v := range data {
		fields = append(fields, k, v)
	}

	logger.Sugar().Infow(eventType, fields...)
}
