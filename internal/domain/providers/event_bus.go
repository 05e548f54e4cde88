package providers

import (
	"context"

	"github.com/caredispatch/backend/internal/domain/entities"
)

// EventBus publishes queue and admission events to interested hospital
// dashboards. Publishing is best effort; a bus failure never fails the
// operation that produced the event.
type EventBus interface {
	// Publish publishes an event to the given channel
	Publish(ctx context.Context, channel string, event *entities.QueueEvent) error

	// Subscribe returns a channel of events published to the given channel
	Subscribe(ctx context.Context, channel string) (<-chan *entities.QueueEvent, error)

	// Close shuts down the bus and all subscriptions
	Close() error
}
