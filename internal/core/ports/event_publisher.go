package ports

import (
	"context"
	"time"

	"shipping/internal/core/domain/model/kernel"
)

// WaybillCreated is published after labels were generated and persisted for
// an order. Subscribers include the customs workflow trigger.
type WaybillCreated struct {
	OrderID         kernel.UUID
	OrderNumber     string
	TrackingNumbers []string
	OccurredAt      time.Time
}

// EventPublisher delivers domain events to their subscribers. Publishing
// happens after the owning transaction committed; subscriber failures must
// not propagate back into the publishing workflow.
type EventPublisher interface {
	PublishWaybillCreated(ctx context.Context, event WaybillCreated)
}
