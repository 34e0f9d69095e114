// Package ports defines the contracts between the application core and the
// infrastructure adapters: persistence, the carrier gateway, the token
// cache, event publishing and retry scheduling. The interfaces enable
// dependency inversion and testability.
package ports

import (
	"context"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Provides methods for storing, retrieving, and querying order entities
// with their attached shipment and customs state.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	// The order must exist in the repository and be valid.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	// Returns the complete order with shipment record, customs submission,
	// pre-registration state and audit notes.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetAllWithDueCustoms retrieves all orders whose customs submission is
	// Pending with a next attempt at or before now. Used by the sweep job to
	// recover retries lost to process restarts.
	GetAllWithDueCustoms(ctx context.Context) ([]*order.Order, error)
}
