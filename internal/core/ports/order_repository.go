package ports

import (
	"context"
	"time"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Provides methods for storing, retrieving, and querying orders by
// lifecycle state.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	// The order must exist in the repository and be valid.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	// Returns errs.ObjectNotFoundError when no such order exists.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate retrieves an order and row-locks it for the duration
	// of the surrounding transaction. Status aggregation for a parent
	// order must go through this method so concurrent item completions
	// serialize.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetExpiredSubscriptions retrieves active subscription orders whose
	// validity period ended before the given moment.
	GetExpiredSubscriptions(ctx context.Context, now time.Time) ([]*order.Order, error)
}
