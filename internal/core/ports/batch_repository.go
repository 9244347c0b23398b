package ports

import (
	"context"
	"time"

	"ordering/internal/core/domain/model/batch"
	"ordering/internal/core/domain/model/kernel"
)

// BatchRepository defines the persistence contract for batch aggregates
// and their order items.
type BatchRepository interface {
	// Add persists a new batch together with its items.
	Add(ctx context.Context, aggregate *batch.Batch) error

	// Update persists changes to an existing batch and its items.
	Update(ctx context.Context, aggregate *batch.Batch) error

	// Get retrieves a batch with its items by its unique identifier.
	// Returns errs.ObjectNotFoundError when no such batch exists.
	Get(ctx context.Context, id kernel.UUID) (*batch.Batch, error)

	// GetByItem retrieves the batch that holds the given order item,
	// row-locking the batch for the duration of the surrounding
	// transaction. Item status propagation goes through this method so
	// concurrent completions of sibling items serialize.
	GetByItem(ctx context.Context, orderItemID kernel.UUID) (*batch.Batch, error)

	// GetByOrder retrieves all batches of an order, ordered by their
	// index, items included.
	GetByOrder(ctx context.Context, orderID kernel.UUID) ([]*batch.Batch, error)

	// GetSubscriptionBatch retrieves the batch materializing the given
	// timeslot of a subscription order for one collection. Returns
	// errs.ObjectNotFoundError when the timeslot was never materialized.
	GetSubscriptionBatch(ctx context.Context, orderID kernel.UUID, timeslot time.Time,
		collection string) (*batch.Batch, error)

	// DeleteByOrder removes all batches of an order together with their
	// items. Used when re-dispatching a moderated order.
	DeleteByOrder(ctx context.Context, orderID kernel.UUID) error

	// DeleteItems removes the items of a batch, keeping the batch row.
	// Used when force-recreating a subscription timeslot.
	DeleteItems(ctx context.Context, batchID kernel.UUID) error

	// GetExpiredItems retrieves items whose produced files passed their
	// retention period and are still marked available.
	GetExpiredItems(ctx context.Context, now time.Time) ([]*batch.OrderItem, error)

	// UpdateItem persists changes to a single order item outside of a
	// full batch update.
	UpdateItem(ctx context.Context, item *batch.OrderItem) error

	// CountActiveItemsByUser counts the order items belonging to the
	// given user that are currently being produced. Used to enforce the
	// active items quota at submission.
	CountActiveItemsByUser(ctx context.Context, userID kernel.UUID) (int, error)
}
