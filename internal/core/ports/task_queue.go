package ports

import (
	"context"

	"ordering/internal/core/domain/model/kernel"
)

// TaskQueue hands order items over to the asynchronous processing
// workers. Enqueuing happens after the enclosing transaction commits so
// workers always find the item rows they are told about.
type TaskQueue interface {
	// EnqueueItem schedules processing of one order item. notifyUser
	// asks the worker to send an item-level notification when the item
	// becomes available.
	EnqueueItem(ctx context.Context, orderItemID kernel.UUID, notifyUser bool) error
}
