package ports

import (
	"context"

	"ordering/internal/core/domain/model/kernel"
)

// NotificationKind identifies what happened to an order.
type NotificationKind string

const (
	// NotificationModerationRequested asks the operators to moderate a
	// freshly submitted order.
	NotificationModerationRequested NotificationKind = "moderation-requested"

	// NotificationOrderModerated tells the order owner the outcome of
	// moderation.
	NotificationOrderModerated NotificationKind = "order-moderated"

	// NotificationOrderStatusChanged tells the order owner the order
	// moved to a new lifecycle status.
	NotificationOrderStatusChanged NotificationKind = "order-status-changed"

	// NotificationBatchAvailable tells the order owner a batch of items
	// finished processing.
	NotificationBatchAvailable NotificationKind = "batch-available"

	// NotificationItemAvailable tells the order owner a single item
	// finished processing. Sent only when the order asked for
	// item-level notifications.
	NotificationItemAvailable NotificationKind = "item-available"

	// NotificationItemFailed alerts the operators that item processing
	// failed.
	NotificationItemFailed NotificationKind = "item-failed"
)

// Notification is one message to be delivered to a user or to the
// operators. Recipient is an email address; when empty the message goes
// to the operators.
type Notification struct {
	Kind      NotificationKind
	OrderID   kernel.UUID
	BatchID   *kernel.UUID
	ItemID    *kernel.UUID
	Recipient string
	Details   string
}

// Notifier delivers notifications about lifecycle changes. Delivery is
// best-effort: implementations log failures and never propagate them
// into the calling command.
type Notifier interface {
	Notify(ctx context.Context, notification Notification)
}
