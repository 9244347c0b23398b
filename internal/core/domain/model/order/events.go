package order

import (
	"time"

	"ordering/internal/core/domain/model/kernel"
)

// Event is a domain event raised by the Order aggregate. Events are
// collected on the aggregate while a command executes and drained by
// the application layer after the transaction commits, typically to
// drive user notifications.
type Event interface {
	// Name returns a stable identifier for the event kind.
	Name() string
}

// StatusChangedEvent is raised on every real status transition of an
// order. No event is raised when a status write is a no-op.
type StatusChangedEvent struct {
	OrderID    kernel.UUID
	Previous   Status
	Next       Status
	Info       string
	OccurredOn time.Time
}

// Name returns the event kind identifier.
func (e StatusChangedEvent) Name() string {
	return "order.status-changed"
}

// SubmittedEvent is raised once when an order enters the lifecycle and
// is waiting for moderation.
type SubmittedEvent struct {
	OrderID    kernel.UUID
	OccurredOn time.Time
}

// Name returns the event kind identifier.
func (e SubmittedEvent) Name() string {
	return "order.submitted"
}
