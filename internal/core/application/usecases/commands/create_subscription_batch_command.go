package commands

import (
	"errors"
	"time"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/pkg/guard"
)

var (
	ErrCreateSubscriptionBatchCommandIsNotConstructed = errors.New(
		"CreateSubscriptionBatchCommand must be created via NewCreateSubscriptionBatchCommand constructor",
	)
	ErrTimeslotIsRequired   = errors.New("timeslot is required")
	ErrCollectionIsRequired = errors.New("collection is required")
)

// CreateSubscriptionBatchCommand asks for one timeslot of a subscription
// order to be materialized into a production batch. Issued when new
// products finish ingestion into a collection.
type CreateSubscriptionBatchCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	timeslot   time.Time
	collection string
	force      bool

	guard guard.ConstructorGuard
}

// NewCreateSubscriptionBatchCommand creates a timeslot materialization command.
// force recreates the batch items even when the timeslot was already
// materialized, used to reprocess a timeslot after upstream fixes.
func NewCreateSubscriptionBatchCommand(orderID kernel.UUID, timeslot time.Time,
	collection string, force bool) (CreateSubscriptionBatchCommand, error) {
	batchCommand := CreateSubscriptionBatchCommand{
		force: force,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		batchCommand.setOrderID(orderID),
		batchCommand.setTimeslot(timeslot),
		batchCommand.setCollection(collection),
	); err != nil {
		return CreateSubscriptionBatchCommand{}, err
	}

	return batchCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateSubscriptionBatchCommandIsNotConstructed if validation fails.
func (c CreateSubscriptionBatchCommand) Validate() error {
	return c.guard.Validate(ErrCreateSubscriptionBatchCommandIsNotConstructed)
}

// OrderID returns the identifier of the subscription order.
func (c CreateSubscriptionBatchCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Timeslot returns the ingestion timeslot to materialize.
func (c CreateSubscriptionBatchCommand) Timeslot() time.Time {
	return c.timeslot
}

// Collection returns the collection the products were ingested into.
func (c CreateSubscriptionBatchCommand) Collection() string {
	return c.collection
}

// Force reports whether an already materialized timeslot should be
// rebuilt.
func (c CreateSubscriptionBatchCommand) Force() bool {
	return c.force
}

func (c *CreateSubscriptionBatchCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateSubscriptionBatchCommand) setTimeslot(timeslot time.Time) error {
	if timeslot.IsZero() {
		return ErrTimeslotIsRequired
	}

	c.timeslot = timeslot
	return nil
}

func (c *CreateSubscriptionBatchCommand) setCollection(collection string) error {
	if collection == "" {
		return ErrCollectionIsRequired
	}

	c.collection = collection
	return nil
}
