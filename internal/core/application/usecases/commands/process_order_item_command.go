package commands

import (
	"errors"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/pkg/guard"
)

var ErrProcessOrderItemCommandIsNotConstructed = errors.New(
	"ProcessOrderItemCommand must be created via NewProcessOrderItemCommand constructor",
)

// ProcessOrderItemCommand asks for one order item to be produced and
// delivered. Issued by the processing workers for every item handed to
// the task queue.
type ProcessOrderItemCommand struct { //nolint:recvcheck //using for validation
	orderItemID kernel.UUID
	notifyUser  bool

	guard guard.ConstructorGuard
}

// NewProcessOrderItemCommand creates an item processing command.
// notifyUser asks for an item-level notification once the item becomes
// available.
func NewProcessOrderItemCommand(orderItemID kernel.UUID,
	notifyUser bool) (ProcessOrderItemCommand, error) {
	processCommand := ProcessOrderItemCommand{
		notifyUser: notifyUser,
		guard:      guard.NewConstructorGuard(),
	}

	if err := processCommand.setOrderItemID(orderItemID); err != nil {
		return ProcessOrderItemCommand{}, err
	}

	return processCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrProcessOrderItemCommandIsNotConstructed if validation fails.
func (c ProcessOrderItemCommand) Validate() error {
	return c.guard.Validate(ErrProcessOrderItemCommandIsNotConstructed)
}

// OrderItemID returns the identifier of the item to process.
func (c ProcessOrderItemCommand) OrderItemID() kernel.UUID {
	return c.orderItemID
}

// NotifyUser reports whether the order owner asked to be told about
// this item becoming available.
func (c ProcessOrderItemCommand) NotifyUser() bool {
	return c.notifyUser
}

func (c *ProcessOrderItemCommand) setOrderItemID(orderItemID kernel.UUID) error {
	if err := orderItemID.Validate(); err != nil {
		return err
	}

	c.orderItemID = orderItemID
	return nil
}
