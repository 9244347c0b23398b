package commands

import (
	"errors"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/pkg/guard"
)

var ErrCancelOrderCommandIsNotConstructed = errors.New(
	"CancelOrderCommand must be created via NewCancelOrderCommand constructor",
)

// CancelOrderCommand represents a user's request to cancel one of their
// orders. Only the order owner may cancel.
type CancelOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	userID  kernel.UUID
	reason  string

	guard guard.ConstructorGuard
}

// NewCancelOrderCommand creates a cancellation command.
// The reason is optional; a default is recorded when it is empty.
func NewCancelOrderCommand(orderID kernel.UUID, userID kernel.UUID,
	reason string) (CancelOrderCommand, error) {
	cancelCommand := CancelOrderCommand{
		reason: reason,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cancelCommand.setOrderID(orderID),
		cancelCommand.setUserID(userID),
	); err != nil {
		return CancelOrderCommand{}, err
	}

	return cancelCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCancelOrderCommandIsNotConstructed if validation fails.
func (c CancelOrderCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderCommandIsNotConstructed)
}

// OrderID returns the identifier of the order to cancel.
func (c CancelOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// UserID returns the identifier of the requesting account.
func (c CancelOrderCommand) UserID() kernel.UUID {
	return c.userID
}

// Reason returns the user supplied cancellation reason, possibly empty.
func (c CancelOrderCommand) Reason() string {
	return c.reason
}

func (c *CancelOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CancelOrderCommand) setUserID(userID kernel.UUID) error {
	if err := userID.Validate(); err != nil {
		return err
	}

	c.userID = userID
	return nil
}
