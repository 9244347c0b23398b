package commands

import (
	"errors"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/services"
	"ordering/internal/pkg/guard"
)

var ErrSubmitOrderCommandIsNotConstructed = errors.New(
	"SubmitOrderCommand must be created via NewSubmitOrderCommand constructor",
)

// SubmitOrderCommand represents a request to submit a new product order.
// Carries the submitting account and the decoded submission payload.
//
// Example:
//
//	cmd, err := NewSubmitOrderCommand(user, request)
//	if err != nil {
//	    return fmt.Errorf("invalid submission: %w", err)
//	}
//
//	result, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("submission rejected: %w", err)
//	}
//	fmt.Printf("Order %s accepted in status %s", result.OrderID, result.Status)
type SubmitOrderCommand struct { //nolint:recvcheck //using for validation
	user    kernel.User
	request services.OrderRequest

	guard guard.ConstructorGuard
}

// NewSubmitOrderCommand creates a command to submit a new order.
// Validates that the submitting user is a properly constructed account.
// The payload itself is validated by the order builder during handling.
func NewSubmitOrderCommand(user kernel.User, request services.OrderRequest) (SubmitOrderCommand, error) {
	submitCommand := SubmitOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := submitCommand.setUser(user); err != nil {
		return SubmitOrderCommand{}, err
	}
	submitCommand.request = request

	return submitCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrSubmitOrderCommandIsNotConstructed if validation fails.
func (c SubmitOrderCommand) Validate() error {
	return c.guard.Validate(ErrSubmitOrderCommandIsNotConstructed)
}

// User returns the submitting account.
func (c SubmitOrderCommand) User() kernel.User {
	return c.user
}

// Request returns the decoded submission payload.
func (c SubmitOrderCommand) Request() services.OrderRequest {
	return c.request
}

func (c *SubmitOrderCommand) setUser(user kernel.User) error {
	if err := user.Validate(); err != nil {
		return err
	}

	c.user = user
	return nil
}
