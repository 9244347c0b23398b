package commands

import (
	"errors"

	"ordering/internal/pkg/guard"
)

// TerminateSubscriptionsCommand triggers termination of every
// subscription order whose validity period has ended.
//
// Example:
//
//	cmd := NewTerminateSubscriptionsCommand()
//	handler := NewTerminateSubscriptionsCommandHandler(uowFactory, notifier)
//
//	// Run periodically from the scheduler
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    log.Printf("Subscription termination failed: %v", err)
//	}
type TerminateSubscriptionsCommand struct {
	guard guard.ConstructorGuard
}

var ErrTerminateSubscriptionsCommandIsNotConstructed = errors.New(
	"TerminateSubscriptionsCommand must be created via NewTerminateSubscriptionsCommand constructor",
)

// NewTerminateSubscriptionsCommand creates a command to terminate expired
// subscriptions. This is a parameterless command that processes all
// subscriptions past their validity period.
func NewTerminateSubscriptionsCommand() TerminateSubscriptionsCommand {
	command := TerminateSubscriptionsCommand{
		guard: guard.NewConstructorGuard(),
	}

	return command
}

// Validate ensures the command was created through the constructor.
// Returns ErrTerminateSubscriptionsCommandIsNotConstructed if validation fails.
func (c *TerminateSubscriptionsCommand) Validate() error {
	return c.guard.Validate(ErrTerminateSubscriptionsCommandIsNotConstructed)
}
