package commands

import (
	"errors"

	"ordering/internal/pkg/guard"
)

// CleanExpiredItemsCommand triggers removal of produced files whose
// retention period has passed.
//
// Example:
//
//	cmd := NewCleanExpiredItemsCommand()
//	handler := NewCleanExpiredItemsCommandHandler(uowFactory, processor)
//
//	// Run periodically from the scheduler
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    log.Printf("Item cleanup failed: %v", err)
//	}
type CleanExpiredItemsCommand struct {
	guard guard.ConstructorGuard
}

var ErrCleanExpiredItemsCommandIsNotConstructed = errors.New(
	"CleanExpiredItemsCommand must be created via NewCleanExpiredItemsCommand constructor",
)

// NewCleanExpiredItemsCommand creates a command to clean expired items.
// This is a parameterless command that processes all items past their
// availability window.
func NewCleanExpiredItemsCommand() CleanExpiredItemsCommand {
	command := CleanExpiredItemsCommand{
		guard: guard.NewConstructorGuard(),
	}

	return command
}

// Validate ensures the command was created through the constructor.
// Returns ErrCleanExpiredItemsCommandIsNotConstructed if validation fails.
func (c *CleanExpiredItemsCommand) Validate() error {
	return c.guard.Validate(ErrCleanExpiredItemsCommandIsNotConstructed)
}
