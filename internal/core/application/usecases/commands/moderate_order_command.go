package commands

import (
	"errors"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/pkg/guard"
)

var (
	ErrModerateOrderCommandIsNotConstructed = errors.New(
		"ModerateOrderCommand must be created via NewModerateOrderCommand constructor",
	)
	ErrRejectionReasonIsRequired = errors.New("a reason is required when rejecting an order")
)

// ModerateOrderCommand represents an operator's decision on a submitted
// order: approve it into production or reject it with a reason.
type ModerateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	approve bool
	reason  string

	guard guard.ConstructorGuard
}

// NewModerateOrderCommand creates a moderation decision command.
// A rejection must carry a non-empty reason so it can be relayed to the
// order owner.
func NewModerateOrderCommand(orderID kernel.UUID, approve bool,
	reason string) (ModerateOrderCommand, error) {
	moderateCommand := ModerateOrderCommand{
		approve: approve,
		reason:  reason,
		guard:   guard.NewConstructorGuard(),
	}

	if err := moderateCommand.setOrderID(orderID); err != nil {
		return ModerateOrderCommand{}, err
	}
	if !approve && reason == "" {
		return ModerateOrderCommand{}, ErrRejectionReasonIsRequired
	}

	return moderateCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrModerateOrderCommandIsNotConstructed if validation fails.
func (c ModerateOrderCommand) Validate() error {
	return c.guard.Validate(ErrModerateOrderCommandIsNotConstructed)
}

// OrderID returns the identifier of the moderated order.
func (c ModerateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Approve reports whether the decision is an approval.
func (c ModerateOrderCommand) Approve() bool {
	return c.approve
}

// Reason returns the rejection reason. Empty for approvals.
func (c ModerateOrderCommand) Reason() string {
	return c.reason
}

func (c *ModerateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}
