package commands

import (
	"errors"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/pkg/guard"
)

// Result access sub-functions select which ready items are reported.
const (
	// SubFunctionAllReady reports every item that is currently ready.
	SubFunctionAllReady = "allReady"

	// SubFunctionNextReady reports only the items that became ready
	// since the previous result access request.
	SubFunctionNextReady = "nextReady"
)

var (
	ErrDescribeResultAccessCommandIsNotConstructed = errors.New(
		"DescribeResultAccessCommand must be created via NewDescribeResultAccessCommand constructor",
	)
	ErrSubFunctionIsInvalid = errors.New(
		"subFunction must be one of allReady, nextReady",
	)
)

// DescribeResultAccessCommand asks where the ready items of an order
// can be retrieved from. It is a command rather than a query because
// answering records the access request on the order, which is what the
// nextReady sub-function keys on.
type DescribeResultAccessCommand struct { //nolint:recvcheck //using for validation
	orderID     kernel.UUID
	userID      kernel.UUID
	subFunction string

	guard guard.ConstructorGuard
}

// NewDescribeResultAccessCommand creates a result access command.
// An empty sub-function defaults to allReady.
func NewDescribeResultAccessCommand(orderID kernel.UUID, userID kernel.UUID,
	subFunction string) (DescribeResultAccessCommand, error) {
	accessCommand := DescribeResultAccessCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		accessCommand.setOrderID(orderID),
		accessCommand.setUserID(userID),
		accessCommand.setSubFunction(subFunction),
	); err != nil {
		return DescribeResultAccessCommand{}, err
	}

	return accessCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrDescribeResultAccessCommandIsNotConstructed if validation fails.
func (c DescribeResultAccessCommand) Validate() error {
	return c.guard.Validate(ErrDescribeResultAccessCommandIsNotConstructed)
}

// OrderID returns the identifier of the order being asked about.
func (c DescribeResultAccessCommand) OrderID() kernel.UUID {
	return c.orderID
}

// UserID returns the identifier of the requesting account.
func (c DescribeResultAccessCommand) UserID() kernel.UUID {
	return c.userID
}

// SubFunction returns the selected reporting mode.
func (c DescribeResultAccessCommand) SubFunction() string {
	return c.subFunction
}

func (c *DescribeResultAccessCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *DescribeResultAccessCommand) setUserID(userID kernel.UUID) error {
	if err := userID.Validate(); err != nil {
		return err
	}

	c.userID = userID
	return nil
}

func (c *DescribeResultAccessCommand) setSubFunction(subFunction string) error {
	switch subFunction {
	case "":
		c.subFunction = SubFunctionAllReady
	case SubFunctionAllReady, SubFunctionNextReady:
		c.subFunction = subFunction
	default:
		return ErrSubFunctionIsInvalid
	}
	return nil
}
