package queries

import (
	"errors"

	"ordering/internal/pkg/guard"
)

var (
	ErrGetCapabilitiesQueryIsNotConstructed = errors.New(
		"GetCapabilitiesQuery must be created via NewGetCapabilitiesQuery constructor",
	)
)

// GetCapabilitiesQuery reports the static service capabilities: the
// supported operations, which order types are enabled, what each
// collection accepts and the submission ceilings. The answer comes from
// the deployment configuration only.
//
// Example:
//
//	query := NewGetCapabilitiesQuery()
//	handler := NewGetCapabilitiesQueryHandler(settings)
//
//	capabilities, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get capabilities: %w", err)
//	}
//
//	fmt.Printf("%d collections available\n", len(capabilities.Collections))
type GetCapabilitiesQuery struct {
	guard guard.ConstructorGuard
}

// NewGetCapabilitiesQuery creates a capabilities query.
// This is a parameterless query.
func NewGetCapabilitiesQuery() GetCapabilitiesQuery {
	return GetCapabilitiesQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetCapabilitiesQuery) Validate() error {
	return q.guard.Validate(ErrGetCapabilitiesQueryIsNotConstructed)
}

// CapabilitiesResponse is the static service capability description.
type CapabilitiesResponse struct {
	// Operations lists the protocol operations the service implements.
	Operations []string

	OrderTypes  []OrderTypeCapability
	Collections []CollectionCapability

	// MaxOrderItems caps the number of items in a single order.
	MaxOrderItems int

	// MaxActiveItems caps the items a user may have in production at once.
	MaxActiveItems int

	// MassiveOrderMaxSize caps the estimated item count of a massive order.
	MassiveOrderMaxSize int
}

// OrderTypeCapability reports the deployment policy for one order type.
type OrderTypeCapability struct {
	OrderType         string
	Enabled           bool
	AutomaticApproval bool
}

// CollectionCapability reports which order types one collection supports.
type CollectionCapability struct {
	Collection   string
	CollectionID string

	ProductOrders      bool
	MassiveOrders      bool
	SubscriptionOrders bool
	TaskingOrders      bool
}
