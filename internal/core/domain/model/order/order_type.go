package order

import (
	"fmt"

	"ordering/internal/pkg/errs"
)

// MassiveOrderReference is the reserved order reference that turns a
// product order request into a massive order.
const MassiveOrderReference = "Massive order"

// Type distinguishes the four kinds of orders the service accepts.
// The type decides how an order is dispatched after moderation and
// how its status is aggregated from its batches.
type Type int

const (
	// TypeUnknown represents an invalid or undefined order type.
	TypeUnknown Type = iota

	// TypeProduct orders a fixed set of already-archived products.
	// It is processed as a single batch.
	TypeProduct

	// TypeMassive orders a whole collection over a time period. Its
	// items are resolved server-side and processed in multiple
	// sequential batches.
	TypeMassive

	// TypeSubscription keeps producing items as new products are
	// ingested. Batches are materialized on demand per timeslot.
	TypeSubscription

	// TypeTasking requests future acquisitions. Accepted into the
	// lifecycle but batch creation is not implemented.
	TypeTasking
)

func getTypeStrings() map[Type]string {
	return map[Type]string{
		TypeUnknown:      "Unknown",
		TypeProduct:      "PRODUCT_ORDER",
		TypeMassive:      "MASSIVE_ORDER",
		TypeSubscription: "SUBSCRIPTION_ORDER",
		TypeTasking:      "TASKING_ORDER",
	}
}

// ParseType converts a protocol string into a Type.
func ParseType(s string) (Type, error) {
	for t, name := range getTypeStrings() {
		if name == s && t != TypeUnknown {
			return t, nil
		}
	}
	return TypeUnknown, errs.NewValueIsInvalidErrorWithCause("orderType",
		fmt.Errorf("%q is not a valid order type", s))
}

// Validate checks if the Type value is valid.
func (t Type) Validate() error {
	if t == TypeUnknown {
		return errs.NewValueIsInvalidErrorWithCause("orderType",
			fmt.Errorf("%d is not a valid order type", t))
	}
	if _, ok := getTypeStrings()[t]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("orderType",
			fmt.Errorf("%d is not a valid order type", t))
	}
	return nil
}

// String returns the protocol name of the order type.
func (t Type) String() string {
	if str, ok := getTypeStrings()[t]; ok {
		return str
	}
	return "Unknown"
}

// Priority is the processing priority requested by the client.
type Priority string

const (
	PriorityStandard Priority = "STANDARD"
	PriorityFast     Priority = "FAST_TRACK"
)

// Validate checks if the Priority value is one of the accepted values.
// An empty priority is valid and treated as PriorityStandard.
func (p Priority) Validate() error {
	switch p {
	case "", PriorityStandard, PriorityFast:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("priority",
			fmt.Errorf("%q is not a valid priority", string(p)))
	}
}

// StatusNotification selects which lifecycle changes the user is
// notified about.
type StatusNotification string

const (
	NotificationNone  StatusNotification = "None"
	NotificationFinal StatusNotification = "Final"
	NotificationAll   StatusNotification = "All"
)

// Validate checks if the StatusNotification value is accepted. An
// empty value is valid and treated as NotificationNone.
func (n StatusNotification) Validate() error {
	switch n {
	case "", NotificationNone, NotificationFinal, NotificationAll:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("statusNotification",
			fmt.Errorf("%q is not a valid status notification", string(n)))
	}
}

// Presentation selects how much detail a status report carries.
type Presentation string

const (
	// PresentationBrief reports order-level fields only.
	PresentationBrief Presentation = "brief"

	// PresentationFull additionally reports every order item.
	PresentationFull Presentation = "full"
)

// Validate checks if the Presentation value is accepted.
func (p Presentation) Validate() error {
	switch p {
	case PresentationBrief, PresentationFull:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("presentation",
			fmt.Errorf("%q is not a valid presentation", string(p)))
	}
}
