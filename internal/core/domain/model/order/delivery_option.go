package order

import (
	"fmt"

	"ordering/internal/pkg/errs"
	"ordering/internal/pkg/guard"
)

// ErrDeliveryOptionNotConstructed indicates that a DeliveryOption was not
// created via NewDeliveryOption.
var ErrDeliveryOptionNotConstructed = errs.NewValueIsRequiredError(
	"DeliveryOption must be created via NewDeliveryOption")

// DeliveryType is the channel a produced item is handed over on.
type DeliveryType int

const (
	// DeliveryUnknown represents an invalid or undefined delivery type.
	DeliveryUnknown DeliveryType = iota

	// DeliveryOnlineDataAccess publishes the item at a URL the user
	// pulls from. Only items delivered this way are reported by the
	// result access operation.
	DeliveryOnlineDataAccess

	// DeliveryOnlineDataDelivery pushes the item to a user endpoint.
	DeliveryOnlineDataDelivery

	// DeliveryMedia ships the item on physical media.
	DeliveryMedia
)

func getDeliveryTypeStrings() map[DeliveryType]string {
	return map[DeliveryType]string{
		DeliveryUnknown:            "Unknown",
		DeliveryOnlineDataAccess:   "onlinedataaccess",
		DeliveryOnlineDataDelivery: "onlinedatadelivery",
		DeliveryMedia:              "mediadelivery",
	}
}

// ParseDeliveryType converts a protocol string into a DeliveryType.
func ParseDeliveryType(s string) (DeliveryType, error) {
	for t, name := range getDeliveryTypeStrings() {
		if name == s && t != DeliveryUnknown {
			return t, nil
		}
	}
	return DeliveryUnknown, errs.NewValueIsInvalidErrorWithCause("deliveryOptions",
		fmt.Errorf("%q is not a valid delivery type", s))
}

// Validate checks if the DeliveryType value is valid.
func (t DeliveryType) Validate() error {
	if t == DeliveryUnknown {
		return errs.NewValueIsInvalidErrorWithCause("deliveryOptions",
			fmt.Errorf("%d is not a valid delivery type", t))
	}
	if _, ok := getDeliveryTypeStrings()[t]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("deliveryOptions",
			fmt.Errorf("%d is not a valid delivery type", t))
	}
	return nil
}

// String returns the protocol name of the delivery type.
func (t DeliveryType) String() string {
	if str, ok := getDeliveryTypeStrings()[t]; ok {
		return str
	}
	return "Unknown"
}

// DeliveryOption is a value object describing how produced items are
// handed over. It can be attached to a whole order or to a single item
// specification; the item-level option wins when both are present.
type DeliveryOption struct {
	deliveryType        DeliveryType
	protocol            string
	copies              int
	annotation          string
	specialInstructions string

	guard guard.ConstructorGuard
}

// NewDeliveryOption creates a DeliveryOption.
//
// Parameters:
//   - deliveryType: the delivery channel
//   - protocol: channel detail, e.g. "ftp" or "DVD", validated against
//     the collection configuration at submission time
//   - copies: number of copies, 0 means one
//
// Errors:
//   - errs.ValueIsInvalidError: if deliveryType is invalid
//   - errs.ValueIsOutOfRangeError: if copies is negative
func NewDeliveryOption(deliveryType DeliveryType, protocol string, copies int,
	annotation string, specialInstructions string) (DeliveryOption, error) {
	if err := deliveryType.Validate(); err != nil {
		return DeliveryOption{}, err
	}
	if copies < 0 {
		return DeliveryOption{}, errs.NewValueIsOutOfRangeError("copies", copies, 0, maxCopies)
	}
	return DeliveryOption{
		deliveryType:        deliveryType,
		protocol:            protocol,
		copies:              copies,
		annotation:          annotation,
		specialInstructions: specialInstructions,
		guard:               guard.NewConstructorGuard(),
	}, nil
}

const maxCopies = 99

// Type returns the delivery channel.
func (d DeliveryOption) Type() DeliveryType {
	return d.deliveryType
}

// Protocol returns the channel detail, e.g. the transfer protocol for
// online delivery or the medium for media delivery.
func (d DeliveryOption) Protocol() string {
	return d.protocol
}

// Copies returns the requested number of copies, 0 meaning one.
func (d DeliveryOption) Copies() int {
	return d.copies
}

// Annotation returns the free-text annotation for the delivery.
func (d DeliveryOption) Annotation() string {
	return d.annotation
}

// SpecialInstructions returns the free-text handling instructions.
func (d DeliveryOption) SpecialInstructions() string {
	return d.specialInstructions
}

// Validate checks that the DeliveryOption was created via its constructor.
func (d DeliveryOption) Validate() error {
	return d.guard.Validate(ErrDeliveryOptionNotConstructed)
}
