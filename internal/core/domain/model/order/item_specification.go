package order

import (
	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/pkg/errs"
	"ordering/internal/pkg/guard"
)

// ErrItemSpecificationNotConstructed indicates that an ItemSpecification
// was not created via NewItemSpecification.
var ErrItemSpecificationNotConstructed = errs.NewValueIsRequiredError(
	"ItemSpecification must be created via NewItemSpecification")

// ItemSpecification is what the client asked for in one item of the
// order. It is immutable once the order is submitted: processing never
// touches the specification, it only creates concrete order items from
// it. Subscription and massive orders carry a single specification that
// acts as a template for every materialized item.
type ItemSpecification struct {
	id         kernel.UUID
	itemID     string
	collection string
	identifier string
	remark     string

	options        []SelectedOption
	sceneSelection []SelectedOption
	payment        string
	deliveryOption *DeliveryOption

	guard guard.ConstructorGuard
}

// NewItemSpecification creates an ItemSpecification.
//
// Parameters:
//   - id: unique identifier of the specification
//   - itemID: the client-assigned item identifier, unique within the order
//   - collection: name of the collection the item belongs to
//   - identifier: catalogue identifier of the ordered product; empty for
//     subscription and tasking items, which have no concrete product yet
//
// Errors:
//   - errs.ValueIsRequiredError: if id is a zero value, or itemID or
//     collection is empty
func NewItemSpecification(id kernel.UUID, itemID string, collection string,
	identifier string, remark string) (*ItemSpecification, error) {
	if err := id.Validate(); err != nil {
		return nil, errs.NewValueIsRequiredError("id")
	}
	if itemID == "" {
		return nil, errs.NewValueIsRequiredError("itemId")
	}
	if collection == "" {
		return nil, errs.NewValueIsRequiredError("collection")
	}
	return &ItemSpecification{
		id:         id,
		itemID:     itemID,
		collection: collection,
		identifier: identifier,
		remark:     remark,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// RestoreItemSpecification reconstructs an ItemSpecification from
// persistence without running submission-time validation.
func RestoreItemSpecification(id kernel.UUID, itemID string, collection string,
	identifier string, remark string, options []SelectedOption,
	sceneSelection []SelectedOption, payment string,
	deliveryOption *DeliveryOption) *ItemSpecification {
	return &ItemSpecification{
		id:             id,
		itemID:         itemID,
		collection:     collection,
		identifier:     identifier,
		remark:         remark,
		options:        options,
		sceneSelection: sceneSelection,
		payment:        payment,
		deliveryOption: deliveryOption,
		guard:          guard.NewConstructorGuard(),
	}
}

// ID returns the specification identifier.
func (s *ItemSpecification) ID() kernel.UUID {
	return s.id
}

// ItemID returns the client-assigned item identifier.
func (s *ItemSpecification) ItemID() string {
	return s.itemID
}

// Collection returns the collection the item belongs to.
func (s *ItemSpecification) Collection() string {
	return s.collection
}

// Identifier returns the catalogue identifier of the ordered product.
// It is empty for subscription and tasking items.
func (s *ItemSpecification) Identifier() string {
	return s.identifier
}

// Remark returns the client's free-text remark for the item.
func (s *ItemSpecification) Remark() string {
	return s.remark
}

// Options returns the parsed processing options of the item.
func (s *ItemSpecification) Options() []SelectedOption {
	return s.options
}

// SceneSelection returns the parsed scene selection options of the item.
func (s *ItemSpecification) SceneSelection() []SelectedOption {
	return s.sceneSelection
}

// Payment returns the requested payment method, which may be empty.
func (s *ItemSpecification) Payment() string {
	return s.payment
}

// DeliveryOption returns the item-level delivery option, or nil when
// the item falls back to the order-level one.
func (s *ItemSpecification) DeliveryOption() *DeliveryOption {
	return s.deliveryOption
}

// AttachOption adds a parsed processing option to the item.
func (s *ItemSpecification) AttachOption(option SelectedOption) error {
	if err := option.Validate(); err != nil {
		return err
	}
	s.options = append(s.options, option)
	return nil
}

// AttachSceneSelectionOption adds a parsed scene selection option to the item.
func (s *ItemSpecification) AttachSceneSelectionOption(option SelectedOption) error {
	if err := option.Validate(); err != nil {
		return err
	}
	s.sceneSelection = append(s.sceneSelection, option)
	return nil
}

// SetPayment records the requested payment method.
func (s *ItemSpecification) SetPayment(payment string) {
	s.payment = payment
}

// SetDeliveryOption attaches an item-level delivery option, which
// overrides the order-level one for this item.
func (s *ItemSpecification) SetDeliveryOption(option DeliveryOption) error {
	if err := option.Validate(); err != nil {
		return err
	}
	s.deliveryOption = &option
	return nil
}

// Validate checks that the ItemSpecification was created via its constructor.
func (s *ItemSpecification) Validate() error {
	return s.guard.Validate(ErrItemSpecificationNotConstructed)
}
