package batch

import (
	"errors"
	"time"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/pkg/errs"
)

var (
	// ErrOrderItemIsNotConstructed is returned when an OrderItem instance was
	// not created through the NewOrderItem factory method.
	ErrOrderItemIsNotConstructed = errors.New("OrderItem must be created via NewOrderItem constructor")
)

// OrderItem is one concrete unit of production inside a batch. For
// product orders it mirrors an item specification one to one; for
// massive and subscription orders many items are materialized from a
// single template specification.
//
// OrderItem follows these invariants:
//   - Terminal items never change status again: completion and failure
//     callbacks arriving after the item is terminal are ignored
//   - statusChangedOn moves only on real status transitions
//   - completedOn is set exactly when a terminal status is reached
type OrderItem struct {
	id     kernel.UUID
	specID kernel.UUID

	itemID     string
	collection string
	identifier string
	remark     string

	status                    order.Status
	additionalStatusInfo      string
	missionSpecificStatusInfo string

	createdOn       time.Time
	statusChangedOn *time.Time
	completedOn     *time.Time

	url       string
	available bool
	expiresOn *time.Time
	downloads int

	options        []order.SelectedOption
	sceneSelection []order.SelectedOption
	payment        string
	deliveryOption *order.DeliveryOption

	isConstructed bool
}

// NewOrderItem materializes a production item from an item
// specification. The item starts in the Accepted status and carries a
// snapshot of the specification's options and delivery choice so that
// processing never has to reach back into the order.
//
// Parameters:
//   - id: unique identifier of the item
//   - spec: the specification the item is produced from
//   - itemID: protocol item identifier, unique within the order
//   - identifier: catalogue identifier of the concrete product
//   - deliveryOption: the delivery option resolved for this item, nil
//     when the order carries none
func NewOrderItem(id kernel.UUID, spec *order.ItemSpecification, itemID string,
	identifier string, deliveryOption *order.DeliveryOption) (*OrderItem, error) {
	if err := id.Validate(); err != nil {
		return nil, errs.NewValueIsRequiredError("id")
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if itemID == "" {
		return nil, errs.NewValueIsRequiredError("itemId")
	}

	return &OrderItem{
		id:             id,
		specID:         spec.ID(),
		itemID:         itemID,
		collection:     spec.Collection(),
		identifier:     identifier,
		remark:         spec.Remark(),
		status:         order.Accepted,
		createdOn:      time.Now().UTC(),
		options:        spec.Options(),
		sceneSelection: spec.SceneSelection(),
		payment:        spec.Payment(),
		deliveryOption: deliveryOption,
		isConstructed:  true,
	}, nil
}

// RestoreOrderItemParams carries the persisted state of an order item.
type RestoreOrderItemParams struct {
	ID                        kernel.UUID
	SpecID                    kernel.UUID
	ItemID                    string
	Collection                string
	Identifier                string
	Remark                    string
	Status                    order.Status
	AdditionalStatusInfo      string
	MissionSpecificStatusInfo string
	CreatedOn                 time.Time
	StatusChangedOn           *time.Time
	CompletedOn               *time.Time
	URL                       string
	Available                 bool
	ExpiresOn                 *time.Time
	Downloads                 int
	Options                   []order.SelectedOption
	SceneSelection            []order.SelectedOption
	Payment                   string
	DeliveryOption            *order.DeliveryOption
}

// RestoreOrderItem reconstructs an OrderItem from persistence.
func RestoreOrderItem(params RestoreOrderItemParams) *OrderItem {
	return &OrderItem{
		id:                        params.ID,
		specID:                    params.SpecID,
		itemID:                    params.ItemID,
		collection:                params.Collection,
		identifier:                params.Identifier,
		remark:                    params.Remark,
		status:                    params.Status,
		additionalStatusInfo:      params.AdditionalStatusInfo,
		missionSpecificStatusInfo: params.MissionSpecificStatusInfo,
		createdOn:                 params.CreatedOn,
		statusChangedOn:           params.StatusChangedOn,
		completedOn:               params.CompletedOn,
		url:                       params.URL,
		available:                 params.Available,
		expiresOn:                 params.ExpiresOn,
		downloads:                 params.Downloads,
		options:                   params.Options,
		sceneSelection:            params.SceneSelection,
		payment:                   params.Payment,
		deliveryOption:            params.DeliveryOption,
		isConstructed:             true,
	}
}

// Validate ensures the OrderItem was properly constructed.
func (i *OrderItem) Validate() error {
	if i == nil || !i.isConstructed {
		return ErrOrderItemIsNotConstructed
	}
	return nil
}

// ID returns the item's unique identifier.
func (i *OrderItem) ID() kernel.UUID {
	return i.id
}

// SpecID returns the identifier of the specification the item was
// produced from.
func (i *OrderItem) SpecID() kernel.UUID {
	return i.specID
}

// ItemID returns the protocol item identifier.
func (i *OrderItem) ItemID() string {
	return i.itemID
}

// Collection returns the collection the item belongs to.
func (i *OrderItem) Collection() string {
	return i.collection
}

// Identifier returns the catalogue identifier of the product.
func (i *OrderItem) Identifier() string {
	return i.identifier
}

// Remark returns the free-text remark inherited from the specification.
func (i *OrderItem) Remark() string {
	return i.remark
}

// Status returns the current item status.
func (i *OrderItem) Status() order.Status {
	return i.status
}

// AdditionalStatusInfo returns the detail attached to the current status.
func (i *OrderItem) AdditionalStatusInfo() string {
	return i.additionalStatusInfo
}

// MissionSpecificStatusInfo returns mission-specific status detail.
func (i *OrderItem) MissionSpecificStatusInfo() string {
	return i.missionSpecificStatusInfo
}

// CreatedOn returns when the item was materialized.
func (i *OrderItem) CreatedOn() time.Time {
	return i.createdOn
}

// StatusChangedOn returns when the last real status transition happened.
func (i *OrderItem) StatusChangedOn() *time.Time {
	return i.statusChangedOn
}

// CompletedOn returns when the item reached a terminal status, or nil.
func (i *OrderItem) CompletedOn() *time.Time {
	return i.completedOn
}

// URL returns the location the produced item can be retrieved from.
func (i *OrderItem) URL() string {
	return i.url
}

// IsAvailable reports whether the produced file still exists.
func (i *OrderItem) IsAvailable() bool {
	return i.available
}

// ExpiresOn returns when the produced file is deleted, or nil.
func (i *OrderItem) ExpiresOn() *time.Time {
	return i.expiresOn
}

// Downloads returns how many times the item has been retrieved.
func (i *OrderItem) Downloads() int {
	return i.downloads
}

// Options returns the snapshot of processing options for this item.
func (i *OrderItem) Options() []order.SelectedOption {
	return i.options
}

// SceneSelection returns the snapshot of scene selection options.
func (i *OrderItem) SceneSelection() []order.SelectedOption {
	return i.sceneSelection
}

// Payment returns the payment method inherited from the specification.
func (i *OrderItem) Payment() string {
	return i.payment
}

// DeliveryOption returns the delivery option resolved for this item.
func (i *OrderItem) DeliveryOption() *order.DeliveryOption {
	return i.deliveryOption
}

// MarkInProduction records that processing of the item has started.
// Terminal items are left untouched and false is returned.
func (i *OrderItem) MarkInProduction() bool {
	return i.changeStatus(order.InProduction, "Item is being processed")
}

// Complete records a successful production result.
//
// The call is idempotent: once the item is terminal, later completion
// callbacks do not change anything and false is returned.
//
// Parameters:
//   - url: location the produced item can be retrieved from
//   - expiresOn: when the produced file will be deleted
func (i *OrderItem) Complete(url string, expiresOn time.Time) bool {
	if i.status.IsTerminal() {
		return false
	}
	if !i.changeStatus(order.Completed, "Item processed") {
		return false
	}
	exp := expiresOn.UTC()
	i.url = url
	i.available = true
	i.expiresOn = &exp
	return true
}

// Fail records a failed production attempt with a human-readable
// reason. Terminal items are left untouched and false is returned.
func (i *OrderItem) Fail(reason string) bool {
	if i.status.IsTerminal() {
		return false
	}
	if reason == "" {
		reason = "Item processing failed"
	}
	return i.changeStatus(order.Failed, reason)
}

// RecordDownload counts a retrieval of the produced item and moves a
// completed item to the Downloaded status.
func (i *OrderItem) RecordDownload() {
	i.downloads++
	if i.status == order.Completed {
		i.changeStatus(order.Downloaded, "Item has been downloaded")
	}
}

// Expire marks the produced file as deleted after its retention period.
func (i *OrderItem) Expire() {
	i.available = false
	i.url = ""
}

func (i *OrderItem) changeStatus(next order.Status, info string) bool {
	if i.status == next {
		i.additionalStatusInfo = info
		return false
	}
	now := time.Now().UTC()
	i.status = next
	i.additionalStatusInfo = info
	i.statusChangedOn = &now
	if next.IsTerminal() && i.completedOn == nil {
		i.completedOn = &now
	}
	return true
}
