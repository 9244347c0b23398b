package batch

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/pkg/errs"
)

var (
	// ErrBatchIsNotConstructed is returned when a Batch instance was not
	// created through one of the factory methods.
	ErrBatchIsNotConstructed = errors.New("Batch must be created via NewBatch constructor")
)

// Batch is the aggregate root of the production side of an order. It
// groups the order items that are processed together: a product order
// has exactly one batch, a massive order has a sequence of them, and a
// subscription order gets one batch per timeslot and collection.
//
// Batch follows these invariants:
//   - Its status is a pure function of its items' statuses once any
//     item exists (the tally rule, see ResolveStatus)
//   - A subscription batch is unique per (order, timeslot, collection)
//   - completedOn is set exactly when the tally reaches a terminal state
type Batch struct {
	id      kernel.UUID
	orderID kernel.UUID

	// index orders the batches of a massive order. Always 0 for
	// product orders.
	index int

	status               order.Status
	additionalStatusInfo string

	createdOn   time.Time
	updatedOn   time.Time
	completedOn *time.Time

	// timeslot and collection identify a subscription batch. Unset for
	// other order types.
	timeslot   *time.Time
	collection string

	items []*OrderItem

	isConstructed bool
}

// NewBatch creates a batch for a product or massive order.
//
// Parameters:
//   - id: unique identifier of the batch
//   - orderID: the order the batch belongs to
//   - index: position in the batch sequence of a massive order, 0 for
//     product orders
func NewBatch(id kernel.UUID, orderID kernel.UUID, index int) (*Batch, error) {
	if err := id.Validate(); err != nil {
		return nil, errs.NewValueIsRequiredError("id")
	}
	if err := orderID.Validate(); err != nil {
		return nil, errs.NewValueIsRequiredError("orderId")
	}
	if index < 0 {
		return nil, errs.NewValueIsOutOfRangeError("index", index, 0, int(^uint(0)>>1))
	}

	now := time.Now().UTC()
	return &Batch{
		id:            id,
		orderID:       orderID,
		index:         index,
		status:        order.Accepted,
		createdOn:     now,
		updatedOn:     now,
		isConstructed: true,
	}, nil
}

// NewSubscriptionBatch creates the batch that materializes one timeslot
// of a subscription order for one collection.
func NewSubscriptionBatch(id kernel.UUID, orderID kernel.UUID, timeslot time.Time,
	collection string) (*Batch, error) {
	if collection == "" {
		return nil, errs.NewValueIsRequiredError("collection")
	}
	b, err := NewBatch(id, orderID, 0)
	if err != nil {
		return nil, err
	}
	ts := timeslot.UTC()
	b.timeslot = &ts
	b.collection = collection
	return b, nil
}

// RestoreBatchParams carries the persisted state of a batch.
type RestoreBatchParams struct {
	ID                   kernel.UUID
	OrderID              kernel.UUID
	Index                int
	Status               order.Status
	AdditionalStatusInfo string
	CreatedOn            time.Time
	UpdatedOn            time.Time
	CompletedOn          *time.Time
	Timeslot             *time.Time
	Collection           string
	Items                []*OrderItem
}

// RestoreBatch reconstructs a Batch from persistence.
func RestoreBatch(params RestoreBatchParams) *Batch {
	return &Batch{
		id:                   params.ID,
		orderID:              params.OrderID,
		index:                params.Index,
		status:               params.Status,
		additionalStatusInfo: params.AdditionalStatusInfo,
		createdOn:            params.CreatedOn,
		updatedOn:            params.UpdatedOn,
		completedOn:          params.CompletedOn,
		timeslot:             params.Timeslot,
		collection:           params.Collection,
		items:                params.Items,
		isConstructed:        true,
	}
}

// Validate ensures the Batch was properly constructed.
func (b *Batch) Validate() error {
	if b == nil || !b.isConstructed {
		return ErrBatchIsNotConstructed
	}
	return nil
}

// ID returns the batch's unique identifier.
func (b *Batch) ID() kernel.UUID {
	return b.id
}

// OrderID returns the order the batch belongs to.
func (b *Batch) OrderID() kernel.UUID {
	return b.orderID
}

// Index returns the position of the batch in a massive order sequence.
func (b *Batch) Index() int {
	return b.index
}

// Status returns the current batch status.
func (b *Batch) Status() order.Status {
	return b.status
}

// AdditionalStatusInfo returns the detail attached to the current status.
func (b *Batch) AdditionalStatusInfo() string {
	return b.additionalStatusInfo
}

// CreatedOn returns when the batch was created.
func (b *Batch) CreatedOn() time.Time {
	return b.createdOn
}

// UpdatedOn returns when the batch last changed.
func (b *Batch) UpdatedOn() time.Time {
	return b.updatedOn
}

// CompletedOn returns when the batch reached a terminal status, or nil.
func (b *Batch) CompletedOn() *time.Time {
	return b.completedOn
}

// Timeslot returns the timeslot of a subscription batch, or nil.
func (b *Batch) Timeslot() *time.Time {
	return b.timeslot
}

// Collection returns the collection of a subscription batch, or the
// empty string for other batches.
func (b *Batch) Collection() string {
	return b.collection
}

// Items returns the order items of the batch.
func (b *Batch) Items() []*OrderItem {
	return b.items
}

// Item returns the order item with the given identifier.
//
// Errors:
//   - errs.ObjectNotFoundError: if the batch holds no such item
func (b *Batch) Item(id kernel.UUID) (*OrderItem, error) {
	for _, item := range b.items {
		if item.ID().IsEqual(id) {
			return item, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("orderItemId", id.String())
}

// AddItem attaches an order item to the batch.
func (b *Batch) AddItem(item *OrderItem) error {
	if err := item.Validate(); err != nil {
		return err
	}
	b.items = append(b.items, item)
	b.updatedOn = time.Now().UTC()
	return nil
}

// MaterializeItems creates one order item per resolved product
// identifier from a template specification. It is used for massive
// batches and subscription batches, where the concrete products are
// only known server-side.
//
// The protocol item identifier of each created item is derived from
// the order reference, the batch identifier and the product
// identifier, so items stay addressable across batches.
func (b *Batch) MaterializeItems(template *order.ItemSpecification, reference string,
	identifiers []string, deliveryOption *order.DeliveryOption) error {
	if err := template.Validate(); err != nil {
		return err
	}
	for _, identifier := range identifiers {
		itemID := SubscriptionItemID(reference, b.id, identifier)
		item, err := NewOrderItem(kernel.NewUUID(), template, itemID, identifier, deliveryOption)
		if err != nil {
			return err
		}
		if err = b.AddItem(item); err != nil {
			return err
		}
	}
	return nil
}

// SubscriptionItemID derives the protocol item identifier of a
// materialized item.
func SubscriptionItemID(reference string, batchID kernel.UUID, identifier string) string {
	parts := []string{reference, batchID.String(), identifier}
	return strings.Join(parts, "-")
}

// ResolveStatus computes the batch status from its items without
// mutating anything:
//
//   - Completed when every item is terminal and none failed
//   - Failed when every item is terminal and at least one failed
//   - InProduction otherwise
//
// A batch without items keeps its current status.
func (b *Batch) ResolveStatus() order.Status {
	if len(b.items) == 0 {
		return b.status
	}
	anyFailed := false
	for _, item := range b.items {
		if !item.Status().IsTerminal() {
			return order.InProduction
		}
		if item.Status() == order.Failed {
			anyFailed = true
		}
	}
	if anyFailed {
		return order.Failed
	}
	return order.Completed
}

// Refresh applies the tally rule to the batch's own status.
//
// Returns:
//   - true when the batch status actually changed
func (b *Batch) Refresh() bool {
	next := b.ResolveStatus()
	if next == b.status {
		return false
	}

	now := time.Now().UTC()
	b.status = next
	b.updatedOn = now
	switch next {
	case order.Completed:
		b.additionalStatusInfo = "All items have been processed"
		b.completedOn = &now
	case order.Failed:
		b.additionalStatusInfo = b.failureSummary()
		b.completedOn = &now
	default:
		b.additionalStatusInfo = "Items are being processed"
		b.completedOn = nil
	}
	return true
}

func (b *Batch) failureSummary() string {
	var failed []string
	for _, item := range b.items {
		if item.Status() == order.Failed {
			failed = append(failed, fmt.Sprintf("%s: %s", item.ItemID(), item.AdditionalStatusInfo()))
		}
	}
	return "Processing of some items failed: " + strings.Join(failed, "; ")
}
