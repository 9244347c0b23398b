package order

import (
	"errors"
	"fmt"
	"time"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// the NewOrder factory method. This ensures all orders are properly validated.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// Order is the aggregate root of the ordering domain. It holds what the
// user asked for (the item specifications and order-wide options) and
// tracks the lifecycle of the request from submission through
// moderation to production.
//
// Order follows these invariants:
//   - Must have a valid unique identifier, owner and type
//   - statusChangedOn moves only on real status transitions, never on
//     a write of the current status
//   - completedOn is set exactly when a terminal status is reached and
//     cleared if processing resumes
//   - Item specifications are immutable after submission
//   - Can only be created through NewOrder constructor
//
// Concrete production artifacts (batches, order items) live in their
// own aggregate; Order only carries the request side and the
// aggregated status.
type Order struct {
	id   kernel.UUID
	user kernel.User

	orderType Type
	status    Status

	additionalStatusInfo      string
	missionSpecificStatusInfo string

	reference string
	remark    string
	priority  Priority
	packaging string

	statusNotification StatusNotification

	createdOn               time.Time
	statusChangedOn         *time.Time
	completedOn             *time.Time
	lastResultAccessRequest *time.Time

	// subscriptionBegin/End bound the validity period of a
	// subscription order. Unset for other types.
	subscriptionBegin *time.Time
	subscriptionEnd   *time.Time

	// estimatedBatches is the number of batches a massive order is
	// expected to need. Zero for other types.
	estimatedBatches int

	extensions []string

	options        []SelectedOption
	deliveryOption *DeliveryOption

	deliveryAddress *Address
	invoiceAddress  *Address

	itemSpecifications []*ItemSpecification

	events []Event

	isConstructed bool
}

// NewOrder creates an Order in the Submitted status. This is the only
// way to create a valid Order, ensuring all business invariants are
// maintained.
//
// Parameters:
//   - id: unique identifier for the order
//   - user: the account submitting the order
//   - orderType: one of the four order kinds
//
// Returns:
//   - *Order: the created order if all validations pass
//   - error: validation error if any parameter is invalid
//
// The created order raises a SubmittedEvent. Optional attributes are
// attached through setters before the order is persisted.
func NewOrder(id kernel.UUID, user kernel.User, orderType Type) (*Order, error) {
	if err := id.Validate(); err != nil {
		return nil, errs.NewValueIsRequiredError("id")
	}
	if err := user.Validate(); err != nil {
		return nil, errs.NewValueIsRequiredError("user")
	}
	if err := orderType.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	o := &Order{
		id:            id,
		user:          user,
		orderType:     orderType,
		status:        Submitted,
		createdOn:     now,
		isConstructed: true,
	}
	o.events = append(o.events, SubmittedEvent{OrderID: id, OccurredOn: now})
	return o, nil
}

// RestoreOrderParams carries the persisted state of an order.
type RestoreOrderParams struct {
	ID                        kernel.UUID
	User                      kernel.User
	OrderType                 Type
	Status                    Status
	AdditionalStatusInfo      string
	MissionSpecificStatusInfo string
	Reference                 string
	Remark                    string
	Priority                  Priority
	Packaging                 string
	StatusNotification        StatusNotification
	CreatedOn                 time.Time
	StatusChangedOn           *time.Time
	CompletedOn               *time.Time
	LastResultAccessRequest   *time.Time
	SubscriptionBegin         *time.Time
	SubscriptionEnd           *time.Time
	EstimatedBatches          int
	Extensions                []string
	Options                   []SelectedOption
	DeliveryOption            *DeliveryOption
	DeliveryAddress           *Address
	InvoiceAddress            *Address
	ItemSpecifications        []*ItemSpecification
}

// RestoreOrder reconstructs an Order from persistence without running
// submission-time validation and without raising events.
func RestoreOrder(params RestoreOrderParams) *Order {
	return &Order{
		id:                        params.ID,
		user:                      params.User,
		orderType:                 params.OrderType,
		status:                    params.Status,
		additionalStatusInfo:      params.AdditionalStatusInfo,
		missionSpecificStatusInfo: params.MissionSpecificStatusInfo,
		reference:                 params.Reference,
		remark:                    params.Remark,
		priority:                  params.Priority,
		packaging:                 params.Packaging,
		statusNotification:        params.StatusNotification,
		createdOn:                 params.CreatedOn,
		statusChangedOn:           params.StatusChangedOn,
		completedOn:               params.CompletedOn,
		lastResultAccessRequest:   params.LastResultAccessRequest,
		subscriptionBegin:         params.SubscriptionBegin,
		subscriptionEnd:           params.SubscriptionEnd,
		estimatedBatches:          params.EstimatedBatches,
		extensions:                params.Extensions,
		options:                   params.Options,
		deliveryOption:            params.DeliveryOption,
		deliveryAddress:           params.DeliveryAddress,
		invoiceAddress:            params.InvoiceAddress,
		itemSpecifications:        params.ItemSpecifications,
		isConstructed:             true,
	}
}

// Validate ensures the Order instance was properly constructed through NewOrder.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// User returns the account that owns the order.
func (o *Order) User() kernel.User {
	return o.user
}

// Type returns the order kind.
func (o *Order) Type() Type {
	return o.orderType
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// AdditionalStatusInfo returns the human-readable detail attached to
// the current status.
func (o *Order) AdditionalStatusInfo() string {
	return o.additionalStatusInfo
}

// MissionSpecificStatusInfo returns mission-specific status detail.
func (o *Order) MissionSpecificStatusInfo() string {
	return o.missionSpecificStatusInfo
}

// Reference returns the client-assigned order reference.
func (o *Order) Reference() string {
	return o.reference
}

// Remark returns the client's free-text remark.
func (o *Order) Remark() string {
	return o.remark
}

// Priority returns the requested processing priority.
func (o *Order) Priority() Priority {
	return o.priority
}

// Packaging returns the requested packaging, which the service does not
// implement and therefore rejects at submission when non-empty.
func (o *Order) Packaging() string {
	return o.packaging
}

// StatusNotification returns the requested notification mode.
func (o *Order) StatusNotification() StatusNotification {
	return o.statusNotification
}

// CreatedOn returns when the order entered the lifecycle.
func (o *Order) CreatedOn() time.Time {
	return o.createdOn
}

// StatusChangedOn returns when the last real status transition
// happened, or nil when the order never left Submitted.
func (o *Order) StatusChangedOn() *time.Time {
	return o.statusChangedOn
}

// CompletedOn returns when the order reached a terminal status, or nil.
func (o *Order) CompletedOn() *time.Time {
	return o.completedOn
}

// LastResultAccessRequest returns when result access was last reported
// for this order, or nil when it never was.
func (o *Order) LastResultAccessRequest() *time.Time {
	return o.lastResultAccessRequest
}

// SubscriptionPeriod returns the validity period of a subscription
// order. Both bounds may be nil.
func (o *Order) SubscriptionPeriod() (*time.Time, *time.Time) {
	return o.subscriptionBegin, o.subscriptionEnd
}

// EstimatedBatches returns how many batches a massive order needs.
func (o *Order) EstimatedBatches() int {
	return o.estimatedBatches
}

// Extensions returns the free-text protocol extensions of the order.
func (o *Order) Extensions() []string {
	return o.extensions
}

// HasExtension reports whether the named extension was requested.
func (o *Order) HasExtension(name string) bool {
	for _, e := range o.extensions {
		if e == name {
			return true
		}
	}
	return false
}

// Options returns the order-wide processing options.
func (o *Order) Options() []SelectedOption {
	return o.options
}

// DeliveryOption returns the order-level delivery option, or nil.
func (o *Order) DeliveryOption() *DeliveryOption {
	return o.deliveryOption
}

// DeliveryAddress returns the delivery address, or nil.
func (o *Order) DeliveryAddress() *Address {
	return o.deliveryAddress
}

// InvoiceAddress returns the invoice address, or nil.
func (o *Order) InvoiceAddress() *Address {
	return o.invoiceAddress
}

// ItemSpecifications returns what the user ordered, item by item.
func (o *Order) ItemSpecifications() []*ItemSpecification {
	return o.itemSpecifications
}

// ItemSpecification returns the specification with the given
// client-assigned item identifier.
//
// Errors:
//   - errs.ObjectNotFoundError: if no such item exists in the order
func (o *Order) ItemSpecification(itemID string) (*ItemSpecification, error) {
	for _, s := range o.itemSpecifications {
		if s.ItemID() == itemID {
			return s, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("itemId", itemID)
}

// SetReference records the client-assigned order reference.
func (o *Order) SetReference(reference string) {
	o.reference = reference
}

// SetRemark records the client's free-text remark.
func (o *Order) SetRemark(remark string) {
	o.remark = remark
}

// SetPriority records the requested processing priority.
func (o *Order) SetPriority(priority Priority) error {
	if err := priority.Validate(); err != nil {
		return err
	}
	o.priority = priority
	return nil
}

// SetPackaging records the requested packaging.
func (o *Order) SetPackaging(packaging string) {
	o.packaging = packaging
}

// SetStatusNotification records the requested notification mode.
func (o *Order) SetStatusNotification(notification StatusNotification) error {
	if err := notification.Validate(); err != nil {
		return err
	}
	o.statusNotification = notification
	return nil
}

// SetMissionSpecificStatusInfo records mission-specific status detail.
func (o *Order) SetMissionSpecificStatusInfo(info string) {
	o.missionSpecificStatusInfo = info
}

// SetDeliveryOption attaches the order-level delivery option.
func (o *Order) SetDeliveryOption(option DeliveryOption) error {
	if err := option.Validate(); err != nil {
		return err
	}
	o.deliveryOption = &option
	return nil
}

// SetDeliveryAddress attaches the delivery address.
func (o *Order) SetDeliveryAddress(address Address) {
	if address.IsZero() {
		return
	}
	o.deliveryAddress = &address
}

// SetInvoiceAddress attaches the invoice address.
func (o *Order) SetInvoiceAddress(address Address) {
	if address.IsZero() {
		return
	}
	o.invoiceAddress = &address
}

// SetSubscriptionPeriod records the validity period of a subscription
// order. A nil bound means unbounded on that side.
func (o *Order) SetSubscriptionPeriod(begin *time.Time, end *time.Time) error {
	if begin != nil && end != nil && end.Before(*begin) {
		return errs.NewValueIsInvalidErrorWithCause("subscriptionPeriod",
			fmt.Errorf("end %s is before begin %s", end, begin))
	}
	o.subscriptionBegin = begin
	o.subscriptionEnd = end
	return nil
}

// SetEstimatedBatches records how many batches a massive order needs.
func (o *Order) SetEstimatedBatches(n int) error {
	if n < 0 {
		return errs.NewValueIsOutOfRangeError("estimatedBatches", n, 0, int(^uint(0)>>1))
	}
	o.estimatedBatches = n
	return nil
}

// AddExtension records a free-text protocol extension.
func (o *Order) AddExtension(name string) {
	if name == "" || o.HasExtension(name) {
		return
	}
	o.extensions = append(o.extensions, name)
}

// AttachOption adds an order-wide processing option.
func (o *Order) AttachOption(option SelectedOption) error {
	if err := option.Validate(); err != nil {
		return err
	}
	o.options = append(o.options, option)
	return nil
}

// AddItemSpecification attaches an item specification to the order.
//
// Errors:
//   - errs.ValueIsInvalidError: if the client-assigned item identifier
//     is already used within the order
func (o *Order) AddItemSpecification(spec *ItemSpecification) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	for _, existing := range o.itemSpecifications {
		if existing.ItemID() == spec.ItemID() {
			return errs.NewValueIsInvalidErrorWithCause("itemId",
				fmt.Errorf("item identifier %q is already used", spec.ItemID()))
		}
	}
	o.itemSpecifications = append(o.itemSpecifications, spec)
	return nil
}

// DeliveryOptionFor resolves the delivery option that applies to an
// item specification: the item-level option when present, otherwise
// the order-level one.
//
// Returns:
//   - the applicable option and true
//   - false when neither level carries an option
func (o *Order) DeliveryOptionFor(spec *ItemSpecification) (DeliveryOption, bool) {
	if spec != nil && spec.DeliveryOption() != nil {
		return *spec.DeliveryOption(), true
	}
	if o.deliveryOption != nil {
		return *o.deliveryOption, true
	}
	return DeliveryOption{}, false
}

// ChangeStatus moves the order to a new lifecycle status.
//
// A write of the current status is a no-op: the info text is refreshed
// but statusChangedOn does not move and no event is raised. A real
// transition updates statusChangedOn, maintains completedOn and raises
// a StatusChangedEvent.
//
// Errors:
//   - errs.ValueIsInvalidError: if the transition is not allowed
func (o *Order) ChangeStatus(next Status, info string) error {
	if o.status == next {
		o.additionalStatusInfo = info
		return nil
	}
	if err := o.status.ValidateTransition(next); err != nil {
		return err
	}

	now := time.Now().UTC()
	previous := o.status
	o.status = next
	o.additionalStatusInfo = info
	o.statusChangedOn = &now

	switch {
	case next == Completed || next == Failed:
		o.completedOn = &now
	default:
		o.completedOn = nil
	}

	o.events = append(o.events, StatusChangedEvent{
		OrderID:    o.id,
		Previous:   previous,
		Next:       next,
		Info:       info,
		OccurredOn: now,
	})
	return nil
}

// Approve moves a moderated order from Submitted to Accepted.
//
// Errors:
//   - errs.ValueIsInvalidError: if the order is not awaiting moderation
func (o *Order) Approve() error {
	if o.status != Submitted {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("order %s is not awaiting moderation", o.id))
	}
	return o.ChangeStatus(Accepted, "The order has been approved")
}

// Reject cancels an order that did not pass moderation.
//
// Errors:
//   - errs.ValueIsInvalidError: if the order is not awaiting moderation
func (o *Order) Reject(reason string) error {
	if o.status != Submitted {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("order %s is not awaiting moderation", o.id))
	}
	if reason == "" {
		reason = "The order has been rejected"
	}
	return o.ChangeStatus(Cancelled, reason)
}

// Cancel cancels the order on the owner's request.
func (o *Order) Cancel(reason string) error {
	if reason == "" {
		reason = "Order cancelled on user request"
	}
	return o.ChangeStatus(Cancelled, reason)
}

// Terminate ends a subscription whose validity period has expired.
//
// Errors:
//   - errs.ValueIsInvalidError: if the order is not a subscription
func (o *Order) Terminate() error {
	if o.orderType != TypeSubscription {
		return errs.NewValueIsInvalidErrorWithCause("orderType",
			fmt.Errorf("order %s is not a subscription", o.id))
	}
	return o.ChangeStatus(Terminated, "Subscription validity period has expired")
}

// RecordResultAccessRequest remembers when result access was last
// reported for this order. The next "new results only" request reports
// items completed after this moment.
func (o *Order) RecordResultAccessRequest(at time.Time) {
	t := at.UTC()
	o.lastResultAccessRequest = &t
}

// PopEvents drains the events raised since the aggregate was loaded.
func (o *Order) PopEvents() []Event {
	events := o.events
	o.events = nil
	return events
}
