package services

import (
	"time"

	"ordering/internal/core/domain/model/order"
)

// OptionRequest is one raw processing option as it arrived in a
// submission, before parsing and validation.
type OptionRequest struct {
	Name  string
	Value string
}

// DeliveryOptionRequest is a raw delivery choice from a submission.
type DeliveryOptionRequest struct {
	Type                string
	Protocol            string
	Copies              int
	Annotation          string
	SpecialInstructions string
}

// ItemRequest is one raw order item from a submission. A request names
// its collection either directly or through the catalogue identifier of
// the collection; when both are absent the collection is resolved from
// the product identifier.
type ItemRequest struct {
	ItemID         string
	Collection     string
	CollectionID   string
	Identifier     string
	Remark         string
	Options        []OptionRequest
	SceneSelection []OptionRequest
	Payment        string
	DeliveryOption *DeliveryOptionRequest
}

// OrderRequest is the decoded payload of a Submit operation. The
// transport adapter builds it verbatim from the wire format; all
// validation happens in the OrderBuilder.
type OrderRequest struct {
	OrderType          string
	Reference          string
	Remark             string
	Packaging          string
	Priority           string
	StatusNotification string
	Extensions         []string

	Options        []OptionRequest
	DeliveryOption *DeliveryOptionRequest

	DeliveryAddress *order.Address
	InvoiceAddress  *order.Address

	Items []ItemRequest

	// SubscriptionBegin/End bound the validity period requested for a
	// subscription order.
	SubscriptionBegin *time.Time
	SubscriptionEnd   *time.Time
}
