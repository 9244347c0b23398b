package ports

import (
	"context"
	"time"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
)

// ProcessableItem is the snapshot of an order item handed to the item
// processor. It carries everything processing needs so the processor
// never reaches back into the domain model.
type ProcessableItem struct {
	OrderID     kernel.UUID
	OrderItemID kernel.UUID
	ItemID      string
	Collection  string
	Identifier  string
	UserName    string
	Options     []order.SelectedOption
	Delivery    *order.DeliveryOption
}

// ItemProcessor is the pluggable backend that knows how products are
// actually catalogued, produced and delivered. One implementation
// serves the whole deployment; everything collection-specific is
// resolved through the Settings configuration.
//
// All methods are synchronous and may fail; failures surface as item
// failures or submission rejections, never as partial state.
type ItemProcessor interface {
	// ParseOption converts a raw option value from a request into its
	// canonical string form. Returns an error when the value cannot be
	// interpreted, which rejects the submission.
	ParseOption(ctx context.Context, name string, rawValue string) (string, error)

	// ResolveCollection maps a catalogue product identifier to the name
	// of the collection it belongs to. Used when a request names a
	// product but not its collection.
	ResolveCollection(ctx context.Context, identifier string) (string, error)

	// OrderDuration computes the time period covered by a massive order
	// item specification.
	OrderDuration(ctx context.Context, spec *order.ItemSpecification) (time.Time, time.Time, error)

	// EstimateItems estimates how many products a massive order over
	// the given collection and period will produce.
	EstimateItems(ctx context.Context, collection string, begin time.Time, end time.Time) (int, error)

	// BatchItemIdentifiers resolves the catalogue identifiers that make
	// up one batch of a massive order.
	BatchItemIdentifiers(ctx context.Context, collection string, begin time.Time, end time.Time,
		batchIndex int, itemsPerBatch int) ([]string, error)

	// SubscriptionItemIdentifiers resolves the catalogue identifiers
	// ingested into a collection during a subscription timeslot.
	SubscriptionItemIdentifiers(ctx context.Context, collection string, timeslot time.Time,
		options []order.SelectedOption) ([]string, error)

	// PrepareItem produces the ordered item and returns the internal
	// location of the produced file.
	PrepareItem(ctx context.Context, item ProcessableItem) (string, error)

	// DeliverItem publishes a prepared item on its delivery channel and
	// returns the location the user retrieves it from.
	DeliverItem(ctx context.Context, item ProcessableItem, preparedLocation string) (string, error)

	// CleanItem removes the produced file behind an expired item.
	CleanItem(ctx context.Context, url string) error
}
