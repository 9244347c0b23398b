package queries

import (
	"errors"

	"ordering/internal/core/domain/model/order"
	"ordering/internal/pkg/errs"
	"ordering/internal/pkg/guard"
)

var (
	ErrGetOptionsQueryIsNotConstructed = errors.New(
		"GetOptionsQuery must be created via NewGetOptionsQuery constructor",
	)
)

// GetOptionsQuery reports the processing options and delivery channels
// declared for one collection, per order type. The answer comes from
// the deployment configuration only; nothing is read from storage.
//
// Example:
//
//	query, err := NewGetOptionsQuery("Landsat8", "")
//	if err != nil {
//	    return err
//	}
//	handler := NewGetOptionsQueryHandler(settings)
//
//	options, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get collection options: %w", err)
//	}
type GetOptionsQuery struct {
	collection string

	// orderType narrows the answer to one order type when set. Zero
	// means every enabled order type of the collection is reported.
	orderType order.Type

	guard guard.ConstructorGuard
}

// NewGetOptionsQuery creates an options query for a collection.
//
// Parameters:
//   - collection: name of the collection to describe
//   - orderType: protocol order type name, empty for all types
//
// Errors:
//   - errs.ValueIsRequiredError: if collection is empty
//   - errs.ValueIsInvalidError: if orderType is not a known type
func NewGetOptionsQuery(collection string, orderType string) (GetOptionsQuery, error) {
	if collection == "" {
		return GetOptionsQuery{}, errs.NewValueIsRequiredError("collectionId")
	}

	var t order.Type
	if orderType != "" {
		parsed, err := order.ParseType(orderType)
		if err != nil {
			return GetOptionsQuery{}, err
		}
		t = parsed
	}

	return GetOptionsQuery{
		collection: collection,
		orderType:  t,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Collection returns the collection to describe.
func (q GetOptionsQuery) Collection() string {
	return q.collection
}

// OrderType returns the order type filter, TypeUnknown meaning all.
func (q GetOptionsQuery) OrderType() order.Type {
	return q.orderType
}

// Validate ensures the query was created through the constructor.
func (q GetOptionsQuery) Validate() error {
	return q.guard.Validate(ErrGetOptionsQueryIsNotConstructed)
}

// CollectionOptionsResponse describes what one collection accepts for
// one order type.
type CollectionOptionsResponse struct {
	Collection string
	OrderType  string

	Options []OptionDescription

	OnlineDataAccessProtocols   []string
	OnlineDataDeliveryProtocols []string
	MediaDeliveryMedia          []string
}

// OptionDescription describes one declared processing option.
type OptionDescription struct {
	Name            string
	Description     string
	Choices         []string
	MultipleEntries bool
}
