package queries

import (
	"context"

	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/ports"
	"ordering/internal/pkg/errs"
)

// GetOptionsQueryHandler answers option queries from the deployment
// configuration.
//
// Example:
//
//	handler := NewGetOptionsQueryHandler(settings)
//	query, _ := NewGetOptionsQuery("Landsat8", "PRODUCT_ORDER")
//
//	options, err := handler.Handle(ctx, query)
//	if err != nil {
//	    log.Printf("Failed to get options: %v", err)
//	    return err
//	}
type GetOptionsQueryHandler struct {
	settings ports.Settings
}

// NewGetOptionsQueryHandler creates a handler for collection option queries.
func NewGetOptionsQueryHandler(settings ports.Settings) GetOptionsQueryHandler {
	return GetOptionsQueryHandler{settings: settings}
}

// Handle executes the options query. One response entry is produced per
// enabled (collection, order type) pair in scope of the query.
//
// Errors:
//   - errs.OrderingError with CodeInvalidParameterValue: if the
//     collection is not configured
func (h GetOptionsQueryHandler) Handle(
	_ context.Context,
	query GetOptionsQuery,
) ([]CollectionOptionsResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	collection, ok := h.settings.Collection(query.Collection())
	if !ok {
		return nil, errs.NewInvalidParameterValueError("collectionId", query.Collection())
	}

	orderTypes := []order.Type{
		order.TypeProduct,
		order.TypeMassive,
		order.TypeSubscription,
		order.TypeTasking,
	}
	if query.OrderType() != order.TypeUnknown {
		orderTypes = []order.Type{query.OrderType()}
	}

	responses := make([]CollectionOptionsResponse, 0, len(orderTypes))
	for _, t := range orderTypes {
		typeConfig := collection.TypeConfig(t)
		if !typeConfig.Enabled {
			continue
		}
		responses = append(responses, CollectionOptionsResponse{
			Collection:                  collection.Name,
			OrderType:                   t.String(),
			Options:                     h.describeOptions(typeConfig.Options),
			OnlineDataAccessProtocols:   typeConfig.OnlineDataAccessProtocols,
			OnlineDataDeliveryProtocols: typeConfig.OnlineDataDeliveryProtocols,
			MediaDeliveryMedia:          typeConfig.MediaDeliveryMedia,
		})
	}
	return responses, nil
}

// describeOptions resolves declared option names against the global
// option catalogue. Names without a declaration are skipped rather than
// reported half-empty.
func (h GetOptionsQueryHandler) describeOptions(names []string) []OptionDescription {
	descriptions := make([]OptionDescription, 0, len(names))
	for _, name := range names {
		option, ok := h.settings.Option(name)
		if !ok {
			continue
		}
		descriptions = append(descriptions, OptionDescription{
			Name:            option.Name,
			Description:     option.Description,
			Choices:         option.Choices,
			MultipleEntries: option.MultipleEntries,
		})
	}
	return descriptions
}
