package queries

import (
	"context"

	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/ports"
)

// supportedOperations is the fixed set of protocol operations this
// service implements.
func supportedOperations() []string {
	return []string{
		"GetCapabilities",
		"GetOptions",
		"Submit",
		"GetStatus",
		"DescribeResultAccess",
		"Cancel",
	}
}

// GetCapabilitiesQueryHandler answers capability queries from the
// deployment configuration.
//
// Example:
//
//	handler := NewGetCapabilitiesQueryHandler(settings)
//	capabilities, err := handler.Handle(ctx, NewGetCapabilitiesQuery())
//	if err != nil {
//	    log.Printf("Failed to get capabilities: %v", err)
//	    return err
//	}
type GetCapabilitiesQueryHandler struct {
	settings ports.Settings
}

// NewGetCapabilitiesQueryHandler creates a handler for capability queries.
func NewGetCapabilitiesQueryHandler(settings ports.Settings) GetCapabilitiesQueryHandler {
	return GetCapabilitiesQueryHandler{settings: settings}
}

// Handle executes the capabilities query. Disabled order types are
// still listed, marked disabled, so clients can tell "not offered"
// from "unknown".
func (h GetCapabilitiesQueryHandler) Handle(
	_ context.Context,
	query GetCapabilitiesQuery,
) (CapabilitiesResponse, error) {
	if err := query.Validate(); err != nil {
		return CapabilitiesResponse{}, err
	}

	orderTypes := make([]OrderTypeCapability, 0, 4)
	for _, t := range []order.Type{
		order.TypeProduct,
		order.TypeMassive,
		order.TypeSubscription,
		order.TypeTasking,
	} {
		config, _ := h.settings.OrderType(t)
		orderTypes = append(orderTypes, OrderTypeCapability{
			OrderType:         t.String(),
			Enabled:           config.Enabled,
			AutomaticApproval: config.AutomaticApproval,
		})
	}

	collections := make([]CollectionCapability, 0, len(h.settings.Collections))
	for _, c := range h.settings.Collections {
		collections = append(collections, CollectionCapability{
			Collection:         c.Name,
			CollectionID:       c.CollectionID,
			ProductOrders:      c.ProductOrders.Enabled,
			MassiveOrders:      c.MassiveOrders.Enabled,
			SubscriptionOrders: c.SubscriptionOrders.Enabled,
			TaskingOrders:      c.TaskingOrders.Enabled,
		})
	}

	return CapabilitiesResponse{
		Operations:          supportedOperations(),
		OrderTypes:          orderTypes,
		Collections:         collections,
		MaxOrderItems:       h.settings.MaxOrderItems,
		MaxActiveItems:      h.settings.MaxActiveItems,
		MassiveOrderMaxSize: h.settings.MassiveOrderMaxSize,
	}, nil
}
