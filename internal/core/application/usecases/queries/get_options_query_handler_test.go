package queries_test

import (
	"context"
	"testing"

	"ordering/internal/core/application/usecases/queries"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/ports"
	"ordering/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func querySettings() ports.Settings {
	return ports.Settings{
		SiteDomain:          "orders.example.com",
		MaxOrderItems:       100,
		MaxActiveItems:      500,
		MassiveOrderMaxSize: 2000,
		OrderTypes: map[order.Type]ports.OrderTypeConfig{
			order.TypeProduct: {
				Enabled:              true,
				AutomaticApproval:    true,
				ItemAvailabilityDays: 10,
			},
			order.TypeSubscription: {
				Enabled:        true,
				NotifyCreation: true,
			},
		},
		Collections: []ports.CollectionConfig{
			{
				Name:         "Landsat8",
				CollectionID: "landsat8",
				ProductOrders: ports.CollectionTypeConfig{
					Enabled:                   true,
					Options:                   []string{"format", "projection"},
					OnlineDataAccessProtocols: []string{"http", "ftp"},
				},
				SubscriptionOrders: ports.CollectionTypeConfig{
					Enabled:                   true,
					Options:                   []string{"format"},
					OnlineDataAccessProtocols: []string{"http"},
				},
			},
			{
				Name:         "Sentinel2",
				CollectionID: "sentinel2",
				ProductOrders: ports.CollectionTypeConfig{
					Enabled:            true,
					Options:            []string{"format"},
					MediaDeliveryMedia: []string{"DVD"},
				},
			},
		},
		ProcessingOptions: []ports.OptionConfig{
			{
				Name:        "format",
				Description: "Output file format",
				Choices:     []string{"GTiff", "JPEG2000"},
			},
			{
				Name:            "projection",
				Description:     "Output projection",
				MultipleEntries: false,
			},
		},
	}
}

func TestGetOptionsQueryHandler_Handle_AllOrderTypes(t *testing.T) {
	handler := queries.NewGetOptionsQueryHandler(querySettings())
	query, err := queries.NewGetOptionsQuery("Landsat8", "")
	require.NoError(t, err)

	responses, err := handler.Handle(context.Background(), query)

	require.NoError(t, err)
	require.Len(t, responses, 2)

	assert.Equal(t, "PRODUCT_ORDER", responses[0].OrderType)
	assert.Equal(t, []string{"http", "ftp"}, responses[0].OnlineDataAccessProtocols)
	require.Len(t, responses[0].Options, 2)
	assert.Equal(t, "format", responses[0].Options[0].Name)
	assert.Equal(t, []string{"GTiff", "JPEG2000"}, responses[0].Options[0].Choices)

	assert.Equal(t, "SUBSCRIPTION_ORDER", responses[1].OrderType)
	require.Len(t, responses[1].Options, 1)
}

func TestGetOptionsQueryHandler_Handle_SingleOrderType(t *testing.T) {
	handler := queries.NewGetOptionsQueryHandler(querySettings())
	query, err := queries.NewGetOptionsQuery("Sentinel2", "PRODUCT_ORDER")
	require.NoError(t, err)

	responses, err := handler.Handle(context.Background(), query)

	require.NoError(t, err)
	require.Len(t, responses, 1)
	assert.Equal(t, "Sentinel2", responses[0].Collection)
	assert.Equal(t, []string{"DVD"}, responses[0].MediaDeliveryMedia)
}

func TestGetOptionsQueryHandler_Handle_DisabledTypeYieldsNothing(t *testing.T) {
	handler := queries.NewGetOptionsQueryHandler(querySettings())
	query, err := queries.NewGetOptionsQuery("Sentinel2", "SUBSCRIPTION_ORDER")
	require.NoError(t, err)

	responses, err := handler.Handle(context.Background(), query)

	require.NoError(t, err)
	assert.Empty(t, responses)
}

func TestGetOptionsQueryHandler_Handle_UnknownCollection(t *testing.T) {
	handler := queries.NewGetOptionsQueryHandler(querySettings())
	query, err := queries.NewGetOptionsQuery("MODIS", "")
	require.NoError(t, err)

	_, err = handler.Handle(context.Background(), query)

	require.Error(t, err)
	oseErr, ok := errs.AsOrderingError(err)
	require.True(t, ok)
	assert.Equal(t, errs.CodeInvalidParameterValue, oseErr.Code)
	assert.Equal(t, "collectionId", oseErr.Locator)
}

func TestGetOptionsQueryHandler_Handle_InvalidQuery(t *testing.T) {
	handler := queries.NewGetOptionsQueryHandler(querySettings())

	_, err := handler.Handle(context.Background(), queries.GetOptionsQuery{})

	require.Error(t, err)
	assert.ErrorIs(t, err, queries.ErrGetOptionsQueryIsNotConstructed)
}

func TestNewGetOptionsQuery_InvalidInput(t *testing.T) {
	t.Run("empty collection", func(t *testing.T) {
		_, err := queries.NewGetOptionsQuery("", "")
		require.Error(t, err)
	})

	t.Run("unknown order type", func(t *testing.T) {
		_, err := queries.NewGetOptionsQuery("Landsat8", "BULK_ORDER")
		require.Error(t, err)
	})
}
