package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/ports"

	"github.com/stretchr/testify/require"
)

// stubProcessor is a configurable ports.ItemProcessor for service tests.
type stubProcessor struct {
	parseOption      func(name string, value string) (string, error)
	resolveCollecton func(identifier string) (string, error)
	estimate         int
	identifiers      []string
}

func (s *stubProcessor) ParseOption(_ context.Context, name string, rawValue string) (string, error) {
	if s.parseOption != nil {
		return s.parseOption(name, rawValue)
	}
	return rawValue, nil
}

func (s *stubProcessor) ResolveCollection(_ context.Context, identifier string) (string, error) {
	if s.resolveCollecton != nil {
		return s.resolveCollecton(identifier)
	}
	return "Landsat8", nil
}

func (s *stubProcessor) OrderDuration(_ context.Context, _ *order.ItemSpecification) (time.Time, time.Time, error) {
	begin := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return begin, begin.AddDate(0, 1, 0), nil
}

func (s *stubProcessor) EstimateItems(_ context.Context, _ string, _ time.Time, _ time.Time) (int, error) {
	return s.estimate, nil
}

func (s *stubProcessor) BatchItemIdentifiers(_ context.Context, _ string, _ time.Time, _ time.Time,
	batchIndex int, itemsPerBatch int) ([]string, error) {
	if s.identifiers != nil {
		return s.identifiers, nil
	}
	out := make([]string, 0, itemsPerBatch)
	for i := 0; i < itemsPerBatch; i++ {
		out = append(out, fmt.Sprintf("L8-%d-%d", batchIndex, i))
	}
	return out, nil
}

func (s *stubProcessor) SubscriptionItemIdentifiers(_ context.Context, _ string, _ time.Time,
	_ []order.SelectedOption) ([]string, error) {
	return s.identifiers, nil
}

func (s *stubProcessor) PrepareItem(_ context.Context, _ ports.ProcessableItem) (string, error) {
	return "", nil
}

func (s *stubProcessor) DeliverItem(_ context.Context, _ ports.ProcessableItem, _ string) (string, error) {
	return "", nil
}

func (s *stubProcessor) CleanItem(_ context.Context, _ string) error {
	return nil
}

func testSettings() ports.Settings {
	enabledSection := ports.CollectionTypeConfig{
		Enabled:                   true,
		Options:                   []string{"format", "DateRange"},
		OnlineDataAccessProtocols: []string{"http", "ftp"},
		MediaDeliveryMedia:        []string{"DVD"},
	}
	return ports.Settings{
		SiteDomain:           "orders.example.com",
		MaxOrderItems:        5,
		MaxActiveItems:       10,
		MassiveOrderMaxSize:  100,
		MassiveItemsPerBatch: 10,
		OrderTypes: map[order.Type]ports.OrderTypeConfig{
			order.TypeProduct: {
				Enabled:              true,
				AutomaticApproval:    true,
				ItemAvailabilityDays: 10,
			},
			order.TypeMassive: {
				Enabled:              true,
				ItemAvailabilityDays: 5,
			},
			order.TypeSubscription: {
				Enabled:              true,
				ItemAvailabilityDays: 10,
			},
		},
		Collections: []ports.CollectionConfig{
			{
				Name:               "Landsat8",
				CollectionID:       "landsat8",
				ProductOrders:      enabledSection,
				MassiveOrders:      enabledSection,
				SubscriptionOrders: enabledSection,
			},
			{
				Name:         "Sentinel2",
				CollectionID: "sentinel2",
				ProductOrders: ports.CollectionTypeConfig{
					Enabled: false,
				},
			},
		},
		ProcessingOptions: []ports.OptionConfig{
			{Name: "format", Choices: []string{"GeoTIFF", "HDF"}},
			{Name: "DateRange"},
		},
	}
}

func serviceTestUser(t *testing.T) kernel.User {
	t.Helper()
	u, err := kernel.NewUser(kernel.NewUUID(), "tester", "tester@example.com")
	require.NoError(t, err)
	return u
}
