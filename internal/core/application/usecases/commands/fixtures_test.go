package commands_test

import (
	"context"
	"testing"
	"time"

	"ordering/internal/core/application/usecases/commands"
	"ordering/internal/core/domain/model/batch"
	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetExpiredSubscriptions(ctx context.Context,
	now time.Time) ([]*order.Order, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockBatchRepository struct{ mock.Mock }

func (m *MockBatchRepository) Add(ctx context.Context, b *batch.Batch) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBatchRepository) Update(ctx context.Context, b *batch.Batch) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBatchRepository) Get(ctx context.Context, id kernel.UUID) (*batch.Batch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*batch.Batch), args.Error(1)
}

func (m *MockBatchRepository) GetByItem(ctx context.Context,
	orderItemID kernel.UUID) (*batch.Batch, error) {
	args := m.Called(ctx, orderItemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*batch.Batch), args.Error(1)
}

func (m *MockBatchRepository) GetByOrder(ctx context.Context,
	orderID kernel.UUID) ([]*batch.Batch, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*batch.Batch), args.Error(1)
}

func (m *MockBatchRepository) GetSubscriptionBatch(ctx context.Context, orderID kernel.UUID,
	timeslot time.Time, collection string) (*batch.Batch, error) {
	args := m.Called(ctx, orderID, timeslot, collection)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*batch.Batch), args.Error(1)
}

func (m *MockBatchRepository) DeleteByOrder(ctx context.Context, orderID kernel.UUID) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

func (m *MockBatchRepository) DeleteItems(ctx context.Context, batchID kernel.UUID) error {
	args := m.Called(ctx, batchID)
	return args.Error(0)
}

func (m *MockBatchRepository) GetExpiredItems(ctx context.Context,
	now time.Time) ([]*batch.OrderItem, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*batch.OrderItem), args.Error(1)
}

func (m *MockBatchRepository) UpdateItem(ctx context.Context, item *batch.OrderItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockBatchRepository) CountActiveItemsByUser(ctx context.Context,
	userID kernel.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) BatchRepository() ports.BatchRepository {
	args := m.Called()
	return args.Get(0).(ports.BatchRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockTaskQueue struct{ mock.Mock }

func (m *MockTaskQueue) EnqueueItem(ctx context.Context, orderItemID kernel.UUID,
	notifyUser bool) error {
	args := m.Called(ctx, orderItemID, notifyUser)
	return args.Error(0)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) Notify(ctx context.Context, notification ports.Notification) {
	m.Called(ctx, notification)
}

// stubProcessor is a configurable ports.ItemProcessor for handler tests.
type stubProcessor struct {
	prepared       string
	prepareErr     error
	prepareCalls   int
	delivered      string
	identifiers    []string
	cleanErr       func(url string) error
	cleanedURLs    []string
	estimate       int
	itemsPerBatch  int
	subscriptionID func(timeslot time.Time) []string
}

func (s *stubProcessor) ParseOption(_ context.Context, _ string, rawValue string) (string, error) {
	return rawValue, nil
}

func (s *stubProcessor) ResolveCollection(_ context.Context, _ string) (string, error) {
	return "Landsat8", nil
}

func (s *stubProcessor) OrderDuration(_ context.Context,
	_ *order.ItemSpecification) (time.Time, time.Time, error) {
	begin := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return begin, begin.AddDate(0, 1, 0), nil
}

func (s *stubProcessor) EstimateItems(_ context.Context, _ string, _ time.Time,
	_ time.Time) (int, error) {
	return s.estimate, nil
}

func (s *stubProcessor) BatchItemIdentifiers(_ context.Context, _ string, _ time.Time,
	_ time.Time, batchIndex int, itemsPerBatch int) ([]string, error) {
	if s.identifiers != nil {
		return s.identifiers, nil
	}
	out := make([]string, 0, itemsPerBatch)
	for i := 0; i < itemsPerBatch; i++ {
		out = append(out, "L8-"+time.Date(2024, 1, 1+batchIndex, i, 0, 0, 0, time.UTC).Format("20060102T15"))
	}
	return out, nil
}

func (s *stubProcessor) SubscriptionItemIdentifiers(_ context.Context, _ string,
	timeslot time.Time, _ []order.SelectedOption) ([]string, error) {
	if s.subscriptionID != nil {
		return s.subscriptionID(timeslot), nil
	}
	return s.identifiers, nil
}

func (s *stubProcessor) PrepareItem(_ context.Context, _ ports.ProcessableItem) (string, error) {
	s.prepareCalls++
	if s.prepareErr != nil {
		return "", s.prepareErr
	}
	return s.prepared, nil
}

func (s *stubProcessor) DeliverItem(_ context.Context, _ ports.ProcessableItem,
	_ string) (string, error) {
	return s.delivered, nil
}

func (s *stubProcessor) CleanItem(_ context.Context, url string) error {
	if s.cleanErr != nil {
		if err := s.cleanErr(url); err != nil {
			return err
		}
	}
	s.cleanedURLs = append(s.cleanedURLs, url)
	return nil
}

func commandSettings() ports.Settings {
	enabledSection := ports.CollectionTypeConfig{
		Enabled:                   true,
		Options:                   []string{"format", "DateRange"},
		OnlineDataAccessProtocols: []string{"http"},
	}
	return ports.Settings{
		SiteDomain:            "orders.example.com",
		MaxOrderItems:         5,
		MaxActiveItems:        10,
		MassiveOrderMaxSize:   100,
		MassiveItemsPerBatch:  10,
		MaxProcessingAttempts: 2,
		OrderTypes: map[order.Type]ports.OrderTypeConfig{
			order.TypeProduct: {
				Enabled:              true,
				AutomaticApproval:    true,
				ItemAvailabilityDays: 10,
			},
			order.TypeMassive: {
				Enabled:              true,
				AutomaticApproval:    true,
				ItemAvailabilityDays: 5,
			},
			order.TypeSubscription: {
				Enabled:        true,
				NotifyCreation: true,
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
		},
		ProcessingOptions: []ports.OptionConfig{
			{Name: "format", Choices: []string{"GeoTIFF", "HDF"}},
			{Name: "DateRange"},
		},
	}
}

func commandTestUser(t *testing.T) kernel.User {
	t.Helper()
	u, err := kernel.NewUser(kernel.NewUUID(), "tester", "tester@example.com")
	require.NoError(t, err)
	return u
}

// newTestOrder builds an order of the given type with one item
// specification for the Landsat8 collection and an order level online
// data access delivery option.
func newTestOrder(t *testing.T, orderType order.Type) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), commandTestUser(t), orderType)
	require.NoError(t, err)
	spec, err := order.NewItemSpecification(kernel.NewUUID(), "item-1", "Landsat8", "L8-001", "")
	require.NoError(t, err)
	require.NoError(t, o.AddItemSpecification(spec))
	delivery, err := order.NewDeliveryOption(order.DeliveryOnlineDataAccess, "http", 0, "", "")
	require.NoError(t, err)
	require.NoError(t, o.SetDeliveryOption(delivery))
	return o
}

// newTestBatch wraps the order's specifications into a batch with one
// item per specification.
func newTestBatch(t *testing.T, o *order.Order) *batch.Batch {
	t.Helper()
	b, err := batch.NewBatch(kernel.NewUUID(), o.ID(), 0)
	require.NoError(t, err)
	for _, spec := range o.ItemSpecifications() {
		var deliveryOption *order.DeliveryOption
		if resolved, ok := o.DeliveryOptionFor(spec); ok {
			deliveryOption = &resolved
		}
		item, itemErr := batch.NewOrderItem(kernel.NewUUID(), spec, spec.ItemID(),
			spec.Identifier(), deliveryOption)
		require.NoError(t, itemErr)
		require.NoError(t, b.AddItem(item))
	}
	return b
}
