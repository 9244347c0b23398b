package batchrepo_test

import (
	"context"
	"testing"
	"time"

	"ordering/internal/adapters/out/postgres/batchrepo"
	"ordering/internal/adapters/out/postgres/orderrepo"
	"ordering/internal/core/domain/model/batch"
	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate interface{}) {
	m.Called(id, aggregate)
}

// BatchRepositoryIntegrationTestSuite provides integration tests for
// BatchRepository using PostgreSQL containers. The orders table is
// migrated too because CountActiveItemsByUser joins through it.
type BatchRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *batchrepo.GormBatchRepository
	tracker    *MockAggregateTracker
}

func (suite *BatchRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(
		&orderrepo.OrderDTO{}, &orderrepo.ItemSpecificationDTO{},
		&batchrepo.BatchDTO{}, &batchrepo.OrderItemDTO{},
	))
}

func (suite *BatchRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders, batches CASCADE").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.repository = batchrepo.NewGormBatchRepository(suite.db, suite.tracker)
}

func (suite *BatchRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *BatchRepositoryIntegrationTestSuite) TestAdd_ValidBatch_Success() {
	ctx := context.Background()

	testBatch := suite.createBatchWithItems(kernel.NewUUID(), 2)
	suite.tracker.On("TrackAggregate", testBatch.ID(), testBatch).Once()

	err := suite.repository.Add(ctx, testBatch)
	suite.Require().NoError(err)

	suite.assertBatchCount(1)
	suite.assertItemCount(2)
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *BatchRepositoryIntegrationTestSuite) TestAdd_InvalidBatch_Rejected() {
	ctx := context.Background()

	err := suite.repository.Add(ctx, &batch.Batch{})
	suite.Require().Error(err)
	suite.ErrorIs(err, batch.ErrBatchIsNotConstructed)

	suite.assertBatchCount(0)
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *BatchRepositoryIntegrationTestSuite) TestGet_ExistingBatch_RoundTripsItems() {
	ctx := context.Background()

	original := suite.createBatchWithItems(kernel.NewUUID(), 2)
	suite.tracker.On("TrackAggregate", original.ID(), original).Once()
	suite.Require().NoError(suite.repository.Add(ctx, original))

	retrieved, err := suite.repository.Get(ctx, original.ID())
	suite.Require().NoError(err)

	suite.True(retrieved.ID().IsEqual(original.ID()))
	suite.True(retrieved.OrderID().IsEqual(original.OrderID()))
	suite.Equal(order.Accepted, retrieved.Status())
	suite.Require().Len(retrieved.Items(), 2)

	item := retrieved.Items()[0]
	suite.Equal(order.Accepted, item.Status())
	suite.Equal("Landsat8", item.Collection())
	value, ok := order.FindOption(item.Options(), "format")
	suite.True(ok)
	suite.Equal("GTiff", value)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *BatchRepositoryIntegrationTestSuite) TestGet_NonExistentBatch_ReturnsNotFoundError() {
	ctx := context.Background()

	retrieved, err := suite.repository.Get(ctx, kernel.NewUUID())

	suite.Nil(retrieved)
	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *BatchRepositoryIntegrationTestSuite) TestGetByItem_ReturnsOwningBatch() {
	ctx := context.Background()

	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything)

	first := suite.createBatchWithItems(kernel.NewUUID(), 1)
	second := suite.createBatchWithItems(kernel.NewUUID(), 1)
	suite.Require().NoError(suite.repository.Add(ctx, first))
	suite.Require().NoError(suite.repository.Add(ctx, second))

	retrieved, err := suite.repository.GetByItem(ctx, second.Items()[0].ID())
	suite.Require().NoError(err)
	suite.True(retrieved.ID().IsEqual(second.ID()))
}

func (suite *BatchRepositoryIntegrationTestSuite) TestGetByItem_UnknownItem_ReturnsNotFoundError() {
	ctx := context.Background()

	retrieved, err := suite.repository.GetByItem(ctx, kernel.NewUUID())

	suite.Nil(retrieved)
	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
}

func (suite *BatchRepositoryIntegrationTestSuite) TestGetByOrder_ReturnsBatchesInIndexOrder() {
	ctx := context.Background()
	orderID := kernel.NewUUID()

	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything)

	second, err := batch.NewBatch(kernel.NewUUID(), orderID, 1)
	suite.Require().NoError(err)
	first, err := batch.NewBatch(kernel.NewUUID(), orderID, 0)
	suite.Require().NoError(err)
	other := suite.createBatchWithItems(kernel.NewUUID(), 1)

	for _, b := range []*batch.Batch{second, first, other} {
		suite.Require().NoError(suite.repository.Add(ctx, b))
	}

	batches, err := suite.repository.GetByOrder(ctx, orderID)
	suite.Require().NoError(err)

	suite.Require().Len(batches, 2)
	suite.Equal(0, batches[0].Index())
	suite.Equal(1, batches[1].Index())
}

func (suite *BatchRepositoryIntegrationTestSuite) TestGetSubscriptionBatch() {
	ctx := context.Background()
	orderID := kernel.NewUUID()
	timeslot := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything)

	subscription, err := batch.NewSubscriptionBatch(kernel.NewUUID(), orderID, timeslot, "Landsat8")
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Add(ctx, subscription))

	retrieved, err := suite.repository.GetSubscriptionBatch(ctx, orderID, timeslot, "Landsat8")
	suite.Require().NoError(err)
	suite.True(retrieved.ID().IsEqual(subscription.ID()))

	_, err = suite.repository.GetSubscriptionBatch(ctx, orderID, timeslot, "Sentinel2")
	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
}

func (suite *BatchRepositoryIntegrationTestSuite) TestUpdate_UpsertsNewItems() {
	ctx := context.Background()

	testBatch := suite.createBatchWithItems(kernel.NewUUID(), 1)
	suite.tracker.On("TrackAggregate", testBatch.ID(), testBatch)
	suite.Require().NoError(suite.repository.Add(ctx, testBatch))

	spec := suite.createSpec("item-2")
	newItem, err := batch.NewOrderItem(kernel.NewUUID(), spec, "item-2", "L8-002", nil)
	suite.Require().NoError(err)
	suite.Require().NoError(testBatch.AddItem(newItem))
	testBatch.Refresh()

	suite.Require().NoError(suite.repository.Update(ctx, testBatch))

	retrieved, err := suite.repository.Get(ctx, testBatch.ID())
	suite.Require().NoError(err)
	suite.Len(retrieved.Items(), 2)
}

func (suite *BatchRepositoryIntegrationTestSuite) TestUpdate_NonExistentBatch_ReturnsError() {
	ctx := context.Background()

	err := suite.repository.Update(ctx, suite.createBatchWithItems(kernel.NewUUID(), 1))

	suite.Require().Error(err)
	suite.ErrorIs(err, gorm.ErrRecordNotFound)
}

func (suite *BatchRepositoryIntegrationTestSuite) TestUpdateItem_PersistsCompletion() {
	ctx := context.Background()

	testBatch := suite.createBatchWithItems(kernel.NewUUID(), 1)
	suite.tracker.On("TrackAggregate", testBatch.ID(), testBatch)
	suite.Require().NoError(suite.repository.Add(ctx, testBatch))

	item := testBatch.Items()[0]
	expiresOn := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	suite.True(item.Complete("https://orders.example.com/item-1", expiresOn))

	suite.Require().NoError(suite.repository.UpdateItem(ctx, item))

	retrieved, err := suite.repository.Get(ctx, testBatch.ID())
	suite.Require().NoError(err)
	persisted := retrieved.Items()[0]
	suite.Equal(order.Completed, persisted.Status())
	suite.Equal("https://orders.example.com/item-1", persisted.URL())
	suite.True(persisted.IsAvailable())
	suite.Require().NotNil(persisted.ExpiresOn())
	suite.True(persisted.ExpiresOn().Equal(expiresOn))
}

func (suite *BatchRepositoryIntegrationTestSuite) TestUpdateItem_PersistsExpiry() {
	ctx := context.Background()

	testBatch := suite.createBatchWithItems(kernel.NewUUID(), 1)
	suite.tracker.On("TrackAggregate", testBatch.ID(), testBatch)
	suite.Require().NoError(suite.repository.Add(ctx, testBatch))

	item := testBatch.Items()[0]
	suite.True(item.Complete("https://orders.example.com/item-1", time.Now().Add(time.Hour)))
	suite.Require().NoError(suite.repository.UpdateItem(ctx, item))

	item.Expire()
	suite.Require().NoError(suite.repository.UpdateItem(ctx, item))

	retrieved, err := suite.repository.Get(ctx, testBatch.ID())
	suite.Require().NoError(err)
	persisted := retrieved.Items()[0]
	suite.False(persisted.IsAvailable())
	suite.Empty(persisted.URL())
}

func (suite *BatchRepositoryIntegrationTestSuite) TestGetExpiredItems() {
	ctx := context.Background()
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	testBatch := suite.createBatchWithItems(kernel.NewUUID(), 2)
	suite.tracker.On("TrackAggregate", testBatch.ID(), testBatch)
	suite.Require().NoError(suite.repository.Add(ctx, testBatch))

	stale := testBatch.Items()[0]
	fresh := testBatch.Items()[1]
	suite.True(stale.Complete("https://orders.example.com/stale", now.Add(-24*time.Hour)))
	suite.True(fresh.Complete("https://orders.example.com/fresh", now.Add(24*time.Hour)))
	suite.Require().NoError(suite.repository.UpdateItem(ctx, stale))
	suite.Require().NoError(suite.repository.UpdateItem(ctx, fresh))

	expired, err := suite.repository.GetExpiredItems(ctx, now)
	suite.Require().NoError(err)

	suite.Require().Len(expired, 1)
	suite.True(expired[0].ID().IsEqual(stale.ID()))
}

func (suite *BatchRepositoryIntegrationTestSuite) TestDeleteItems_RemovesBatchItems() {
	ctx := context.Background()

	testBatch := suite.createBatchWithItems(kernel.NewUUID(), 2)
	suite.tracker.On("TrackAggregate", testBatch.ID(), testBatch)
	suite.Require().NoError(suite.repository.Add(ctx, testBatch))

	suite.Require().NoError(suite.repository.DeleteItems(ctx, testBatch.ID()))

	suite.assertItemCount(0)
	suite.assertBatchCount(1)
}

func (suite *BatchRepositoryIntegrationTestSuite) TestDeleteByOrder_CascadesToItems() {
	ctx := context.Background()
	orderID := kernel.NewUUID()

	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything)

	doomed := suite.createBatchWithItems(orderID, 2)
	kept := suite.createBatchWithItems(kernel.NewUUID(), 1)
	suite.Require().NoError(suite.repository.Add(ctx, doomed))
	suite.Require().NoError(suite.repository.Add(ctx, kept))

	suite.Require().NoError(suite.repository.DeleteByOrder(ctx, orderID))

	suite.assertBatchCount(1)
	suite.assertItemCount(1)
}

func (suite *BatchRepositoryIntegrationTestSuite) TestCountActiveItemsByUser() {
	ctx := context.Background()

	user, err := kernel.NewUser(kernel.NewUUID(), "tester", "tester@example.com")
	suite.Require().NoError(err)
	testOrder, err := order.NewOrder(kernel.NewUUID(), user, order.TypeProduct)
	suite.Require().NoError(err)
	spec := suite.createSpec("item-1")
	suite.Require().NoError(testOrder.AddItemSpecification(spec))

	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything)

	orderRepository := orderrepo.NewGormOrderRepository(suite.db, suite.tracker)
	suite.Require().NoError(orderRepository.Add(ctx, testOrder))

	testBatch := suite.createBatchWithItems(testOrder.ID(), 2)
	suite.Require().NoError(suite.repository.Add(ctx, testBatch))

	completed := testBatch.Items()[0]
	suite.True(completed.Complete("https://orders.example.com/done", time.Now().Add(time.Hour)))
	suite.Require().NoError(suite.repository.UpdateItem(ctx, completed))

	count, err := suite.repository.CountActiveItemsByUser(ctx, user.ID())
	suite.Require().NoError(err)
	suite.Equal(1, count)

	count, err = suite.repository.CountActiveItemsByUser(ctx, kernel.NewUUID())
	suite.Require().NoError(err)
	suite.Equal(0, count)
}

func (suite *BatchRepositoryIntegrationTestSuite) createSpec(itemID string) *order.ItemSpecification {
	spec, err := order.NewItemSpecification(kernel.NewUUID(), itemID, "Landsat8", "L8-001", "")
	suite.Require().NoError(err)
	option, err := order.NewSelectedOption("format", "GTiff")
	suite.Require().NoError(err)
	suite.Require().NoError(spec.AttachOption(option))
	return spec
}

// createBatchWithItems creates a product-order batch carrying the given
// number of accepted items.
func (suite *BatchRepositoryIntegrationTestSuite) createBatchWithItems(
	orderID kernel.UUID, items int,
) *batch.Batch {
	testBatch, err := batch.NewBatch(kernel.NewUUID(), orderID, 0)
	suite.Require().NoError(err)

	for i := 0; i < items; i++ {
		itemID := "item-" + string(rune('1'+i))
		spec := suite.createSpec(itemID)
		item, err := batch.NewOrderItem(kernel.NewUUID(), spec, itemID, "L8-001", nil)
		suite.Require().NoError(err)
		suite.Require().NoError(testBatch.AddItem(item))
	}

	return testBatch
}

func (suite *BatchRepositoryIntegrationTestSuite) assertBatchCount(expected int) {
	var count int64
	err := suite.db.Model(&batchrepo.BatchDTO{}).Count(&count).Error
	suite.Require().NoError(err)
	suite.Equal(int64(expected), count)
}

func (suite *BatchRepositoryIntegrationTestSuite) assertItemCount(expected int) {
	var count int64
	err := suite.db.Model(&batchrepo.OrderItemDTO{}).Count(&count).Error
	suite.Require().NoError(err)
	suite.Equal(int64(expected), count)
}

func TestBatchRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(BatchRepositoryIntegrationTestSuite))
}
