package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"ordering/internal/core/application/usecases/commands"
	"ordering/internal/core/domain/model/batch"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/domain/services"
	"ordering/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// processFixture wires an order with one pending batch item through
// mocked repositories, shared by both processing transactions.
type processFixture struct {
	order     *order.Order
	batch     *batch.Batch
	item      *batch.OrderItem
	orderRepo *MockOrderRepository
	batchRepo *MockBatchRepository
	factory   *MockUoWFactory
	queue     *MockTaskQueue
	notifier  *MockNotifier
	processor *stubProcessor
}

func newProcessFixture(t *testing.T, orderType order.Type) *processFixture {
	t.Helper()
	o := newTestOrder(t, orderType)
	require.NoError(t, o.Approve())
	require.NoError(t, o.ChangeStatus(order.InProduction, ""))
	b := newTestBatch(t, o)
	item := b.Items()[0]

	orderRepo := new(MockOrderRepository)
	batchRepo := new(MockBatchRepository)
	orderRepo.On("GetForUpdate", mock.Anything, o.ID()).Return(o, nil)
	orderRepo.On("Update", mock.Anything, o).Return(nil)
	batchRepo.On("GetByItem", mock.Anything, item.ID()).Return(b, nil)
	batchRepo.On("GetByOrder", mock.Anything, o.ID()).Return([]*batch.Batch{b}, nil)
	batchRepo.On("Update", mock.Anything, b).Return(nil)

	uow := new(MockUoW)
	uow.On("Begin", mock.Anything).Return(nil)
	uow.On("Commit", mock.Anything).Return(nil)
	uow.On("Rollback", mock.Anything).Return(nil)
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("BatchRepository").Return(batchRepo)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow)

	return &processFixture{
		order:     o,
		batch:     b,
		item:      item,
		orderRepo: orderRepo,
		batchRepo: batchRepo,
		factory:   factory,
		queue:     new(MockTaskQueue),
		notifier:  new(MockNotifier),
		processor: &stubProcessor{
			prepared:  "file:///staging/L8-001.tif",
			delivered: "https://orders.example.com/files/L8-001.tif",
		},
	}
}

func (f *processFixture) handler() commands.ProcessOrderItemCommandHandler {
	settings := commandSettings()
	return commands.NewProcessOrderItemCommandHandler(
		f.factory,
		f.processor,
		services.NewOrderDispatcher(settings, f.processor),
		settings,
		f.queue,
		f.notifier,
	)
}

func TestProcessOrderItemCommandHandler_Handle_Success(t *testing.T) {
	ctx := context.Background()
	f := newProcessFixture(t, order.TypeProduct)
	cmd, err := commands.NewProcessOrderItemCommand(f.item.ID(), false)
	require.NoError(t, err)

	h := f.handler()
	require.NoError(t, h.Handle(ctx, cmd))

	assert.Equal(t, order.Completed, f.item.Status())
	assert.Equal(t, "https://orders.example.com/files/L8-001.tif", f.item.URL())
	assert.True(t, f.item.IsAvailable())
	require.NotNil(t, f.item.ExpiresOn())
	assert.WithinDuration(t, time.Now().UTC().Add(10*24*time.Hour),
		*f.item.ExpiresOn(), time.Minute)
	assert.Equal(t, order.Completed, f.batch.Status())
	assert.Equal(t, order.Completed, f.order.Status())
	f.notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
}

func TestProcessOrderItemCommandHandler_Handle_NotifiesWhenAsked(t *testing.T) {
	ctx := context.Background()
	f := newProcessFixture(t, order.TypeProduct)
	require.NoError(t, f.order.SetStatusNotification(order.NotificationAll))
	cmd, err := commands.NewProcessOrderItemCommand(f.item.ID(), true)
	require.NoError(t, err)

	var kinds []ports.NotificationKind
	f.notifier.On("Notify", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		kinds = append(kinds, args.Get(1).(ports.Notification).Kind)
	})

	h := f.handler()
	require.NoError(t, h.Handle(ctx, cmd))

	assert.Contains(t, kinds, ports.NotificationItemAvailable)
	assert.Contains(t, kinds, ports.NotificationBatchAvailable)
	assert.Contains(t, kinds, ports.NotificationOrderStatusChanged)
}

func TestProcessOrderItemCommandHandler_Handle_ProcessingFailure(t *testing.T) {
	ctx := context.Background()
	f := newProcessFixture(t, order.TypeProduct)
	f.processor.prepareErr = errors.New("catalogue timeout")
	cmd, err := commands.NewProcessOrderItemCommand(f.item.ID(), false)
	require.NoError(t, err)

	f.notifier.On("Notify", mock.Anything, mock.MatchedBy(func(n ports.Notification) bool {
		return n.Kind == ports.NotificationItemFailed && n.Recipient == ""
	})).Once()

	h := f.handler()
	require.NoError(t, h.Handle(ctx, cmd))

	// both configured attempts were used before giving up
	assert.Equal(t, 2, f.processor.prepareCalls)
	assert.Equal(t, order.Failed, f.item.Status())
	assert.Contains(t, f.item.AdditionalStatusInfo(), "catalogue timeout")
	assert.Equal(t, order.Failed, f.batch.Status())
	assert.Equal(t, order.Failed, f.order.Status())
	f.notifier.AssertExpectations(t)
}

func TestProcessOrderItemCommandHandler_Handle_TerminalItemIsSkipped(t *testing.T) {
	ctx := context.Background()
	f := newProcessFixture(t, order.TypeProduct)
	f.item.Complete("https://orders.example.com/files/old.tif", time.Now().Add(time.Hour))
	cmd, err := commands.NewProcessOrderItemCommand(f.item.ID(), false)
	require.NoError(t, err)

	h := f.handler()
	require.NoError(t, h.Handle(ctx, cmd))

	assert.Zero(t, f.processor.prepareCalls)
	assert.Equal(t, "https://orders.example.com/files/old.tif", f.item.URL())
}

func TestProcessOrderItemCommandHandler_Handle_CancelledOrderIsLeftAlone(t *testing.T) {
	ctx := context.Background()
	f := newProcessFixture(t, order.TypeSubscription)
	require.NoError(t, f.order.Cancel(""))
	cmd, err := commands.NewProcessOrderItemCommand(f.item.ID(), false)
	require.NoError(t, err)

	h := f.handler()
	require.NoError(t, h.Handle(ctx, cmd))

	assert.Zero(t, f.processor.prepareCalls)
	assert.Equal(t, order.Accepted, f.item.Status())
}

func TestProcessOrderItemCommandHandler_Handle_MassiveOrderContinues(t *testing.T) {
	ctx := context.Background()
	f := newProcessFixture(t, order.TypeMassive)
	require.NoError(t, f.order.SetEstimatedBatches(2))
	f.processor.identifiers = []string{"L8-100", "L8-101"}
	cmd, err := commands.NewProcessOrderItemCommand(f.item.ID(), false)
	require.NoError(t, err)

	var nextBatch *batch.Batch
	f.batchRepo.On("Add", mock.Anything, mock.AnythingOfType("*batch.Batch")).
		Run(func(args mock.Arguments) {
			nextBatch = args.Get(1).(*batch.Batch)
		}).Return(nil).Once()
	f.queue.On("EnqueueItem", mock.Anything, mock.AnythingOfType("kernel.UUID"), false).
		Return(nil).Times(2)

	h := f.handler()
	require.NoError(t, h.Handle(ctx, cmd))

	require.NotNil(t, nextBatch)
	assert.Equal(t, 1, nextBatch.Index())
	assert.Len(t, nextBatch.Items(), 2)
	f.queue.AssertExpectations(t)
	f.batchRepo.AssertExpectations(t)
}
