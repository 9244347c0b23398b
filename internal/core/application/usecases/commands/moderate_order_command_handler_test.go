package commands_test

import (
	"context"
	"testing"

	"ordering/internal/core/application/usecases/commands"
	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/domain/services"
	"ordering/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newModerateHandler(factory commands.UoWFactory, queue ports.TaskQueue,
	notifier ports.Notifier) commands.ModerateOrderCommandHandler {
	return commands.NewModerateOrderCommandHandler(
		factory,
		services.NewOrderDispatcher(commandSettings(), &stubProcessor{}),
		queue,
		notifier,
	)
}

func TestModerateOrderCommandHandler_Handle_Approve(t *testing.T) {
	ctx := context.Background()
	o := newTestOrder(t, order.TypeProduct)
	cmd, err := commands.NewModerateOrderCommand(o.ID(), true, "")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	batchRepo := new(MockBatchRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("BatchRepository").Return(batchRepo)
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	orderRepo.On("GetForUpdate", mock.Anything, o.ID()).Return(o, nil).Once()
	orderRepo.On("Update", mock.Anything, o).Return(nil).Once()
	batchRepo.On("DeleteByOrder", mock.Anything, o.ID()).Return(nil).Once()
	batchRepo.On("Add", mock.Anything, mock.AnythingOfType("*batch.Batch")).Return(nil).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	queue := new(MockTaskQueue)
	queue.On("EnqueueItem", mock.Anything, mock.AnythingOfType("kernel.UUID"), false).
		Return(nil).Once()
	notifier := new(MockNotifier)
	notifier.On("Notify", mock.Anything, mock.MatchedBy(func(n ports.Notification) bool {
		return n.Kind == ports.NotificationOrderModerated &&
			n.Recipient == "tester@example.com"
	})).Once()

	h := newModerateHandler(factory, queue, notifier)
	err = h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.InProduction, o.Status())
	orderRepo.AssertExpectations(t)
	batchRepo.AssertExpectations(t)
	queue.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestModerateOrderCommandHandler_Handle_Reject(t *testing.T) {
	ctx := context.Background()
	o := newTestOrder(t, order.TypeProduct)
	cmd, err := commands.NewModerateOrderCommand(o.ID(), false, "quota abuse")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	orderRepo.On("GetForUpdate", mock.Anything, o.ID()).Return(o, nil).Once()
	orderRepo.On("Update", mock.Anything, o).Return(nil).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	queue := new(MockTaskQueue)
	notifier := new(MockNotifier)
	notifier.On("Notify", mock.Anything, mock.MatchedBy(func(n ports.Notification) bool {
		return n.Kind == ports.NotificationOrderModerated
	})).Once()

	h := newModerateHandler(factory, queue, notifier)
	err = h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Cancelled, o.Status())
	assert.Contains(t, o.AdditionalStatusInfo(), "quota abuse")
	queue.AssertNotCalled(t, "EnqueueItem", mock.Anything, mock.Anything, mock.Anything)
}

func TestModerateOrderCommandHandler_Handle_AlreadyModerated(t *testing.T) {
	ctx := context.Background()
	o := newTestOrder(t, order.TypeProduct)
	require.NoError(t, o.Approve())
	cmd, err := commands.NewModerateOrderCommand(o.ID(), true, "")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("Rollback", ctx).Return(nil).Once()
	orderRepo.On("GetForUpdate", mock.Anything, o.ID()).Return(o, nil).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := newModerateHandler(factory, new(MockTaskQueue), new(MockNotifier))
	err = h.Handle(ctx, cmd)

	require.Error(t, err)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestNewModerateOrderCommand_RejectionNeedsReason(t *testing.T) {
	_, err := commands.NewModerateOrderCommand(kernel.NewUUID(), false, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrRejectionReasonIsRequired)
}
