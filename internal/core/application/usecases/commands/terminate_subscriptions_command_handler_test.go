package commands_test

import (
	"context"
	"testing"

	"ordering/internal/core/application/usecases/commands"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestTerminateSubscriptionsCommandHandler_Handle(t *testing.T) {
	ctx := context.Background()
	first := newTestOrder(t, order.TypeSubscription)
	second := newTestOrder(t, order.TypeSubscription)

	orderRepo := new(MockOrderRepository)
	orderRepo.On("GetExpiredSubscriptions", mock.Anything, mock.AnythingOfType("time.Time")).
		Return([]*order.Order{first, second}, nil).Once()
	orderRepo.On("Update", mock.Anything, mock.AnythingOfType("*order.Order")).
		Return(nil).Times(2)

	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	notifier := new(MockNotifier)
	notifier.On("Notify", mock.Anything, mock.MatchedBy(func(n ports.Notification) bool {
		return n.Kind == ports.NotificationOrderStatusChanged
	})).Times(2)

	h := commands.NewTerminateSubscriptionsCommandHandler(factory, notifier)
	err := h.Handle(ctx, commands.NewTerminateSubscriptionsCommand())

	require.NoError(t, err)
	assert.Equal(t, order.Terminated, first.Status())
	assert.Equal(t, order.Terminated, second.Status())
	orderRepo.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestTerminateSubscriptionsCommandHandler_Handle_NothingExpired(t *testing.T) {
	ctx := context.Background()

	orderRepo := new(MockOrderRepository)
	orderRepo.On("GetExpiredSubscriptions", mock.Anything, mock.AnythingOfType("time.Time")).
		Return([]*order.Order{}, nil).Once()

	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	notifier := new(MockNotifier)

	h := commands.NewTerminateSubscriptionsCommandHandler(factory, notifier)
	err := h.Handle(ctx, commands.NewTerminateSubscriptionsCommand())

	require.NoError(t, err)
	notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
}
