package commands

import (
	"context"
	"time"

	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/ports"
)

// TerminateSubscriptionsCommandHandler ends subscriptions whose validity
// period has passed. Terminated subscriptions stop receiving timeslot
// batches; their owners are notified after the transaction commits.
type TerminateSubscriptionsCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   ports.Notifier
}

// NewTerminateSubscriptionsCommandHandler creates a handler for
// subscription termination sweeps.
func NewTerminateSubscriptionsCommandHandler(uowFactory OrderUoWFactory,
	notifier ports.Notifier) TerminateSubscriptionsCommandHandler {
	return TerminateSubscriptionsCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle processes the termination sweep.
// All expired subscriptions are terminated in a single transaction.
func (h *TerminateSubscriptionsCommandHandler) Handle(ctx context.Context,
	cmd TerminateSubscriptionsCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	expired, err := orderRepo.GetExpiredSubscriptions(ctx, time.Now().UTC())
	if err != nil {
		return err
	}

	terminated := make([]*order.Order, 0, len(expired))
	for _, o := range expired {
		if err = o.Terminate(); err != nil {
			return err
		}
		if err = orderRepo.Update(ctx, o); err != nil {
			return err
		}
		terminated = append(terminated, o)
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	for _, o := range terminated {
		h.notifier.Notify(ctx, ports.Notification{
			Kind:      ports.NotificationOrderStatusChanged,
			OrderID:   o.ID(),
			Recipient: o.User().Email(),
			Details:   o.AdditionalStatusInfo(),
		})
	}

	return nil
}
