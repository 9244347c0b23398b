package commands

import (
	"context"
	"fmt"

	"ordering/internal/core/domain/model/batch"
	"ordering/internal/core/domain/services"
	"ordering/internal/core/ports"
)

// ModerateOrderCommandHandler applies an operator's moderation decision.
// Approval dispatches the order into production the same way automatic
// approval does at submission; rejection cancels the order. The owner is
// notified of the outcome either way.
type ModerateOrderCommandHandler struct {
	uowFactory UoWFactory
	dispatcher services.OrderDispatcher
	taskQueue  ports.TaskQueue
	notifier   ports.Notifier
}

// NewModerateOrderCommandHandler creates a handler for moderation decisions.
func NewModerateOrderCommandHandler(
	uowFactory UoWFactory,
	dispatcher services.OrderDispatcher,
	taskQueue ports.TaskQueue,
	notifier ports.Notifier,
) ModerateOrderCommandHandler {
	return ModerateOrderCommandHandler{
		uowFactory: uowFactory,
		dispatcher: dispatcher,
		taskQueue:  taskQueue,
		notifier:   notifier,
	}
}

// Handle processes the moderation decision.
// The order must still be in Submitted status; the domain model rejects
// moderation of orders that already moved on.
func (h *ModerateOrderCommandHandler) Handle(ctx context.Context, cmd ModerateOrderCommand) error {
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

	o, err := uow.OrderRepository().GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	var dispatched *batch.Batch
	if cmd.Approve() {
		if err = o.Approve(); err != nil {
			return err
		}
		plan, dispatchErr := h.dispatcher.Dispatch(ctx, o)
		if dispatchErr != nil {
			return dispatchErr
		}
		if err = o.ChangeStatus(plan.NextStatus, plan.StatusInfo); err != nil {
			return err
		}
		dispatched = plan.Batch
		if dispatched != nil {
			// Stale batches from an earlier dispatch attempt would
			// double the produced items; the fresh plan replaces them.
			if err = uow.BatchRepository().DeleteByOrder(ctx, o.ID()); err != nil {
				return err
			}
			if err = uow.BatchRepository().Add(ctx, dispatched); err != nil {
				return err
			}
		}
	} else {
		if err = o.Reject(cmd.Reason()); err != nil {
			return err
		}
	}

	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if dispatched != nil {
		if err = enqueueBatchItems(ctx, h.taskQueue, dispatched, wantsItemNotifications(o)); err != nil {
			return err
		}
	}

	details := "The order has been approved"
	if !cmd.Approve() {
		details = fmt.Sprintf("The order has been rejected: %s", cmd.Reason())
	}
	h.notifier.Notify(ctx, ports.Notification{
		Kind:      ports.NotificationOrderModerated,
		OrderID:   o.ID(),
		Recipient: o.User().Email(),
		Details:   details,
	})

	return nil
}
