package commands

import (
	"context"
	"fmt"

	"ordering/internal/core/domain/model/batch"
	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/domain/services"
	"ordering/internal/core/ports"
)

// SubmitOrderResult is the acknowledgement returned to the submitter.
type SubmitOrderResult struct {
	OrderID  kernel.UUID
	Status   order.Status
	Warnings []string
}

// SubmitOrderCommandHandler handles the business logic for order submission.
// Builds the order aggregate from the payload, enforces quotas, and either
// dispatches it into production immediately or parks it for moderation.
//
// Example:
//
//	handler := NewSubmitOrderCommandHandler(uowFactory, builder, dispatcher,
//	    settings, taskQueue, notifier)
//	cmd, _ := NewSubmitOrderCommand(user, request)
//
//	result, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("submission failed: %w", err)
//	}
//	// result.Status is Accepted/InProduction when auto-approved,
//	// Submitted when the order awaits moderation
type SubmitOrderCommandHandler struct {
	uowFactory UoWFactory
	builder    services.OrderBuilder
	dispatcher services.OrderDispatcher
	settings   ports.Settings
	taskQueue  ports.TaskQueue
	notifier   ports.Notifier
}

// NewSubmitOrderCommandHandler creates a handler for order submissions.
func NewSubmitOrderCommandHandler(
	uowFactory UoWFactory,
	builder services.OrderBuilder,
	dispatcher services.OrderDispatcher,
	settings ports.Settings,
	taskQueue ports.TaskQueue,
	notifier ports.Notifier,
) SubmitOrderCommandHandler {
	return SubmitOrderCommandHandler{
		uowFactory: uowFactory,
		builder:    builder,
		dispatcher: dispatcher,
		settings:   settings,
		taskQueue:  taskQueue,
		notifier:   notifier,
	}
}

// Handle processes the order submission command.
//
// The order is built and persisted in a single transaction. When the
// order type is configured for automatic approval the order is approved
// and dispatched inside the same transaction; its batch items are handed
// to the processing workers only after the commit succeeded. Orders that
// need moderation stay Submitted and the operators are notified.
func (h *SubmitOrderCommandHandler) Handle(ctx context.Context,
	cmd SubmitOrderCommand) (SubmitOrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return SubmitOrderResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return SubmitOrderResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	activeItems, err := uow.BatchRepository().CountActiveItemsByUser(ctx, cmd.User().ID())
	if err != nil {
		return SubmitOrderResult{}, err
	}

	o, warnings, err := h.builder.Build(ctx, cmd.Request(), cmd.User(), activeItems)
	if err != nil {
		return SubmitOrderResult{}, err
	}

	typeCfg, _ := h.settings.OrderType(o.Type())

	var dispatched *batch.Batch
	if typeCfg.AutomaticApproval {
		if err = o.Approve(); err != nil {
			return SubmitOrderResult{}, err
		}
		plan, dispatchErr := h.dispatcher.Dispatch(ctx, o)
		if dispatchErr != nil {
			return SubmitOrderResult{}, dispatchErr
		}
		if err = o.ChangeStatus(plan.NextStatus, plan.StatusInfo); err != nil {
			return SubmitOrderResult{}, err
		}
		dispatched = plan.Batch
	}

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return SubmitOrderResult{}, err
	}
	if dispatched != nil {
		if err = uow.BatchRepository().Add(ctx, dispatched); err != nil {
			return SubmitOrderResult{}, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return SubmitOrderResult{}, err
	}

	if dispatched != nil {
		if err = enqueueBatchItems(ctx, h.taskQueue, dispatched, wantsItemNotifications(o)); err != nil {
			return SubmitOrderResult{}, err
		}
	}

	if !typeCfg.AutomaticApproval && typeCfg.NotifyCreation {
		h.notifier.Notify(ctx, ports.Notification{
			Kind:    ports.NotificationModerationRequested,
			OrderID: o.ID(),
			Details: fmt.Sprintf("%s order submitted by %s awaits moderation",
				o.Type(), cmd.User().Name()),
		})
	}

	return SubmitOrderResult{
		OrderID:  o.ID(),
		Status:   o.Status(),
		Warnings: warnings,
	}, nil
}
