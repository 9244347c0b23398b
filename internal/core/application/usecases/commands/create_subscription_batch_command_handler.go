package commands

import (
	"context"
	"errors"
	"fmt"

	"ordering/internal/core/domain/model/batch"
	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/ports"
	"ordering/internal/pkg/errs"
)

// CreateSubscriptionBatchCommandHandler materializes one timeslot of a
// subscription order into a batch of processable items.
//
// Materialization is idempotent: a timeslot that already has a batch is
// left alone unless the command forces a rebuild, in which case the
// existing items are replaced. The items of the new batch are handed to
// the processing workers after the transaction commits.
type CreateSubscriptionBatchCommandHandler struct {
	uowFactory UoWFactory
	processor  ports.ItemProcessor
	taskQueue  ports.TaskQueue
}

// NewCreateSubscriptionBatchCommandHandler creates a handler for
// subscription timeslot materialization.
func NewCreateSubscriptionBatchCommandHandler(
	uowFactory UoWFactory,
	processor ports.ItemProcessor,
	taskQueue ports.TaskQueue,
) CreateSubscriptionBatchCommandHandler {
	return CreateSubscriptionBatchCommandHandler{
		uowFactory: uowFactory,
		processor:  processor,
		taskQueue:  taskQueue,
	}
}

// Handle processes the timeslot materialization command.
func (h *CreateSubscriptionBatchCommandHandler) Handle(ctx context.Context,
	cmd CreateSubscriptionBatchCommand) error {
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
	if err = h.validateOrder(o, cmd); err != nil {
		return err
	}

	existing, err := uow.BatchRepository().GetSubscriptionBatch(ctx, o.ID(),
		cmd.Timeslot(), cmd.Collection())
	var notFound *errs.ObjectNotFoundError
	switch {
	case err == nil && !cmd.Force():
		// timeslot already materialized
		return nil
	case err != nil && !errors.As(err, &notFound):
		return err
	}

	template := o.ItemSpecifications()[0]
	identifiers, err := h.processor.SubscriptionItemIdentifiers(ctx, cmd.Collection(),
		cmd.Timeslot(), template.Options())
	if err != nil {
		return errs.NewServerErrorWithCause("could not resolve the timeslot products", err)
	}
	if len(identifiers) == 0 && existing == nil {
		return nil
	}

	b, isRebuild, err := h.prepareBatch(ctx, uow, o, existing, cmd)
	if err != nil {
		return err
	}

	var deliveryOption *order.DeliveryOption
	if resolved, ok := o.DeliveryOptionFor(template); ok {
		deliveryOption = &resolved
	}
	if err = b.MaterializeItems(template, o.Reference(), identifiers, deliveryOption); err != nil {
		return err
	}

	if isRebuild {
		err = uow.BatchRepository().Update(ctx, b)
	} else {
		err = uow.BatchRepository().Add(ctx, b)
	}
	if err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return enqueueBatchItems(ctx, h.taskQueue, b, wantsEachItemNotification(o))
}

// validateOrder checks that the order can receive the timeslot: it must
// be an active subscription over the requested collection and the
// timeslot must fall inside the subscription validity period.
func (h *CreateSubscriptionBatchCommandHandler) validateOrder(o *order.Order,
	cmd CreateSubscriptionBatchCommand) error {
	if o.Type() != order.TypeSubscription {
		return errs.NewServerError(fmt.Sprintf(
			"order %s is not a subscription order", o.ID()))
	}
	if o.Status().IsFinal() {
		return errs.NewServerError(fmt.Sprintf(
			"subscription %s is no longer active", o.ID()))
	}
	template := o.ItemSpecifications()[0]
	if template.Collection() != cmd.Collection() {
		return errs.NewInvalidParameterValueError("collection", cmd.Collection())
	}
	begin, end := o.SubscriptionPeriod()
	if begin != nil && cmd.Timeslot().Before(*begin) {
		return errs.NewInvalidParameterValueError("timeslot", cmd.Timeslot().String())
	}
	if end != nil && cmd.Timeslot().After(*end) {
		return errs.NewInvalidParameterValueError("timeslot", cmd.Timeslot().String())
	}
	return nil
}

// prepareBatch returns the batch the timeslot items go into: a fresh
// one for a new timeslot, or the emptied existing one on a forced
// rebuild.
func (h *CreateSubscriptionBatchCommandHandler) prepareBatch(ctx context.Context, uow UoW,
	o *order.Order, existing *batch.Batch,
	cmd CreateSubscriptionBatchCommand) (*batch.Batch, bool, error) {
	if existing == nil {
		b, err := batch.NewSubscriptionBatch(kernel.NewUUID(), o.ID(),
			cmd.Timeslot(), cmd.Collection())
		return b, false, err
	}
	if err := uow.BatchRepository().DeleteItems(ctx, existing.ID()); err != nil {
		return nil, false, err
	}
	b, err := batch.NewSubscriptionBatch(existing.ID(), o.ID(), cmd.Timeslot(), cmd.Collection())
	return b, true, err
}
