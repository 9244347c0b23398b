package commands

import (
	"context"
	"errors"

	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/ports"
	"ordering/internal/pkg/errs"
)

// CancelOrderCommandHandler handles user initiated order cancellation.
//
// Subscription and massive orders can be cancelled: their production is
// long running, so stopping them is meaningful. Items already handed to
// the workers finish on their own; their results are ignored once the
// order is final. Product orders run to completion once dispatched and
// tasking orders would need the acquisition to be descheduled, which is
// not implemented.
type CancelOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   ports.Notifier
}

// NewCancelOrderCommandHandler creates a handler for order cancellation.
func NewCancelOrderCommandHandler(uowFactory OrderUoWFactory,
	notifier ports.Notifier) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle processes the cancellation command.
// Fails with an authorization error when the requester does not own the
// order, and with an invalid identifier error when the order does not
// exist.
func (h *CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) error {
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
		var notFound *errs.ObjectNotFoundError
		if errors.As(err, &notFound) {
			return errs.NewInvalidOrderIdentifierError(cmd.OrderID().String())
		}
		return err
	}

	if !o.User().ID().IsEqual(cmd.UserID()) {
		return errs.NewAuthorizationFailedError("orderId")
	}
	if o.Type() != order.TypeSubscription && o.Type() != order.TypeMassive {
		return errs.NewServerError("only subscription and massive orders may be cancelled")
	}

	if err = o.Cancel(cmd.Reason()); err != nil {
		return err
	}
	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.notifier.Notify(ctx, ports.Notification{
		Kind:      ports.NotificationOrderStatusChanged,
		OrderID:   o.ID(),
		Recipient: o.User().Email(),
		Details:   o.AdditionalStatusInfo(),
	})

	return nil
}
