package commands

import (
	"context"
	"errors"
	"time"

	"ordering/internal/core/domain/model/batch"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/pkg/errs"
)

// ItemAccess describes where one ready item can be retrieved from.
type ItemAccess struct {
	ItemID     string
	Collection string
	Identifier string
	URL        string
	ExpiresOn  *time.Time
}

// DescribeResultAccessCommandHandler reports the retrieval locations of
// an order's ready items.
//
// An item is ready when it completed processing, its file has not
// expired, and it is delivered through online data access; items on
// other delivery channels are never reported here. The nextReady
// sub-function reports only items that became ready after the previous
// result access request on the same order.
type DescribeResultAccessCommandHandler struct {
	uowFactory UoWFactory
}

// NewDescribeResultAccessCommandHandler creates a handler for result
// access requests.
func NewDescribeResultAccessCommandHandler(uowFactory UoWFactory) DescribeResultAccessCommandHandler {
	return DescribeResultAccessCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the result access command and returns the ready
// items. The access request timestamp is recorded on the order in the
// same transaction.
func (h *DescribeResultAccessCommandHandler) Handle(ctx context.Context,
	cmd DescribeResultAccessCommand) ([]ItemAccess, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		var notFound *errs.ObjectNotFoundError
		if errors.As(err, &notFound) {
			return nil, errs.NewInvalidOrderIdentifierError(cmd.OrderID().String())
		}
		return nil, err
	}
	if !o.User().ID().IsEqual(cmd.UserID()) {
		return nil, errs.NewAuthorizationFailedError("orderId")
	}

	batches, err := uow.BatchRepository().GetByOrder(ctx, o.ID())
	if err != nil {
		return nil, err
	}

	var since *time.Time
	if cmd.SubFunction() == SubFunctionNextReady {
		since = o.LastResultAccessRequest()
	}
	ready := collectReadyItems(batches, since)

	o.RecordResultAccessRequest(time.Now().UTC())
	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return ready, nil
}

// collectReadyItems walks all batches and picks the items retrievable
// through online data access. since, when set, drops items that were
// already ready at that moment.
func collectReadyItems(batches []*batch.Batch, since *time.Time) []ItemAccess {
	ready := make([]ItemAccess, 0)
	for _, b := range batches {
		for _, item := range b.Items() {
			if !isReady(item) {
				continue
			}
			if since != nil && item.CompletedOn() != nil && !item.CompletedOn().After(*since) {
				continue
			}
			ready = append(ready, ItemAccess{
				ItemID:     item.ItemID(),
				Collection: item.Collection(),
				Identifier: item.Identifier(),
				URL:        item.URL(),
				ExpiresOn:  item.ExpiresOn(),
			})
		}
	}
	return ready
}

func isReady(item *batch.OrderItem) bool {
	if item.Status() != order.Completed && item.Status() != order.Downloaded {
		return false
	}
	if !item.IsAvailable() {
		return false
	}
	delivery := item.DeliveryOption()
	return delivery != nil && delivery.Type() == order.DeliveryOnlineDataAccess
}
