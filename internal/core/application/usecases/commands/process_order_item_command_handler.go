package commands

import (
	"context"
	"time"

	"ordering/internal/core/domain/model/batch"
	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/domain/services"
	"ordering/internal/core/ports"
)

// ProcessOrderItemCommandHandler produces and delivers one order item.
//
// Processing runs in three phases so the external production work never
// holds a database transaction open:
//
//  1. Claim: the item is marked InProduction and the change propagates
//     to its batch and order. Already terminal items are skipped, as
//     are items of orders that were cancelled or terminated meanwhile.
//  2. Produce: the item processor prepares the product and publishes it
//     on its delivery channel, with a bounded number of attempts.
//  3. Record: the item is re-locked and completed or failed; the batch
//     tally and the order status are recomputed, the next batch of a
//     massive order is created when the current one resolved, and the
//     configured notifications go out after the commit.
type ProcessOrderItemCommandHandler struct {
	uowFactory UoWFactory
	processor  ports.ItemProcessor
	dispatcher services.OrderDispatcher
	settings   ports.Settings
	taskQueue  ports.TaskQueue
	notifier   ports.Notifier
}

// NewProcessOrderItemCommandHandler creates a handler for item processing.
func NewProcessOrderItemCommandHandler(
	uowFactory UoWFactory,
	processor ports.ItemProcessor,
	dispatcher services.OrderDispatcher,
	settings ports.Settings,
	taskQueue ports.TaskQueue,
	notifier ports.Notifier,
) ProcessOrderItemCommandHandler {
	return ProcessOrderItemCommandHandler{
		uowFactory: uowFactory,
		processor:  processor,
		dispatcher: dispatcher,
		settings:   settings,
		taskQueue:  taskQueue,
		notifier:   notifier,
	}
}

// Handle processes one order item end to end.
// Safe to call repeatedly for the same item: a terminal item is left
// untouched and the command succeeds without side effects.
func (h *ProcessOrderItemCommandHandler) Handle(ctx context.Context,
	cmd ProcessOrderItemCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	snapshot, claimed, err := h.claimItem(ctx, cmd.OrderItemID())
	if err != nil || !claimed {
		return err
	}

	url, procErr := h.produce(ctx, snapshot)

	return h.recordOutcome(ctx, cmd, url, procErr)
}

// claimItem marks the item InProduction inside its own transaction and
// returns the processing snapshot. Returns claimed=false when there is
// nothing to do.
func (h *ProcessOrderItemCommandHandler) claimItem(ctx context.Context,
	orderItemID kernel.UUID) (ports.ProcessableItem, bool, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return ports.ProcessableItem{}, false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	b, err := uow.BatchRepository().GetByItem(ctx, orderItemID)
	if err != nil {
		return ports.ProcessableItem{}, false, err
	}
	item, err := b.Item(orderItemID)
	if err != nil {
		return ports.ProcessableItem{}, false, err
	}
	if item.Status().IsTerminal() {
		return ports.ProcessableItem{}, false, nil
	}

	o, err := uow.OrderRepository().GetForUpdate(ctx, b.OrderID())
	if err != nil {
		return ports.ProcessableItem{}, false, err
	}
	if o.Status().IsFinal() {
		// the order went away while the item sat in the queue
		return ports.ProcessableItem{}, false, nil
	}

	item.MarkInProduction()
	b.Refresh()
	if err = uow.BatchRepository().Update(ctx, b); err != nil {
		return ports.ProcessableItem{}, false, err
	}
	if err = h.propagateToOrder(ctx, uow, o); err != nil {
		return ports.ProcessableItem{}, false, err
	}

	if err = uow.Commit(ctx); err != nil {
		return ports.ProcessableItem{}, false, err
	}

	return ports.ProcessableItem{
		OrderID:     o.ID(),
		OrderItemID: item.ID(),
		ItemID:      item.ItemID(),
		Collection:  item.Collection(),
		Identifier:  item.Identifier(),
		UserName:    o.User().Name(),
		Options:     item.Options(),
		Delivery:    item.DeliveryOption(),
	}, true, nil
}

// produce prepares and delivers the item, retrying up to the configured
// number of attempts before giving up.
func (h *ProcessOrderItemCommandHandler) produce(ctx context.Context,
	item ports.ProcessableItem) (string, error) {
	attempts := h.settings.MaxProcessingAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		prepared, err := h.processor.PrepareItem(ctx, item)
		if err != nil {
			lastErr = err
			continue
		}
		url, err := h.processor.DeliverItem(ctx, item, prepared)
		if err != nil {
			lastErr = err
			continue
		}
		return url, nil
	}
	return "", lastErr
}

// recordOutcome writes the processing result back in a second
// transaction, recomputes the batch and order statuses, continues a
// massive order with its next batch, and sends the notifications the
// order asked for.
func (h *ProcessOrderItemCommandHandler) recordOutcome(ctx context.Context,
	cmd ProcessOrderItemCommand, url string, procErr error) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	b, err := uow.BatchRepository().GetByItem(ctx, cmd.OrderItemID())
	if err != nil {
		return err
	}
	item, err := b.Item(cmd.OrderItemID())
	if err != nil {
		return err
	}
	if item.Status().IsTerminal() {
		return nil
	}

	o, err := uow.OrderRepository().GetForUpdate(ctx, b.OrderID())
	if err != nil {
		return err
	}
	if o.Status().IsFinal() {
		// leave the produced item orphaned; the cleanup job reclaims
		// the file once it expires
		return nil
	}

	if procErr != nil {
		item.Fail(procErr.Error())
	} else {
		item.Complete(url, h.itemExpiry(o))
	}
	b.Refresh()
	if err = uow.BatchRepository().Update(ctx, b); err != nil {
		return err
	}

	nextBatch, err := h.continueMassiveOrder(ctx, uow, o, b)
	if err != nil {
		return err
	}
	if err = h.propagateToOrder(ctx, uow, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if nextBatch != nil {
		if err = enqueueBatchItems(ctx, h.taskQueue, nextBatch, wantsItemNotifications(o)); err != nil {
			return err
		}
	}
	h.sendNotifications(ctx, cmd, o, b, item, url, procErr)

	return nil
}

// continueMassiveOrder creates and persists the next numbered batch of
// a massive order once the current one resolved. Returns nil when there
// is nothing to continue.
func (h *ProcessOrderItemCommandHandler) continueMassiveOrder(ctx context.Context, uow UoW,
	o *order.Order, current *batch.Batch) (*batch.Batch, error) {
	if o.Type() != order.TypeMassive {
		return nil, nil
	}
	if !current.Status().IsTerminal() {
		return nil, nil
	}
	nextIndex := current.Index() + 1
	if nextIndex >= o.EstimatedBatches() {
		return nil, nil
	}

	next, err := h.dispatcher.NextMassiveBatch(ctx, o, nextIndex)
	if err != nil {
		return nil, err
	}
	if err = uow.BatchRepository().Add(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

// propagateToOrder recomputes the order status from all of its batches
// and persists the order. The order must be row-locked by the caller.
func (h *ProcessOrderItemCommandHandler) propagateToOrder(ctx context.Context, uow UoW,
	o *order.Order) error {
	batches, err := uow.BatchRepository().GetByOrder(ctx, o.ID())
	if err != nil {
		return err
	}
	status, info := services.AggregateOrderStatus(o, batches)
	if err = o.ChangeStatus(status, info); err != nil {
		return err
	}
	return uow.OrderRepository().Update(ctx, o)
}

// itemExpiry computes when the produced file stops being retrievable.
func (h *ProcessOrderItemCommandHandler) itemExpiry(o *order.Order) time.Time {
	days := 1
	if typeCfg, ok := h.settings.OrderType(o.Type()); ok && typeCfg.ItemAvailabilityDays > 0 {
		days = typeCfg.ItemAvailabilityDays
	}
	return time.Now().UTC().Add(time.Duration(days) * 24 * time.Hour)
}

func (h *ProcessOrderItemCommandHandler) sendNotifications(ctx context.Context,
	cmd ProcessOrderItemCommand, o *order.Order, b *batch.Batch, item *batch.OrderItem,
	url string, procErr error) {
	batchID := b.ID()
	itemID := item.ID()

	if procErr != nil {
		h.notifier.Notify(ctx, ports.Notification{
			Kind:    ports.NotificationItemFailed,
			OrderID: o.ID(),
			BatchID: &batchID,
			ItemID:  &itemID,
			Details: procErr.Error(),
		})
	} else if cmd.NotifyUser() {
		h.notifier.Notify(ctx, ports.Notification{
			Kind:      ports.NotificationItemAvailable,
			OrderID:   o.ID(),
			BatchID:   &batchID,
			ItemID:    &itemID,
			Recipient: o.User().Email(),
			Details:   url,
		})
	}

	wantsFinal := o.StatusNotification() == order.NotificationFinal ||
		o.StatusNotification() == order.NotificationAll
	if b.Status().IsTerminal() && wantsFinal {
		h.notifier.Notify(ctx, ports.Notification{
			Kind:      ports.NotificationBatchAvailable,
			OrderID:   o.ID(),
			BatchID:   &batchID,
			Recipient: o.User().Email(),
			Details:   b.AdditionalStatusInfo(),
		})
	}
	for _, event := range o.PopEvents() {
		statusChanged, ok := event.(order.StatusChangedEvent)
		if !ok || !statusChanged.Next.IsTerminal() || !wantsFinal {
			continue
		}
		h.notifier.Notify(ctx, ports.Notification{
			Kind:      ports.NotificationOrderStatusChanged,
			OrderID:   o.ID(),
			Recipient: o.User().Email(),
			Details:   statusChanged.Info,
		})
	}
}
