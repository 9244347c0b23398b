package services

import (
	"context"
	"fmt"

	"ordering/internal/core/domain/model/batch"
	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/ports"
	"ordering/internal/pkg/errs"
)

// DispatchPlan is what dispatching an approved order decided: the batch
// to persist (nil when the order type creates batches on demand) and
// the status the order moves to.
type DispatchPlan struct {
	Batch      *batch.Batch
	NextStatus order.Status
	StatusInfo string
}

// OrderDispatcher is a domain service that decides how an approved
// order enters production.
//
// Business rules:
//   - Product orders get a single batch holding one item per
//     specification and go InProduction immediately
//   - Massive orders get their first numbered batch, resolved from the
//     catalogue, and go InProduction; later batches are created as
//     earlier ones resolve
//   - Subscription orders create no batch at dispatch; they are
//     Suspended until a timeslot is materialized
//   - Tasking orders are accepted into the lifecycle and Suspended;
//     acquisition scheduling is not implemented
type OrderDispatcher struct {
	settings  ports.Settings
	processor ports.ItemProcessor
}

// NewOrderDispatcher creates a new OrderDispatcher instance.
func NewOrderDispatcher(settings ports.Settings, processor ports.ItemProcessor) OrderDispatcher {
	return OrderDispatcher{
		settings:  settings,
		processor: processor,
	}
}

// Dispatch plans production for an approved order.
//
// Returns:
//   - the dispatch plan; the caller persists the batch, applies the
//     status and enqueues the batch items
//   - error: when the order is invalid or the catalogue cannot resolve
//     the first massive batch
func (d OrderDispatcher) Dispatch(ctx context.Context, o *order.Order) (*DispatchPlan, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	switch o.Type() {
	case order.TypeProduct:
		b, err := d.buildProductBatch(o)
		if err != nil {
			return nil, err
		}
		return &DispatchPlan{
			Batch:      b,
			NextStatus: order.InProduction,
			StatusInfo: "The order is being processed",
		}, nil

	case order.TypeMassive:
		b, err := d.NextMassiveBatch(ctx, o, 0)
		if err != nil {
			return nil, err
		}
		return &DispatchPlan{
			Batch:      b,
			NextStatus: order.InProduction,
			StatusInfo: fmt.Sprintf("Batch 1 of %d is being processed", o.EstimatedBatches()),
		}, nil

	case order.TypeSubscription:
		return &DispatchPlan{
			NextStatus: order.Suspended,
			StatusInfo: "Subscription is active, batches are created as new products arrive",
		}, nil

	case order.TypeTasking:
		return &DispatchPlan{
			NextStatus: order.Suspended,
			StatusInfo: "Tasking order registered, acquisition scheduling is not implemented",
		}, nil

	default:
		return nil, errs.NewServerError(fmt.Sprintf("cannot dispatch order type %s", o.Type()))
	}
}

// buildProductBatch creates the single batch of a product order with
// one item per specification.
func (d OrderDispatcher) buildProductBatch(o *order.Order) (*batch.Batch, error) {
	b, err := batch.NewBatch(kernel.NewUUID(), o.ID(), 0)
	if err != nil {
		return nil, err
	}
	for _, spec := range o.ItemSpecifications() {
		var deliveryOption *order.DeliveryOption
		if resolved, ok := o.DeliveryOptionFor(spec); ok {
			deliveryOption = &resolved
		}
		item, itemErr := batch.NewOrderItem(kernel.NewUUID(), spec, spec.ItemID(),
			spec.Identifier(), deliveryOption)
		if itemErr != nil {
			return nil, itemErr
		}
		if err = b.AddItem(item); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// NextMassiveBatch resolves one numbered batch of a massive order from
// the catalogue and materializes its items from the order's template
// specification.
func (d OrderDispatcher) NextMassiveBatch(ctx context.Context, o *order.Order,
	index int) (*batch.Batch, error) {
	template := o.ItemSpecifications()[0]
	begin, end, err := d.processor.OrderDuration(ctx, template)
	if err != nil {
		return nil, errs.NewServerErrorWithCause("could not compute the massive order duration", err)
	}
	identifiers, err := d.processor.BatchItemIdentifiers(ctx, template.Collection(),
		begin, end, index, d.settings.MassiveItemsPerBatch)
	if err != nil {
		return nil, errs.NewServerErrorWithCause(
			fmt.Sprintf("could not resolve items for batch %d", index), err)
	}

	b, err := batch.NewBatch(kernel.NewUUID(), o.ID(), index)
	if err != nil {
		return nil, err
	}
	var deliveryOption *order.DeliveryOption
	if resolved, ok := o.DeliveryOptionFor(template); ok {
		deliveryOption = &resolved
	}
	if err = b.MaterializeItems(template, o.ID().String(), identifiers, deliveryOption); err != nil {
		return nil, err
	}
	return b, nil
}
