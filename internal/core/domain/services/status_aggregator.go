package services

import (
	"fmt"

	"ordering/internal/core/domain/model/batch"
	"ordering/internal/core/domain/model/order"
)

// AggregateOrderStatus computes the status an order should carry given
// the current state of its batches. It is a pure function; the caller
// applies the result through order.ChangeStatus so the no-op and
// timestamp rules hold.
//
// Per order type:
//   - Product: the order mirrors its single batch
//   - Massive: InProduction while any batch runs, Suspended between
//     batches, terminal once every expected batch resolved (Failed when
//     any batch failed)
//   - Subscription: InProduction while any batch runs, otherwise
//     Suspended; subscriptions only end by termination
//   - Tasking: the current status is kept
func AggregateOrderStatus(o *order.Order, batches []*batch.Batch) (order.Status, string) {
	switch o.Type() {
	case order.TypeProduct:
		return aggregateProduct(o, batches)
	case order.TypeMassive:
		return aggregateMassive(o, batches)
	case order.TypeSubscription:
		return aggregateSubscription(o, batches)
	default:
		return o.Status(), o.AdditionalStatusInfo()
	}
}

func aggregateProduct(o *order.Order, batches []*batch.Batch) (order.Status, string) {
	if len(batches) == 0 {
		return o.Status(), o.AdditionalStatusInfo()
	}
	b := batches[0]
	if !b.Status().TriggersParentUpdate() {
		return o.Status(), o.AdditionalStatusInfo()
	}
	return b.Status(), b.AdditionalStatusInfo()
}

func aggregateMassive(o *order.Order, batches []*batch.Batch) (order.Status, string) {
	anyFailed := false
	resolved := 0
	for _, b := range batches {
		switch b.Status() {
		case order.Failed:
			anyFailed = true
			resolved++
		case order.Completed:
			resolved++
		case order.InProduction:
			return order.InProduction, fmt.Sprintf("Batch %d of %d is being processed",
				b.Index()+1, o.EstimatedBatches())
		}
	}

	if resolved < o.EstimatedBatches() || len(batches) < o.EstimatedBatches() {
		return order.Suspended, fmt.Sprintf("%d of %d batches processed",
			resolved, o.EstimatedBatches())
	}
	if anyFailed {
		return order.Failed, "Some batches could not be processed"
	}
	return order.Completed, "All batches have been processed"
}

func aggregateSubscription(o *order.Order, batches []*batch.Batch) (order.Status, string) {
	for _, b := range batches {
		if b.Status() == order.InProduction {
			return order.InProduction, "A subscription batch is being processed"
		}
	}
	if len(batches) == 0 {
		return o.Status(), o.AdditionalStatusInfo()
	}
	return order.Suspended, "Subscription is active, awaiting the next timeslot"
}
