package commands

import (
	"context"
	"strings"

	"ordering/internal/core/domain/model/batch"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/ports"
)

// enqueueBatchItems hands every item of a freshly persisted batch to
// the processing workers. Called after the enclosing transaction
// committed so workers always find the rows.
func enqueueBatchItems(ctx context.Context, queue ports.TaskQueue, b *batch.Batch,
	notifyUser bool) error {
	for _, item := range b.Items() {
		if err := queue.EnqueueItem(ctx, item.ID(), notifyUser); err != nil {
			return err
		}
	}
	return nil
}

// wantsItemNotifications reports whether the order asked to be told
// about every single item becoming available.
func wantsItemNotifications(o *order.Order) bool {
	return o.StatusNotification() == order.NotificationAll
}

// wantsEachItemNotification reports whether the order carries the
// emailnotification extension with the EACH value. Subscriptions use
// this free-text extension instead of the status notification field to
// ask for a message per delivered item.
func wantsEachItemNotification(o *order.Order) bool {
	for _, extension := range o.Extensions() {
		fields := strings.Fields(extension)
		if len(fields) != 2 {
			continue
		}
		if strings.EqualFold(fields[0], "emailnotification") &&
			strings.EqualFold(fields[1], "EACH") {
			return true
		}
	}
	return false
}
