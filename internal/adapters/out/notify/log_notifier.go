package notify

import (
	"context"
	"log/slog"

	"ordering/internal/core/ports"
)

// LogNotifier writes notifications to the structured log instead of
// delivering them. Deployments plug in a mail or webhook notifier here;
// the logging fallback keeps the pipeline observable without one.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a notifier that logs every notification.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{
		logger: logger.With("component", "notifier"),
	}
}

// Notify logs the notification. Never fails.
func (n *LogNotifier) Notify(ctx context.Context, notification ports.Notification) {
	attrs := []any{
		"kind", string(notification.Kind),
		"order_id", notification.OrderID.String(),
	}
	if notification.BatchID != nil {
		attrs = append(attrs, "batch_id", notification.BatchID.String())
	}
	if notification.ItemID != nil {
		attrs = append(attrs, "item_id", notification.ItemID.String())
	}
	if notification.Recipient != "" {
		attrs = append(attrs, "recipient", notification.Recipient)
	}
	if notification.Details != "" {
		attrs = append(attrs, "details", notification.Details)
	}

	n.logger.InfoContext(ctx, "Notification", attrs...)
}
