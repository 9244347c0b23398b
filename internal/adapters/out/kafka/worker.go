package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"ordering/internal/core/application/usecases/commands"
	"ordering/internal/core/domain/model/kernel"

	"github.com/twmb/franz-go/pkg/kgo"
)

// ItemWorker consumes item processing tasks from Kafka and runs them
// through the processing command handler. Several workers may share the
// same consumer group; the per-item record key keeps retries of one
// item on one worker.
type ItemWorker struct {
	client  *kgo.Client
	handler commands.ProcessOrderItemCommandHandler
	logger  *slog.Logger
}

// NewItemWorker creates a worker consuming the given topic.
func NewItemWorker(brokers []string, topic string, group string,
	handler commands.ProcessOrderItemCommandHandler, logger *slog.Logger) (*ItemWorker, error) {
	opts := []kgo.Opt{
		kgo.SeedBrokers(brokers...),
		kgo.ConsumerGroup(group),
		kgo.ConsumeTopics(topic),
		kgo.BlockRebalanceOnPoll(),
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka consumer: %w", err)
	}

	return &ItemWorker{
		client:  client,
		handler: handler,
		logger:  logger.With("component", "item_worker"),
	}, nil
}

// Run polls for tasks until the context is cancelled. A task that fails
// is logged and skipped; the item stays in its current status and can
// be re-enqueued.
func (w *ItemWorker) Run(ctx context.Context) {
	w.logger.InfoContext(ctx, "Item worker started")

	for {
		fetches := w.client.PollFetches(ctx)
		if fetches.IsClientClosed() || errors.Is(ctx.Err(), context.Canceled) {
			w.logger.InfoContext(ctx, "Item worker stopped")
			return
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			w.logger.ErrorContext(ctx, "Fetch failed",
				"topic", topic, "partition", partition, "error", err)
		})

		iter := fetches.RecordIter()
		for !iter.Done() {
			record := iter.Next()
			if err := w.processRecord(ctx, record.Value); err != nil {
				w.logger.ErrorContext(ctx, "Item processing failed",
					"offset", record.Offset, "error", err)
			}
		}
		w.client.AllowRebalance()
	}
}

func (w *ItemWorker) processRecord(ctx context.Context, value []byte) error {
	var task itemTask
	if err := json.Unmarshal(value, &task); err != nil {
		return fmt.Errorf("malformed task payload: %w", err)
	}

	orderItemID, err := kernel.UUIDFromString(task.OrderItemID)
	if err != nil {
		return fmt.Errorf("malformed order item id %q: %w", task.OrderItemID, err)
	}

	cmd, err := commands.NewProcessOrderItemCommand(orderItemID, task.NotifyUser)
	if err != nil {
		return err
	}
	return w.handler.Handle(ctx, cmd)
}

// Close closes the underlying Kafka client.
func (w *ItemWorker) Close() {
	w.client.Close()
}
