package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ordering/internal/core/domain/model/kernel"

	"github.com/twmb/franz-go/pkg/kgo"
)

// itemTask is the wire format of one processing task.
type itemTask struct {
	OrderItemID string `json:"order_item_id"`
	NotifyUser  bool   `json:"notify_user"`
}

// KafkaTaskQueue publishes item processing tasks to a Kafka topic. The
// item identifier is used as the record key so that retries of the same
// item land in the same partition and stay ordered.
type KafkaTaskQueue struct {
	client *kgo.Client
	topic  string
}

// NewKafkaTaskQueue creates a task queue backed by the given brokers
// and topic.
func NewKafkaTaskQueue(brokers []string, topic string) (*KafkaTaskQueue, error) {
	opts := []kgo.Opt{
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProduceRequestTimeout(10 * time.Second),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.ClientID("ordering"),
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka client: %w", err)
	}

	return &KafkaTaskQueue{
		client: client,
		topic:  topic,
	}, nil
}

// EnqueueItem schedules processing of one order item.
func (q *KafkaTaskQueue) EnqueueItem(ctx context.Context, orderItemID kernel.UUID,
	notifyUser bool) error {
	if err := orderItemID.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(itemTask{
		OrderItemID: orderItemID.String(),
		NotifyUser:  notifyUser,
	})
	if err != nil {
		return err
	}

	record := &kgo.Record{
		Topic: q.topic,
		Key:   []byte(orderItemID.String()),
		Value: data,
	}

	if err := q.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("failed to enqueue item %s: %w", orderItemID.String(), err)
	}
	return nil
}

// Close closes the underlying Kafka client.
func (q *KafkaTaskQueue) Close() {
	q.client.Close()
}
