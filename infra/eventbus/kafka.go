//go:build kafka
// +build kafka

package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/mwendwa/payrelay/pkg/domain/events"
	"github.com/mwendwa/payrelay/pkg/eventbus"
	"github.com/segmentio/kafka-go"
)

// KafkaEventBus publishes settlement events to Kafka so downstream
// collaborators (reporting, notifications) can consume them. Local
// subscribers are still dispatched in memory; Kafka is an additional
// outward sink, not a delivery queue for provider calls.
type KafkaEventBus struct {
	*MemoryEventBus

	writer      *kafka.Writer
	topicPrefix string
	logger      *slog.Logger
	mu          sync.Mutex
}

// NewWithKafka creates a Kafka-publishing bus.
// brokers: comma-separated list (e.g. "localhost:9092,localhost:9093").
func NewWithKafka(brokers, topicPrefix string, logger *slog.Logger) (*KafkaEventBus, error) {
	parsed := parseBrokers(brokers)
	if len(parsed) == 0 {
		return nil, fmt.Errorf("kafka event bus: brokers are required")
	}
	if strings.TrimSpace(topicPrefix) == "" {
		topicPrefix = "payrelay.events"
	}
	if logger == nil {
		logger = slog.Default()
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(parsed...),
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireOne,
		Balancer:               &kafka.Hash{},
	}

	return &KafkaEventBus{
		MemoryEventBus: NewWithMemory(logger),
		writer:         writer,
		topicPrefix:    topicPrefix,
		logger:         logger.With("bus", "kafka"),
	}, nil
}

// Publish dispatches the event to local subscribers and writes it to
// the per-type Kafka topic. A Kafka write failure is logged; local
// dispatch has already happened.
func (b *KafkaEventBus) Publish(ctx context.Context, event events.Event) error {
	if err := b.MemoryEventBus.Publish(ctx, event); err != nil {
		return err
	}

	payload, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("Failed to encode settlement event", "event_type", event.Type(), "error", err)
		return nil
	}

	topic := b.topicPrefix + "." + event.Type()
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(event.Type()),
		Value: payload,
	}); err != nil {
		b.logger.Error("Failed to publish settlement event to kafka",
			"topic", topic,
			"error", err,
		)
	}
	return nil
}

// Close releases the Kafka writer.
func (b *KafkaEventBus) Close() error {
	return b.writer.Close()
}

func parseBrokers(brokers string) []string {
	var parsed []string
	for _, b := range strings.Split(brokers, ",") {
		if trimmed := strings.TrimSpace(b); trimmed != "" {
			parsed = append(parsed, trimmed)
		}
	}
	return parsed
}

var _ eventbus.Bus = (*KafkaEventBus)(nil)
