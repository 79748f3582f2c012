// Package kafka publishes order lifecycle events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"fulfillment/internal/core/ports"

	"github.com/segmentio/kafka-go"
)

// MessageWriter is the part of *kafka.Writer the producer needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// OrderChangedProducer writes OrderChangedEvent as JSON keyed by order id, so
// events of one order stay on one partition.
type OrderChangedProducer struct {
	writer MessageWriter
}

// NewOrderChangedProducer builds an async producer: writes return once the
// message is queued and delivery errors are logged.
func NewOrderChangedProducer(brokers []string, topic string, logger *slog.Logger) *OrderChangedProducer {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "kafka_producer", "topic", topic)

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		WriteTimeout:           5 * time.Second,
		AllowAutoTopicCreation: true,
		Async:                  true,
		Completion:             completionLogger(logger),
	}
	return NewOrderChangedProducerWithWriter(writer)
}

func completionLogger(logger *slog.Logger) func([]kafka.Message, error) {
	return func(messages []kafka.Message, err error) {
		if err == nil {
			return
		}
		for _, m := range messages {
			logger.Error("failed to deliver order event", "order_id", string(m.Key), "error", err)
		}
	}
}

func NewOrderChangedProducerWithWriter(writer MessageWriter) *OrderChangedProducer {
	return &OrderChangedProducer{writer: writer}
}

func (p *OrderChangedProducer) PublishOrderChanged(ctx context.Context, event ports.OrderChangedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OrderID.String()),
		Value: data,
		Time:  event.OccurredAt,
	})
}

func (p *OrderChangedProducer) Close() error {
	return p.writer.Close()
}

// NoopPublisher discards events. It is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishOrderChanged(context.Context, ports.OrderChangedEvent) error {
	return nil
}

func (NoopPublisher) Close() error {
	return nil
}
