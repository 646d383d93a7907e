package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

// Producer wraps a Kafka writer for order events.
type Producer struct {
	w *kafka.Writer
}

// NewProducer configures the writer for reliability:
// - Hash + Key: events for the same order land on the same partition.
// - RequireAll: wait for ISR acknowledgement before reporting success.
// - MaxAttempts/Timeout bound retries.
func NewProducer(brokers []string, topic string) *Producer {
	return &Producer{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			MaxAttempts:  5,
			WriteTimeout: 5 * time.Second,
			ReadTimeout:  5 * time.Second,
			BatchTimeout: 50 * time.Millisecond,
		},
	}
}

// Close releases the writer.
func (p *Producer) Close() error { return p.w.Close() }

// Publish writes one order event, keyed by event id so redeliveries stay
// identifiable downstream.
func (p *Producer) Publish(ctx context.Context, ev OrderEvent) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.EventID),
		Value: b,
	})
}
