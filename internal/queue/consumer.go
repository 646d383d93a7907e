package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"shop/internal/model"

	"github.com/segmentio/kafka-go"
	"gorm.io/gorm"
)

// Consumer reads order events from Kafka and records a notification row
// per event. The unique event id makes redelivery idempotent.
type Consumer struct {
	r  *kafka.Reader
	db *gorm.DB
}

func NewConsumer(brokers []string, topic, groupID string, db *gorm.DB) *Consumer {
	return &Consumer{
		r: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			Topic:    topic,
			GroupID:  groupID,
			MinBytes: 1e3,
			MaxBytes: 1e6,
		}),
		db: db,
	}
}

func (c *Consumer) Close() error { return c.r.Close() }

func (c *Consumer) Run(ctx context.Context) {
	for {
		m, err := c.r.ReadMessage(ctx)
		if err != nil {
			return // ctx cancelled or connection lost
		}

		var ev OrderEvent
		if err := json.Unmarshal(m.Value, &ev); err != nil {
			log.Printf("consumer unmarshal: %v", err)
			continue
		}
		if err := ev.Validate(); err != nil {
			log.Printf("consumer invalid event: %v", err)
			continue
		}

		n := &model.Notification{
			EventID: ev.EventID,
			OrderNo: ev.OrderNo,
			UserID:  ev.UserID,
			Channel: "order_confirmation",
			Body:    confirmationBody(ev),
		}
		if err := c.db.Create(n).Error; err != nil {
			// Idempotency: a redelivered message hits the UNIQUE index on
			// event_id; treat that as already delivered.
			if model.IsDuplicate(err) {
				continue
			}
			log.Printf("consumer db create: %v", err)
			continue
		}
	}
}

func confirmationBody(ev OrderEvent) string {
	return fmt.Sprintf("order %s confirmed: %d item(s), total %d", ev.OrderNo, ev.ItemCount, ev.Total)
}
