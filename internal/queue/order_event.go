package queue

import (
	"fmt"
	"time"
)

// OrderEvent is the order-confirmation event emitted after a checkout
// commits. EventID is the idempotency key for the whole pipeline.
type OrderEvent struct {
	EventID   string    `json:"event_id"`
	OrderNo   string    `json:"order_no"`
	UserID    uint      `json:"user_id"`
	Total     int64     `json:"total"`
	ItemCount int       `json:"item_count"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate does minimal field checks so consumers never process dirty
// messages.
func (e OrderEvent) Validate() error {
	if e.EventID == "" {
		return fmt.Errorf("event_id is required")
	}
	if e.OrderNo == "" {
		return fmt.Errorf("order_no is required")
	}
	if e.UserID == 0 {
		return fmt.Errorf("user_id is required")
	}
	if e.Total < 0 {
		return fmt.Errorf("total must be >= 0")
	}
	if e.ItemCount <= 0 {
		return fmt.Errorf("item_count must be > 0")
	}
	return nil
}
