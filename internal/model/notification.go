package model

import "time"

// Notification is written by the order-event consumer, one row per
// delivered event. EventID is unique so redelivered Kafka messages land
// exactly once.
type Notification struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	EventID string `gorm:"size:64;uniqueIndex;not null" json:"event_id"`
	OrderNo string `gorm:"size:64;index;not null" json:"order_no"`
	UserID  uint   `gorm:"not null;index" json:"user_id"`
	Channel string `gorm:"size:32;not null" json:"channel"`
	Body    string `gorm:"size:500" json:"body"`
}

func (Notification) TableName() string { return "notifications" }
