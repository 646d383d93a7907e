package model

import "time"

// Comment is a product review with a 1-5 star rate. Products report the
// average rate rounded to one decimal.
type Comment struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	ProductID uint   `gorm:"not null;index" json:"product_id"`
	UserID    uint   `gorm:"not null;index" json:"user_id"`
	User      *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Title     string `gorm:"size:255;not null" json:"title"`
	Content   string `gorm:"size:500;not null" json:"content"`
	Rate      int    `gorm:"not null" json:"rate"`
}

func (Comment) TableName() string { return "comments" }
