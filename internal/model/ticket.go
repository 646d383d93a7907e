package model

import (
	"time"

	"gorm.io/gorm"
)

// Chat is a support ticket thread. Staff reply to open chats; closing a
// chat freezes it until a staff member reopens it.
type Chat struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Title     string `gorm:"size:200;not null" json:"title"`
	IsOpen    bool   `gorm:"not null;default:true" json:"is_open"`
	CreatorID uint   `gorm:"not null;index" json:"creator_id"`
	Creator   *User  `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`

	Messages []Message `gorm:"foreignKey:ChatID" json:"messages,omitempty"`
}

func (Chat) TableName() string { return "chats" }

// OpenChats scopes a query to open tickets.
func OpenChats(db *gorm.DB) *gorm.DB {
	return db.Where("is_open = ?", true)
}

// Message is one entry in a ticket thread.
type Message struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	ChatID  uint   `gorm:"not null;index" json:"chat_id"`
	UserID  uint   `gorm:"not null;index" json:"user_id"`
	User    *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Content string `gorm:"size:500;not null" json:"content"`
}

func (Message) TableName() string { return "messages" }
