package model

import (
	"time"

	"gorm.io/gorm"
)

// Order is created once at checkout. Price starts as the cart total and is
// adjusted exactly once by a discount apply or remove; DiscountCode holds
// the applied code's text while one is attached.
type Order struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	OrderNo string `gorm:"size:64;uniqueIndex;not null" json:"order_no"`
	UserID  uint   `gorm:"not null;index" json:"user_id"`
	User    *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Address    string `gorm:"size:250;not null" json:"address"`
	City       string `gorm:"size:50;not null" json:"city"`
	Province   string `gorm:"size:50;not null" json:"province"`
	PostalCode string `gorm:"size:10;not null" json:"postal_code"`

	Price        int64  `gorm:"not null" json:"price"`
	DiscountCode string `gorm:"size:50" json:"discount_code"`
	Paid         bool   `gorm:"not null;default:false" json:"paid"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

func (Order) TableName() string { return "orders" }

// OrderItem snapshots one cart line at checkout time. Price and Quantity
// are immutable after creation.
type OrderItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	OrderID   uint     `gorm:"not null;index" json:"order_id"`
	ProductID uint     `gorm:"not null;index" json:"product_id"`
	Product   *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Price     int64    `gorm:"not null" json:"price"`
	Quantity  int      `gorm:"not null;default:1" json:"quantity"`
}

func (OrderItem) TableName() string { return "order_items" }
