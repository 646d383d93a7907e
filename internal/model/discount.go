package model

import (
	"math/rand"
	"time"

	"gorm.io/gorm"
)

const codeChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// CodeLength is the length of generated discount codes.
const CodeLength = 10

// DiscountCode is a single-use, expiring, percent-off token. IsUsed acts
// as a global lock: the code belongs to exactly one order until released.
type DiscountCode struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Code           string    `gorm:"size:50;uniqueIndex;not null" json:"code"`
	Percent        int64     `gorm:"not null" json:"percent"`
	ExpirationDate time.Time `gorm:"not null" json:"expiration_date"`
	IsUsed         bool      `gorm:"not null;default:false" json:"is_used"`

	CreatorID *uint `gorm:"index" json:"creator_id"`
	Creator   *User `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
}

func (DiscountCode) TableName() string { return "discount_codes" }

// BeforeCreate fills in a generated code when none was supplied.
func (d *DiscountCode) BeforeCreate(tx *gorm.DB) error {
	if d.Code == "" {
		d.Code = RandomCode(CodeLength)
	}
	return nil
}

// Expired reports whether the code is past its expiration date.
func (d DiscountCode) Expired(now time.Time) bool {
	return d.ExpirationDate.Before(now)
}

// RandomCode returns n alphanumeric characters.
func RandomCode(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = codeChars[rand.Intn(len(codeChars))]
	}
	return string(b)
}
