package model

import (
	"regexp"
	"time"

	"gorm.io/gorm"
)

// phoneRe matches the mobile numbers this shop accepts.
var phoneRe = regexp.MustCompile(`^989[0-3,9]\d{8}$`)

// ValidPhoneNumber reports whether s is an acceptable mobile number.
func ValidPhoneNumber(s string) bool { return phoneRe.MatchString(s) }

// User is a shop account. PasswordHash holds a bcrypt hash, never the
// plain password. Address fields are optional until first checkout.
type User struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	PhoneNumber  string `gorm:"size:16;uniqueIndex;not null" json:"phone_number"`
	Username     string `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Email        string `gorm:"size:128" json:"email"`
	FirstName    string `gorm:"size:30" json:"first_name"`
	LastName     string `gorm:"size:30" json:"last_name"`
	PasswordHash string `gorm:"size:128;not null" json:"-"`

	Address    string `gorm:"size:250" json:"address"`
	City       string `gorm:"size:50" json:"city"`
	Province   string `gorm:"size:50" json:"province"`
	PostalCode string `gorm:"size:10" json:"postal_code"`

	IsStaff  bool `gorm:"not null;default:false" json:"is_staff"`
	IsSeller bool `gorm:"not null;default:false" json:"is_seller"`
}

func (User) TableName() string { return "users" }

// FullName is used in notifications and the ticket views.
func (u User) FullName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Username
	}
	return u.FirstName + " " + u.LastName
}
