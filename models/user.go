package models

import (
	"time"
)

// User model. Password holds the bcrypt digest, never the plaintext.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
	Name      string    `gorm:"size:30;not null" json:"name"`
	Email     string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password  string    `gorm:"size:128;not null" json:"-"`
	Role      string    `gorm:"size:32;not null;default:customer" json:"role"`
}
