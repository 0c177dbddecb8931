package models

import "time"

// RefreshToken records a currently-valid refresh credential. Presence of the
// row is the authority for validity; logout deletes it.
type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time
	Token     string `gorm:"size:512;not null;uniqueIndex"`
}
