package models

import (
	"time"
)

// Product is a catalog item. Image and Thumb are paths relative to the
// process working directory (e.g. uploads/xxx.jpg); handlers expand them to
// absolute URLs when listing.
type Product struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Price     int64     `gorm:"not null" json:"price"` // smallest currency unit
	Size      string    `gorm:"size:32;not null" json:"size"`
	Image     string    `gorm:"size:512;not null" json:"image"`
	Thumb     string    `gorm:"size:512" json:"thumb,omitempty"`
}
