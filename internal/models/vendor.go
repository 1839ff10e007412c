package models

import (
	"time"

	"gorm.io/gorm"
)

// Vendor is a seller storefront inside the marketplace.
type Vendor struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	Slug        string         `gorm:"uniqueIndex;size:255;not null" json:"slug"`
	Description string         `gorm:"type:text" json:"description,omitempty"`
	Logo        string         `gorm:"size:512" json:"logo,omitempty"`
	Products    []Product      `gorm:"foreignKey:VendorID" json:"products,omitempty"`
}
