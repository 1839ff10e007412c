package models

import (
	"time"

	"gorm.io/gorm"
)

// Category groups products on the storefront.
type Category struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Slug      string         `gorm:"uniqueIndex;size:255;not null" json:"slug"`
	Image     string         `gorm:"size:512" json:"image,omitempty"`
	Products  []Product      `gorm:"foreignKey:CategoryID" json:"products,omitempty"`
}

// Product is a catalog entry owned by a vendor.
type Product struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	Slug        string         `gorm:"uniqueIndex;size:255;not null" json:"slug"`
	Description string         `gorm:"type:text" json:"description,omitempty"`
	Price       float64        `gorm:"not null" json:"price"`
	Image       string         `gorm:"size:512" json:"image,omitempty"`
	CategoryID  uint           `gorm:"index;not null" json:"category_id"`
	Category    Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	VendorID    uint           `gorm:"index;not null" json:"vendor_id"`
	Vendor      Vendor         `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`
}
