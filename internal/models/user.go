package models

import (
	"time"

	"gorm.io/gorm"
)

// Role is the external role table; its Title string is the contract the
// authorization gate consumes (superadmin, vendor_admin, vendor, customer).
type Role struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Title     string `gorm:"uniqueIndex;size:50;not null" json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// User represents an authenticated user in the system.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
	Email     string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	FullName  string         `gorm:"size:255" json:"full_name,omitempty"`
	Password  string         `gorm:"size:255;not null" json:"-"` // Hashed, never exposed in JSON
	Avatar    string         `gorm:"size:512" json:"avatar,omitempty"`
	RoleID    uint           `gorm:"index;not null" json:"role_id"`
	Role      Role           `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	// VendorID links vendor staff to their vendor. Nil for customers and
	// the superadmin.
	VendorID *uint   `gorm:"index" json:"vendor_id,omitempty"`
	Vendor   *Vendor `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`
}
