package models

import "time"

// SiteSettings is the single-row site configuration edited from the
// superadmin dashboard.
type SiteSettings struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	SiteName     string    `gorm:"size:255;not null" json:"site_name"`
	Logo         string    `gorm:"size:512" json:"logo,omitempty"`
	ContactEmail string    `gorm:"size:255" json:"contact_email,omitempty"`
	ContactPhone string    `gorm:"size:50" json:"contact_phone,omitempty"`
	Address      string    `gorm:"size:512" json:"address,omitempty"`
	Facebook     string    `gorm:"size:512" json:"facebook,omitempty"`
	Telegram     string    `gorm:"size:512" json:"telegram,omitempty"`
}
