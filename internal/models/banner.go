package models

import "time"

// Banner is a promotional image displayed on the home page, managed by the
// superadmin dashboard.
type Banner struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Title     string    `gorm:"size:255" json:"title,omitempty"`
	Image     string    `gorm:"size:512;not null" json:"image"`
	Link      string    `gorm:"size:512" json:"link,omitempty"`
	Position  int       `gorm:"default:0" json:"position"`
	Active    bool      `gorm:"default:true" json:"active"`
}
