package db

import (
	"errors"
	"log"
	"os"

	"github.com/diewo77/marketplace/auth"
	"github.com/diewo77/marketplace/internal/models"
	"gorm.io/gorm"
)

// Seed creates the role rows, a superadmin account and a starter catalog.
// Idempotent: existing rows are left untouched, so it is safe to run at
// every startup.
func Seed(db *gorm.DB) error {
	for _, title := range []string{
		auth.RoleSuperadmin, auth.RoleVendorAdmin, auth.RoleVendor, auth.RoleCustomer,
	} {
		var existing models.Role
		err := db.Where("title = ?", title).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := db.Create(&models.Role{Title: title}).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
	}

	if err := seedSuperadmin(db); err != nil {
		return err
	}

	var settings models.SiteSettings
	if err := db.First(&settings).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		if err := db.Create(&models.SiteSettings{SiteName: "Marketplace"}).Error; err != nil {
			return err
		}
	}

	baseCategories := []models.Category{
		{Name: "Electronics", Slug: "electronics"},
		{Name: "Clothing", Slug: "clothing"},
		{Name: "Home & Kitchen", Slug: "home-kitchen"},
	}
	for _, c := range baseCategories {
		var existing models.Category
		if err := db.Where("slug = ?", c.Slug).First(&existing).Error; errors.Is(err, gorm.ErrRecordNotFound) {
			if err := db.Create(&c).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func seedSuperadmin(db *gorm.DB) error {
	email := os.Getenv("SUPERADMIN_EMAIL")
	if email == "" {
		email = "admin@marketplace.local"
	}
	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	password := os.Getenv("SUPERADMIN_PASSWORD")
	if password == "" {
		password = "changeme"
		log.Println("[seed] SUPERADMIN_PASSWORD not set; using default dev password")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	var role models.Role
	if err := db.Where("title = ?", auth.RoleSuperadmin).First(&role).Error; err != nil {
		return err
	}
	return db.Create(&models.User{
		Email:    email,
		FullName: "Superadmin",
		Password: hash,
		RoleID:   role.ID,
	}).Error
}
