package db

import (
	"testing"

	"github.com/diewo77/marketplace/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSeedDB(t *testing.T) *gorm.DB {
	t.Helper()
	dbi, err := gorm.Open(sqlite.Open("file:seed_"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := AutoMigrate(dbi); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return dbi
}

func TestSeedCreatesBaseline(t *testing.T) {
	dbi := setupSeedDB(t)
	if err := Seed(dbi); err != nil {
		t.Fatalf("seed: %v", err)
	}

	var roles int64
	dbi.Model(&models.Role{}).Count(&roles)
	if roles != 4 {
		t.Fatalf("expected 4 roles got %d", roles)
	}

	var admin models.User
	if err := dbi.Preload("Role").Where("email = ?", "admin@marketplace.local").First(&admin).Error; err != nil {
		t.Fatalf("superadmin missing: %v", err)
	}
	if admin.Role.Title != "superadmin" {
		t.Fatalf("superadmin has role %q", admin.Role.Title)
	}

	var settings models.SiteSettings
	if err := dbi.First(&settings).Error; err != nil {
		t.Fatalf("settings missing: %v", err)
	}
	if settings.SiteName == "" {
		t.Fatalf("settings have no site name")
	}
}

func TestSeedIdempotent(t *testing.T) {
	dbi := setupSeedDB(t)
	if err := Seed(dbi); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	if err := Seed(dbi); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	var roles, users, settings int64
	dbi.Model(&models.Role{}).Count(&roles)
	dbi.Model(&models.User{}).Count(&users)
	dbi.Model(&models.SiteSettings{}).Count(&settings)
	if roles != 4 || users != 1 || settings != 1 {
		t.Fatalf("reseeding duplicated rows: roles=%d users=%d settings=%d", roles, users, settings)
	}
}
