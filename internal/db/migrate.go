package db

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/diewo77/marketplace/internal/models"
	migrate "github.com/golang-migrate/migrate/v4"
	// Blank imports register the postgres driver and file source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the postgres connection with retries and a connectivity
// check. DB_DEBUG=1 turns on query logging.
func Connect(dsn string, debug bool) (*gorm.DB, error) {
	dsn = NormalizeDSN(dsn)
	if dsn == "" {
		return nil, errors.New("DATABASE_DSN is empty")
	}
	logLevel := logger.Silent
	if debug {
		logLevel = logger.Info
	}
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}
	var db *gorm.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = gorm.Open(postgres.Open(dsn), cfg)
		if err == nil {
			break
		}
		log.Println("Retrying DB connection...", err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database after retries: %w", err)
	}
	if pingErr := db.Exec("SELECT 1").Error; pingErr != nil {
		return nil, fmt.Errorf("db ping failed: %w", pingErr)
	}
	log.Println("[DB] Using DSN:", MaskDSN(dsn))
	return db, nil
}

// Migrate brings the schema up to date. With sqlMigrations it runs the SQL
// files in ./migrations via golang-migrate; otherwise it falls back to gorm
// AutoMigrate (dev convenience).
func Migrate(db *gorm.DB, dsn string, sqlMigrations bool) error {
	if sqlMigrations {
		if err := runSQLMigrations(NormalizeDSN(dsn)); err != nil {
			return fmt.Errorf("sql migrations failed: %w", err)
		}
	} else {
		if err := AutoMigrate(db); err != nil {
			return err
		}
	}
	// sanity check: ensure required core tables exist
	for _, table := range []string{"roles", "users", "vendors", "categories"} {
		if !db.Migrator().HasTable(table) {
			return errors.New("missing table after migration: " + table)
		}
	}
	return nil
}

// AutoMigrate applies the gorm schema for all models.
func AutoMigrate(db *gorm.DB) error {
	for _, m := range []any{
		&models.Role{}, &models.Vendor{}, &models.User{}, &models.Category{},
		&models.Product{}, &models.Banner{}, &models.SiteSettings{},
	} {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	return nil
}

// runSQLMigrations executes migrations in ./migrations using the file source.
func runSQLMigrations(dsn string) error {
	m, err := migrate.New("file://migrations", dsn)
	if err != nil {
		return err
	}
	if err = m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}
