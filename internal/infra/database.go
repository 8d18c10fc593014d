package infra

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Asma2528/LabStockEase-sub001/internal/model"
)

// NewDatabase establishes a GORM connection backed by pgx and runs
// AutoMigrate for all tables this module owns. Inwards and users are shared
// with the procurement and auth modules; migrating them here is idempotent.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}
	return db, nil
}

// RunMigrations applies the schema, including the (item_id, type) unique
// index that backs alert idempotence.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Item{},
		&model.IssuanceLog{},
		&model.RestockEntry{},
		&model.StockAlert{},
		&model.Inward{},
		&model.User{},
	)
}
