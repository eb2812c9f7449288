package infra

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hercules830/nexa-control-app-sub000/internal/model"
)

// NewDatabase establishes a GORM connection backed by pgx and runs
// AutoMigrate for all entities. The schema is small enough that
// AutoMigrate stays the single source of truth - no SQL migration dir.
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
		return nil, fmt.Errorf("AutoMigrate: %w", err)
	}

	return db, nil
}

// RunMigrations creates/updates all tables. Also used by integration tests
// against a throwaway container.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Usuario{},
		&model.Insumo{},
		&model.Producto{},
		&model.RecetaItem{},
		&model.Venta{},
		&model.MovimientoInsumo{},
		&model.HistorialCosto{},
	)
}
