package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"costbook/internal/config"
	"costbook/internal/models"
)

// Manager handles database connections and schema setup.
type Manager struct {
	db *gorm.DB
}

// allModels lists every GORM model the schema carries.
var allModels = []interface{}{
	&models.User{},
	&models.Book{},
	&models.UserBook{},
	&models.Category{},
	&models.Record{},
	&models.AuditLog{},
}

// NewManager opens a connection per the configured driver: sqlite for the
// default single-file deployment, postgres for production.
func NewManager(cfg *config.Config) (*Manager, error) {
	var (
		db  *gorm.DB
		err error
	)

	switch cfg.DBDriver {
	case "sqlite":
		db, err = gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{})
	case "postgres":
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  DSN(cfg),
			PreferSimpleProtocol: true,
		}), &gorm.Config{})
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return &Manager{db: db}, nil
}

// AutoMigrate creates or updates the schema for all models. Postgres
// deployments can instead use cmd/migrate with the versioned SQL files.
func (m *Manager) AutoMigrate() error {
	return m.db.AutoMigrate(allModels...)
}

// DB returns the underlying GORM database instance
func (m *Manager) DB() *gorm.DB {
	return m.db
}
