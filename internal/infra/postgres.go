package infra

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"tripplanner/internal/config"
	"tripplanner/internal/models/db_models"
)

// InitPostgresql opens the pooled connection shared by every repository.
func InitPostgresql(cfg config.Config) (*gorm.DB, error) {
	if cfg.PostgresURL == "" {
		return nil, errors.New("POSTGRES_URL is not set")
	}

	logLevel := logger.Info
	if cfg.IsProduction() {
		logLevel = logger.Warn
	}

	connectionPool, err := gorm.Open(postgres.Open(cfg.PostgresURL), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := connectionPool.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if cfg.AutoMigrate {
		if err := Migrate(connectionPool); err != nil {
			return nil, err
		}
	}

	return connectionPool, nil
}

// Migrate creates or updates the schema. Trips are migrated first so the
// cascading foreign keys on entries and suggestions can reference them.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&db_models.Trip{},
		&db_models.Place{},
		&db_models.ItineraryEntry{},
		&db_models.AISuggestion{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func ClosePostgresql(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		zap.L().Error("error getting database instance", zap.Error(err))
		return
	}

	if err := sqlDB.Close(); err != nil {
		zap.L().Error("error closing database connection", zap.Error(err))
	} else {
		zap.L().Info("PostgreSQL database connection closed successfully")
	}
}
