package db

import (
	"fmt" // Error wrapping

	"github.com/sirupsen/logrus" // Structured logging
	"gorm.io/gorm"               // GORM ORM library

	"farmer_registry/internal/store" // Table models
)

// Migrate performs automatic migration for the database schema
func Migrate(db *gorm.DB, log logrus.FieldLogger) error {
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	if err := db.AutoMigrate(store.Models()...); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	log.Info("Migration completed.")
	return nil
}
