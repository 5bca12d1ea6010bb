// Package storetest opens throwaway databases for tests.
package storetest

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"farmer_registry/internal/store"
)

// NewDB returns a migrated in-memory SQLite handle closed at test end
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := store.GormConfig()
	cfg.Logger = logger.Default.LogMode(logger.Silent)
	db, err := gorm.Open(sqlite.Open("file::memory:"), cfg)
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	// An in-memory database lives as long as its single connection.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(store.Models()...); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}
	return db
}
