// Package testutil provides databases and containers for tests and local runs.
package testutil

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/localnerve/campus-market/internal/database"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenSQLite creates a migrated in-memory SQLite database that lives until
// the test ends. The pool holds one connection so every query sees the same
// memory database.
func OpenSQLite(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get underlying SQL DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}
