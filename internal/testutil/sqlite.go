// Package testutil builds throwaway stores for package tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"health-concierge/internal/infrastructure/database"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewSQLiteDB opens an in-memory SQLite database with the service schema
// applied. The database name is unique per call so tests never share rows.
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:testdb_%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get database instance: %v", err)
	}
	// One connection keeps the in-memory database alive and avoids
	// shared-cache table locks between concurrent readers and writers.
	sqlDB.SetMaxOpenConns(1)

	scripts, err := database.UpMigrations()
	if err != nil {
		t.Fatalf("failed to read migrations: %v", err)
	}
	for _, script := range scripts {
		if err := db.Exec(script).Error; err != nil {
			t.Fatalf("failed to apply migration: %v", err)
		}
	}

	t.Cleanup(func() {
		sqlDB.Close()
	})
	return db
}
