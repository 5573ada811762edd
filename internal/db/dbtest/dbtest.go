// Package dbtest opens throwaway databases for tests.
package dbtest

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/Skotchmaster/catalog/internal/db"
)

// Open returns a migrated in-memory SQLite database with foreign keys on.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	ctx := context.Background()
	gdb, err := db.Open(ctx, db.DriverSQLite, "file::memory:?_pragma=foreign_keys(1)")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Migrate(ctx, gdb); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}
