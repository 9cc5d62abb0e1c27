// Package testutil provides fixtures shared by package tests.
package testutil

import (
	"context"
	"strings"
	"testing"

	"civicreport/repository"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewStore returns a gorm store on a private in-memory sqlite database. The
// pool is pinned to one connection so concurrent callers queue instead of
// failing with "database is locked".
func NewStore(t testing.TB) *repository.Store {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := "file:" + name + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	store, err := repository.NewGormStore(db)
	if err != nil {
		t.Fatalf("NewGormStore: %v", err)
	}
	t.Cleanup(func() { store.Close(context.Background()) })
	return store
}
