// Package testutil provides shared helpers for tests that need a real,
// migrated database.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Veraticus/finance-control/internal/model"
	"github.com/Veraticus/finance-control/internal/storage"
	"github.com/shopspring/decimal"
)

// TestDB wraps an initialized SQLite storage living in the test's temp dir.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// SetupTestDB creates a migrated database with the default categories seeded.
// The database is closed when the test finishes.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "finance.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	if err := store.Initialize(context.Background()); err != nil {
		t.Fatalf("failed to initialize test database: %v", err)
	}

	return &TestDB{Storage: store, t: t}
}

// SetupEmptyTestDB creates a migrated database without seeded categories.
func SetupEmptyTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "finance.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return &TestDB{Storage: store, t: t}
}

// MustCategory adds a category or fails the test, returning its ID.
func (db *TestDB) MustCategory(name, color string, categoryType model.CategoryType) int64 {
	db.t.Helper()
	id, err := db.Storage.AddCategory(context.Background(), name, color, categoryType)
	if err != nil {
		db.t.Fatalf("failed to add category %q: %v", name, err)
	}
	return id
}

// MustCategoryID returns the ID of the category with the given name and
// type, or fails the test.
func (db *TestDB) MustCategoryID(name string, categoryType model.CategoryType) int64 {
	db.t.Helper()
	cats, err := db.Storage.GetCategories(context.Background(), categoryType)
	if err != nil {
		db.t.Fatalf("failed to list categories: %v", err)
	}
	for _, c := range cats {
		if c.Name == name {
			return c.ID
		}
	}
	db.t.Fatalf("category %q (%s) not found", name, categoryType)
	return 0
}

// MustTransaction adds a transaction or fails the test, returning its ID.
func (db *TestDB) MustTransaction(in model.TransactionInput) int64 {
	db.t.Helper()
	id, err := db.Storage.AddTransaction(context.Background(), in)
	if err != nil {
		db.t.Fatalf("failed to add transaction %+v: %v", in, err)
	}
	return id
}

// Seed stores every transaction built by the given builders.
func (db *TestDB) Seed(builders ...*TransactionBuilder) []int64 {
	db.t.Helper()
	ids := make([]int64, 0, len(builders))
	for _, b := range builders {
		ids = append(ids, db.MustTransaction(b.Input()))
	}
	return ids
}

// Amount parses a decimal literal, panicking on malformed input.
func Amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
