package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/Veraticus/finance-control/internal/model"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
const ExpectedSchemaVersion = 1

// Migration represents a database schema step.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS categories (
					id INTEGER PRIMARY KEY,
					name TEXT NOT NULL,
					color TEXT NOT NULL,
					type TEXT NOT NULL
				)`,
				`CREATE TABLE IF NOT EXISTS transactions (
					id INTEGER PRIMARY KEY,
					amount REAL NOT NULL,
					category_id INTEGER,
					date TEXT NOT NULL,
					description TEXT,
					type TEXT NOT NULL,
					FOREIGN KEY (category_id) REFERENCES categories (id)
				)`,
				`CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(date)`,
				`CREATE INDEX IF NOT EXISTS idx_transactions_category ON transactions(category_id)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
}

// Initialize creates the schema if needed and seeds default categories for
// any type that has none. It is safe to call on every start.
func (s *SQLiteStorage) Initialize(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := retryBusy(ctx, func() error { return s.Migrate(ctx) }); err != nil {
		return err
	}
	return retryBusy(ctx, func() error { return s.seedDefaultCategories(ctx) })
}

// Migrate applies all pending schema steps.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	var finalVersion int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion); err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}
	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}

// seedDefaultCategories inserts the default set for each type independently.
func (s *SQLiteStorage) seedDefaultCategories(ctx context.Context) error {
	seeds := []struct {
		categoryType model.CategoryType
		defaults     []model.DefaultCategory
	}{
		{categoryType: model.CategoryTypeExpense, defaults: model.DefaultExpenseCategories},
		{categoryType: model.CategoryTypeIncome, defaults: model.DefaultIncomeCategories},
	}

	for _, seed := range seeds {
		err := s.withTx(ctx, func(tx *sql.Tx) error {
			var count int
			if err := tx.QueryRowContext(ctx,
				"SELECT COUNT(*) FROM categories WHERE type = ?", string(seed.categoryType),
			).Scan(&count); err != nil {
				return err
			}
			if count > 0 {
				return nil
			}

			stmt, err := tx.PrepareContext(ctx, "INSERT INTO categories (name, color, type) VALUES (?, ?, ?)")
			if err != nil {
				return err
			}
			defer func() { _ = stmt.Close() }()

			for _, cat := range seed.defaults {
				if _, err := stmt.ExecContext(ctx, cat.Name, cat.Color, string(seed.categoryType)); err != nil {
					return err
				}
			}

			slog.Info("seeded default categories", "type", seed.categoryType, "count", len(seed.defaults))
			return nil
		})
		if err != nil {
			return storeError("seed default categories", err)
		}
	}

	return nil
}
