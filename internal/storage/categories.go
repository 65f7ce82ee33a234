package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/finance-control/internal/common"
	"github.com/Veraticus/finance-control/internal/model"
)

// AddCategory creates a category and returns its ID. If a category with the
// same name and type already exists, its ID is returned instead.
func (s *SQLiteStorage) AddCategory(ctx context.Context, name, color string, categoryType model.CategoryType) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateCategory(name, color, categoryType); err != nil {
		return 0, err
	}

	var id int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx,
			"SELECT id FROM categories WHERE name = ? AND type = ?",
			name, string(categoryType),
		).Scan(&id)
		if err == nil {
			slog.Debug("category already exists", "name", name, "type", categoryType, "id", id)
			return nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}

		result, err := tx.ExecContext(ctx,
			"INSERT INTO categories (name, color, type) VALUES (?, ?, ?)",
			name, color, string(categoryType),
		)
		if err != nil {
			return err
		}
		id, err = result.LastInsertId()
		if err != nil {
			return err
		}

		slog.Info("created new category", "name", name, "type", categoryType, "id", id)
		return nil
	})
	if err != nil {
		return 0, storeError("add category", err)
	}

	return id, nil
}

// UpdateCategory changes the name and color of a category. The type of a
// category cannot change after creation.
func (s *SQLiteStorage) UpdateCategory(ctx context.Context, id int64, name, color string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(name, "name"); err != nil {
		return fmt.Errorf("%w: missing name", ErrInvalidCategory)
	}
	if !model.IsValidColor(color) {
		return fmt.Errorf("%w: %q", ErrInvalidColor, color)
	}

	result, err := s.db.ExecContext(ctx,
		"UPDATE categories SET name = ?, color = ? WHERE id = ?",
		name, color, id,
	)
	if err != nil {
		return storeError("update category", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return storeError("update category", err)
	}
	if affected == 0 {
		return fmt.Errorf("category %d: %w", id, common.ErrNotFound)
	}

	slog.Info("updated category", "id", id, "name", name)
	return nil
}

// DeleteCategory removes a category. Transactions that referenced it are kept
// and become uncategorized. Both steps run in one transaction.
func (s *SQLiteStorage) DeleteCategory(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var detached int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			"UPDATE transactions SET category_id = NULL WHERE category_id = ?", id)
		if err != nil {
			return fmt.Errorf("failed to detach transactions: %w", err)
		}
		detached, _ = result.RowsAffected()

		result, err = tx.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("failed to delete category row: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return fmt.Errorf("category %d: %w", id, common.ErrNotFound)
		}
		return nil
	})
	if errors.Is(err, common.ErrNotFound) {
		return err
	}
	if err != nil {
		return storeError("delete category", err)
	}

	slog.Info("deleted category", "id", id, "detached_transactions", detached)
	return nil
}

// GetCategories returns categories of the given type ordered by name, or all
// categories ordered by type then name when categoryType is empty.
func (s *SQLiteStorage) GetCategories(ctx context.Context, categoryType model.CategoryType) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := "SELECT id, name, color, type FROM categories ORDER BY type, name"
	var args []any
	if categoryType != "" {
		if !categoryType.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidType, categoryType)
		}
		query = "SELECT id, name, color, type FROM categories WHERE type = ? ORDER BY name"
		args = append(args, string(categoryType))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeError("query categories", err)
	}
	defer func() { _ = rows.Close() }()

	categories := []model.Category{}
	for rows.Next() {
		cat, err := scanCategory(rows)
		if err != nil {
			return nil, storeError("scan category", err)
		}
		categories = append(categories, *cat)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("iterate categories", err)
	}

	slog.Debug("retrieved categories", "type", categoryType, "count", len(categories))
	return categories, nil
}

// GetCategoryByID returns a single category.
func (s *SQLiteStorage) GetCategoryByID(ctx context.Context, id int64) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, color, type FROM categories WHERE id = ?", id)
	cat, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("category %d: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, storeError("get category", err)
	}

	return cat, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(row rowScanner) (*model.Category, error) {
	var cat model.Category
	var categoryType string
	if err := row.Scan(&cat.ID, &cat.Name, &cat.Color, &categoryType); err != nil {
		return nil, err
	}
	cat.Type = model.CategoryType(categoryType)
	return &cat, nil
}
