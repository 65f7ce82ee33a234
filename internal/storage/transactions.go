package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/finance-control/internal/common"
	"github.com/Veraticus/finance-control/internal/model"
	"github.com/Veraticus/finance-control/internal/service"
)

const transactionSelect = `
	SELECT t.id, t.amount, t.category_id, t.date, t.description, t.type,
	       c.name, c.color
	FROM transactions t
	LEFT JOIN categories c ON t.category_id = c.id`

const transactionOrder = " ORDER BY t.date DESC, t.id DESC"

// AddTransaction validates and stores a new transaction, returning its ID.
// An empty date means today. A date that does not parse as YYYY-MM-DD also
// falls back to today rather than failing.
func (s *SQLiteStorage) AddTransaction(ctx context.Context, input model.TransactionInput) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateTransactionInput(input); err != nil {
		return 0, err
	}

	date := s.today()
	if input.Date != "" {
		parsed, err := model.ParseDate(input.Date)
		if err != nil {
			slog.Warn("unparseable transaction date, using today", "date", input.Date, "error", err)
		} else {
			date = parsed
		}
	}

	var id int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			INSERT INTO transactions (amount, category_id, date, description, type)
			VALUES (?, ?, ?, ?, ?)`,
			input.Amount.InexactFloat64(),
			nullableID(input.CategoryID),
			date.Format(model.DateLayout),
			input.Description,
			string(input.Type),
		)
		if err != nil {
			return err
		}
		id, err = result.LastInsertId()
		return err
	})
	if err != nil {
		return 0, storeError("add transaction", err)
	}

	slog.Info("added transaction", "id", id, "type", input.Type, "amount", input.Amount.String())
	return id, nil
}

// UpdateTransaction replaces every field of an existing transaction. Unlike
// AddTransaction, a malformed date is rejected.
func (s *SQLiteStorage) UpdateTransaction(ctx context.Context, id int64, input model.TransactionInput) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransactionInput(input); err != nil {
		return err
	}
	date, err := model.ParseDate(input.Date)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, input.Date)
	}

	var affected int64
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE transactions
			SET amount = ?, category_id = ?, date = ?, description = ?, type = ?
			WHERE id = ?`,
			input.Amount.InexactFloat64(),
			nullableID(input.CategoryID),
			date.Format(model.DateLayout),
			input.Description,
			string(input.Type),
			id,
		)
		if err != nil {
			return err
		}
		affected, err = result.RowsAffected()
		return err
	})
	if err != nil {
		return storeError("update transaction", err)
	}
	if affected == 0 {
		return fmt.Errorf("transaction %d: %w", id, common.ErrNotFound)
	}

	slog.Info("updated transaction", "id", id)
	return nil
}

// DeleteTransaction removes a transaction by ID.
func (s *SQLiteStorage) DeleteTransaction(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", id)
	if err != nil {
		return storeError("delete transaction", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return storeError("delete transaction", err)
	}
	if affected == 0 {
		return fmt.Errorf("transaction %d: %w", id, common.ErrNotFound)
	}

	slog.Info("deleted transaction", "id", id)
	return nil
}

// GetTransactionByID returns a transaction joined with its category. When the
// category is missing the name and color are left empty.
func (s *SQLiteStorage) GetTransactionByID(ctx context.Context, id int64) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, transactionSelect+" WHERE t.id = ?", id)
	txn, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction %d: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, storeError("get transaction", err)
	}

	return txn, nil
}

// GetAllTransactions returns every transaction, newest first.
func (s *SQLiteStorage) GetAllTransactions(ctx context.Context) ([]model.Transaction, error) {
	return s.GetTransactions(ctx, service.TransactionFilter{})
}

// GetTransactionsByType returns transactions of one type, newest first.
func (s *SQLiteStorage) GetTransactionsByType(ctx context.Context, txType model.TransactionType) ([]model.Transaction, error) {
	if !txType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidType, txType)
	}
	return s.GetTransactions(ctx, service.TransactionFilter{Type: txType})
}

// GetTransactionsByDateRange returns transactions dated within [start, end].
// A nil end means today.
func (s *SQLiteStorage) GetTransactionsByDateRange(ctx context.Context, start time.Time, end *time.Time) ([]model.Transaction, error) {
	if end == nil {
		today := s.today()
		if start.After(today) {
			return []model.Transaction{}, nil
		}
		end = &today
	}
	return s.GetTransactions(ctx, service.TransactionFilter{StartDate: &start, EndDate: end})
}

// GetTransactionsByCategory returns transactions assigned to a category.
func (s *SQLiteStorage) GetTransactionsByCategory(ctx context.Context, categoryID int64) ([]model.Transaction, error) {
	return s.GetTransactions(ctx, service.TransactionFilter{CategoryID: &categoryID})
}

// GetTransactions returns transactions matching every set field of filter,
// newest first. Missing categories are shown as uncategorized.
func (s *SQLiteStorage) GetTransactions(ctx context.Context, filter service.TransactionFilter) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidType, filter.Type)
	}
	if err := validateDateRange(filter.StartDate, filter.EndDate); err != nil {
		return nil, err
	}

	var conditions []string
	var args []any

	if filter.Type != "" {
		conditions = append(conditions, "t.type = ?")
		args = append(args, string(filter.Type))
	}
	dateConds, dateArgs := dateConditions("t.date", filter.StartDate, filter.EndDate)
	conditions = append(conditions, dateConds...)
	args = append(args, dateArgs...)
	if filter.CategoryID != nil {
		conditions = append(conditions, "t.category_id = ?")
		args = append(args, *filter.CategoryID)
	}

	query := transactionSelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += transactionOrder
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeError("query transactions", err)
	}
	defer func() { _ = rows.Close() }()

	transactions := []model.Transaction{}
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, storeError("scan transaction", err)
		}
		txn.CategoryName = txn.DisplayCategory()
		txn.CategoryColor = txn.DisplayColor()
		transactions = append(transactions, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("iterate transactions", err)
	}

	slog.Debug("retrieved transactions", "count", len(transactions))
	return transactions, nil
}

// CountTransactions returns the number of stored transactions.
func (s *SQLiteStorage) CountTransactions(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM transactions").Scan(&count); err != nil {
		return 0, storeError("count transactions", err)
	}
	return count, nil
}

func scanTransaction(row rowScanner) (*model.Transaction, error) {
	var (
		txn         model.Transaction
		categoryID  sql.NullInt64
		date        string
		description sql.NullString
		txType      string
		catName     sql.NullString
		catColor    sql.NullString
	)

	if err := row.Scan(&txn.ID, &txn.Amount, &categoryID, &date, &description, &txType, &catName, &catColor); err != nil {
		return nil, err
	}

	parsed, err := model.ParseDate(date)
	if err != nil {
		return nil, fmt.Errorf("transaction %d has malformed date %q: %w", txn.ID, date, err)
	}
	txn.Date = parsed
	txn.Type = model.TransactionType(txType)
	txn.Description = description.String
	txn.CategoryName = catName.String
	txn.CategoryColor = catColor.String
	if categoryID.Valid {
		id := categoryID.Int64
		txn.CategoryID = &id
	}

	return &txn, nil
}

// dateConditions builds inclusive bounds on a YYYY-MM-DD text column.
func dateConditions(column string, start, end *time.Time) ([]string, []any) {
	var conds []string
	var args []any
	if start != nil {
		conds = append(conds, column+" >= ?")
		args = append(args, start.Format(model.DateLayout))
	}
	if end != nil {
		conds = append(conds, column+" <= ?")
		args = append(args, end.Format(model.DateLayout))
	}
	return conds, args
}

func nullableID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}
