package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/finance-control/internal/model"
	"github.com/shopspring/decimal"
)

// SumByCategory totals transactions of one type per category, largest first.
// Transactions without a category are grouped under ID 0 as Uncategorized.
func (s *SQLiteStorage) SumByCategory(ctx context.Context, txType model.TransactionType, start, end *time.Time) ([]model.CategoryTotal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if !txType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidType, txType)
	}
	if err := validateDateRange(start, end); err != nil {
		return nil, err
	}

	conditions := []string{"t.type = ?"}
	args := []any{string(txType)}
	dateConds, dateArgs := dateConditions("t.date", start, end)
	conditions = append(conditions, dateConds...)
	args = append(args, dateArgs...)

	query := `
		SELECT COALESCE(c.id, 0),
		       COALESCE(c.name, ?),
		       COALESCE(c.color, ?),
		       SUM(t.amount) AS total
		FROM transactions t
		LEFT JOIN categories c ON t.category_id = c.id
		WHERE ` + strings.Join(conditions, " AND ") + `
		GROUP BY COALESCE(c.id, 0)
		ORDER BY total DESC`
	args = append([]any{model.UncategorizedName, model.DefaultColor}, args...)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeError("sum by category", err)
	}
	defer func() { _ = rows.Close() }()

	totals := []model.CategoryTotal{}
	for rows.Next() {
		var ct model.CategoryTotal
		if err := rows.Scan(&ct.CategoryID, &ct.CategoryName, &ct.CategoryColor, &ct.Total); err != nil {
			return nil, storeError("scan category total", err)
		}
		ct.Total = ct.Total.Round(moneyPlaces)
		totals = append(totals, ct)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("iterate category totals", err)
	}

	slog.Debug("summed by category", "type", txType, "groups", len(totals))
	return totals, nil
}

// moneyPlaces is the precision sums are rounded to. Amounts are stored as
// REAL, so SQL sums carry float noise.
const moneyPlaces = 2

// monthRow is one (month, type) group as returned by SQL.
type monthRow struct {
	month  string
	txType model.TransactionType
	total  decimal.Decimal
}

// SumByMonth returns income, expense and balance per calendar month in
// ascending month order. Months without transactions are omitted.
func (s *SQLiteStorage) SumByMonth(ctx context.Context, start, end *time.Time) ([]model.MonthTotal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateDateRange(start, end); err != nil {
		return nil, err
	}

	conditions, args := dateConditions("t.date", start, end)
	query := `SELECT strftime('%Y-%m', t.date) AS month, t.type, SUM(t.amount) FROM transactions t`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " GROUP BY month, t.type ORDER BY month"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeError("sum by month", err)
	}
	defer func() { _ = rows.Close() }()

	var grouped []monthRow
	for rows.Next() {
		var r monthRow
		var txType string
		if err := rows.Scan(&r.month, &txType, &r.total); err != nil {
			return nil, storeError("scan month total", err)
		}
		r.txType = model.TransactionType(txType)
		r.total = r.total.Round(moneyPlaces)
		grouped = append(grouped, r)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("iterate month totals", err)
	}

	months := foldMonthRows(grouped)
	slog.Debug("summed by month", "months", len(months))
	return months, nil
}

// foldMonthRows merges per-type rows into one record per month. Input must be
// ordered by month.
func foldMonthRows(rows []monthRow) []model.MonthTotal {
	months := []model.MonthTotal{}
	for _, r := range rows {
		if len(months) == 0 || months[len(months)-1].Month != r.month {
			months = append(months, model.MonthTotal{
				Month:   r.month,
				Income:  decimal.Zero,
				Expense: decimal.Zero,
				Balance: decimal.Zero,
			})
		}
		current := &months[len(months)-1]
		switch r.txType {
		case model.TransactionTypeIncome:
			current.Income = current.Income.Add(r.total)
		case model.TransactionTypeExpense:
			current.Expense = current.Expense.Add(r.total)
		}
		current.Balance = current.Income.Sub(current.Expense)
	}
	return months
}

// GetBalance returns total income minus total expense over all transactions.
func (s *SQLiteStorage) GetBalance(ctx context.Context) (decimal.Decimal, error) {
	if err := validateContext(ctx); err != nil {
		return decimal.Zero, err
	}

	income, err := sumByType(ctx, s.db, model.TransactionTypeIncome)
	if err != nil {
		return decimal.Zero, storeError("sum income", err)
	}
	expense, err := sumByType(ctx, s.db, model.TransactionTypeExpense)
	if err != nil {
		return decimal.Zero, storeError("sum expenses", err)
	}

	return income.Sub(expense), nil
}

func sumByType(ctx context.Context, q queryable, txType model.TransactionType) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := q.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE type = ?", string(txType),
	).Scan(&total)
	return total.Round(moneyPlaces), err
}
