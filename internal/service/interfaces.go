// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/finance-control/internal/model"
	"github.com/shopspring/decimal"
)

// TransactionFilter defines filtering options for transaction queries.
// Zero values mean "no constraint".
type TransactionFilter struct {
	StartDate  *time.Time
	EndDate    *time.Time
	CategoryID *int64
	Type       model.TransactionType
	Limit      int
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Lifecycle
	Initialize(ctx context.Context) error
	Close() error

	// Category operations
	AddCategory(ctx context.Context, name, color string, categoryType model.CategoryType) (int64, error)
	UpdateCategory(ctx context.Context, id int64, name, color string) error
	DeleteCategory(ctx context.Context, id int64) error
	GetCategories(ctx context.Context, categoryType model.CategoryType) ([]model.Category, error)
	GetCategoryByID(ctx context.Context, id int64) (*model.Category, error)

	// Transaction operations
	AddTransaction(ctx context.Context, input model.TransactionInput) (int64, error)
	UpdateTransaction(ctx context.Context, id int64, input model.TransactionInput) error
	DeleteTransaction(ctx context.Context, id int64) error
	GetTransactionByID(ctx context.Context, id int64) (*model.Transaction, error)
	GetAllTransactions(ctx context.Context) ([]model.Transaction, error)
	GetTransactionsByType(ctx context.Context, txType model.TransactionType) ([]model.Transaction, error)
	GetTransactionsByDateRange(ctx context.Context, start time.Time, end *time.Time) ([]model.Transaction, error)
	GetTransactionsByCategory(ctx context.Context, categoryID int64) ([]model.Transaction, error)
	GetTransactions(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error)
	CountTransactions(ctx context.Context) (int, error)

	// Aggregates
	SumByCategory(ctx context.Context, txType model.TransactionType, start, end *time.Time) ([]model.CategoryTotal, error)
	SumByMonth(ctx context.Context, start, end *time.Time) ([]model.MonthTotal, error)
	GetBalance(ctx context.Context) (decimal.Decimal, error)
}
