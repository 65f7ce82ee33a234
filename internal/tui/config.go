package tui

import (
	"context"
	"time"

	"github.com/Veraticus/finance-control/internal/model"
	"github.com/Veraticus/finance-control/internal/service"
	"github.com/Veraticus/finance-control/internal/tui/themes"
	"github.com/shopspring/decimal"
)

// Store is the subset of storage the dashboard reads from.
type Store interface {
	GetBalance(ctx context.Context) (decimal.Decimal, error)
	SumByMonth(ctx context.Context, start, end *time.Time) ([]model.MonthTotal, error)
	SumByCategory(ctx context.Context, txType model.TransactionType, start, end *time.Time) ([]model.CategoryTotal, error)
	GetTransactions(ctx context.Context, filter service.TransactionFilter) ([]model.Transaction, error)
}

// Config holds TUI configuration.
type Config struct {
	Theme       themes.Theme
	Storage     Store
	Now         func() time.Time
	Width       int
	Height      int
	RecentLimit int
	MonthsShown int
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

func defaultConfig() Config {
	return Config{
		Theme:       themes.Default,
		Now:         time.Now,
		Width:       100,
		Height:      30,
		RecentLimit: 10,
		MonthsShown: 6,
	}
}

// WithStorage sets the data source.
func WithStorage(storage Store) Option {
	return func(c *Config) {
		c.Storage = storage
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithClock overrides the clock used to pick the current month.
func WithClock(now func() time.Time) Option {
	return func(c *Config) {
		c.Now = now
	}
}

// WithRecentLimit sets how many recent transactions are listed.
func WithRecentLimit(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.RecentLimit = n
		}
	}
}

// WithMonthsShown sets how many months the trend chart covers.
func WithMonthsShown(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.MonthsShown = n
		}
	}
}
