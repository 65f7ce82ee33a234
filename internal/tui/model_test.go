package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Veraticus/finance-control/internal/model"
	"github.com/Veraticus/finance-control/internal/service"
	"github.com/Veraticus/finance-control/internal/tui/themes"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	err        error
	filters    []service.TransactionFilter
	monthRange [2]time.Time
}

func (f *fakeStore) GetBalance(_ context.Context) (decimal.Decimal, error) {
	return decimal.NewFromInt(500), f.err
}

func (f *fakeStore) SumByMonth(_ context.Context, start, end *time.Time) ([]model.MonthTotal, error) {
	f.monthRange = [2]time.Time{*start, *end}
	return []model.MonthTotal{
		{Month: "2024-03", Income: decimal.NewFromInt(1000), Expense: decimal.NewFromInt(500), Balance: decimal.NewFromInt(500)},
	}, nil
}

func (f *fakeStore) SumByCategory(_ context.Context, txType model.TransactionType, _, _ *time.Time) ([]model.CategoryTotal, error) {
	if txType == model.TransactionTypeIncome {
		return []model.CategoryTotal{{CategoryID: 9, CategoryName: "Salary", CategoryColor: "#4CAF50", Total: decimal.NewFromInt(1000)}}, nil
	}
	return []model.CategoryTotal{{CategoryID: 1, CategoryName: "Groceries", CategoryColor: "#4CAF50", Total: decimal.NewFromInt(500)}}, nil
}

func (f *fakeStore) GetTransactions(_ context.Context, filter service.TransactionFilter) ([]model.Transaction, error) {
	f.filters = append(f.filters, filter)
	return []model.Transaction{
		{ID: 1, Date: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(500), Type: model.TransactionTypeExpense, CategoryName: "Groceries", Description: "weekly shop"},
	}, nil
}

var fixedNow = func() time.Time { return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC) }

func newTestModel(store Store) Model {
	return New(context.Background(),
		WithStorage(store),
		WithClock(fixedNow),
		WithSize(120, 40),
		WithRecentLimit(5),
		WithMonthsShown(3),
	)
}

// load runs the pending command and feeds its message back into the model.
func load(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	require.NotNil(t, cmd)
	next, _ := m.Update(cmd())
	return next.(Model)
}

func press(m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestMonthBounds(t *testing.T) {
	start, end := monthBounds(fixedNow(), 0)
	assert.Equal(t, "2024-03-01", start.Format(model.DateLayout))
	assert.Equal(t, "2024-03-31", end.Format(model.DateLayout))

	start, end = monthBounds(fixedNow(), -1)
	assert.Equal(t, "2024-02-01", start.Format(model.DateLayout))
	assert.Equal(t, "2024-02-29", end.Format(model.DateLayout))

	start, _ = monthBounds(fixedNow(), -3)
	assert.Equal(t, "2023-12-01", start.Format(model.DateLayout))
}

func TestDashboardLoad(t *testing.T) {
	store := &fakeStore{}
	m := newTestModel(store)
	assert.Contains(t, m.View(), "Loading")

	m = load(t, m, m.Init())
	require.True(t, m.ready)
	require.NoError(t, m.lastError)

	assert.Equal(t, "2024-01-01", store.monthRange[0].Format(model.DateLayout))
	assert.Equal(t, "2024-03-31", store.monthRange[1].Format(model.DateLayout))
	require.Len(t, store.filters, 1)
	assert.Equal(t, 5, store.filters[0].Limit)

	view := m.View()
	assert.Contains(t, view, "March 2024")
	assert.Contains(t, view, "500.00")
	assert.Contains(t, view, "Expenses by category")
	assert.Contains(t, view, "Groceries")
	assert.Contains(t, view, "Monthly trend")
}

func TestDashboardToggles(t *testing.T) {
	m := newTestModel(&fakeStore{})
	m = load(t, m, m.Init())

	m, _ = press(m, runes("i"))
	assert.Contains(t, m.View(), "Income by category")
	assert.Contains(t, m.View(), "Salary")

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, ViewTransactions, m.view)
	assert.Contains(t, m.View(), "weekly shop")
	assert.Contains(t, m.View(), "-500.00")

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, ViewOverview, m.view)
}

func TestDashboardPeriodNavigation(t *testing.T) {
	store := &fakeStore{}
	m := newTestModel(store)
	m = load(t, m, m.Init())

	m, cmd := press(m, runes("l"))
	assert.Nil(t, cmd, "cannot move past the current month")

	m, cmd = press(m, runes("h"))
	assert.Equal(t, -1, m.period)
	assert.True(t, m.loading)
	m = load(t, m, cmd)
	assert.False(t, m.loading)
	assert.Contains(t, m.View(), "February 2024")

	// A stale result for another period is dropped.
	stale := dashboardLoadedMsg{period: 0, err: errors.New("stale")}
	next, _ := m.Update(stale)
	assert.NoError(t, next.(Model).lastError)

	m, cmd = press(m, runes("t"))
	assert.Equal(t, 0, m.period)
	m = load(t, m, cmd)
	assert.Contains(t, m.View(), "March 2024")
}

func TestDashboardError(t *testing.T) {
	m := newTestModel(&fakeStore{err: errors.New("database is locked")})
	m = load(t, m, m.Init())

	require.Error(t, m.lastError)
	assert.Contains(t, m.View(), "failed to load balance")
	assert.Contains(t, m.View(), "database is locked")
}

func TestDashboardWithoutStorage(t *testing.T) {
	m := New(context.Background(), WithClock(fixedNow))
	m = load(t, m, m.Init())
	assert.Contains(t, m.View(), "storage not configured")

	assert.Error(t, Run(context.Background()))
}

func TestDashboardQuit(t *testing.T) {
	m := newTestModel(&fakeStore{})
	m = load(t, m, m.Init())

	m, cmd := press(m, runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.quitting)
	assert.Empty(t, m.View())
}

func TestGetTheme(t *testing.T) {
	assert.Equal(t, "Fusion", themes.GetTheme("Fusion").Name)
	assert.Equal(t, "catppuccin-mocha", themes.GetTheme("dark").Name)
	assert.Equal(t, "Fusion", themes.GetTheme("unknown").Name)
}
