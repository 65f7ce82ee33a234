package tui

import (
	"context"
	"testing"

	"github.com/Veraticus/finance-control/internal/model"
	"github.com/Veraticus/finance-control/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardAgainstSQLite(t *testing.T) {
	db := testutil.SetupTestDB(t)
	groceries := db.MustCategoryID("Groceries", model.CategoryTypeExpense)
	salary := db.MustCategoryID("Salary", model.CategoryTypeIncome)

	db.Seed(
		testutil.Income("3000", "2024-02-01").In(salary),
		testutil.Expense("120.50", "2024-03-02").In(groceries).Described("market"),
		testutil.Expense("79.50", "2024-03-09"),
	)

	m := New(context.Background(),
		WithStorage(db.Storage),
		WithClock(fixedNow),
		WithSize(120, 40),
	)
	m = load(t, m, m.Init())
	require.NoError(t, m.lastError)

	assert.True(t, m.data.balance.Equal(testutil.Amount("2800")))
	require.Len(t, m.data.recent, 2)
	require.Len(t, m.data.expenses, 2)

	view := m.View()
	assert.Contains(t, view, "2800.00")
	assert.Contains(t, view, "Groceries")
	assert.Contains(t, view, model.UncategorizedName)

	m, cmd := press(m, runes("h"))
	m = load(t, m, cmd)
	assert.Empty(t, m.data.expenses)
	require.Len(t, m.data.income, 1)
	assert.Equal(t, "Salary", m.data.income[0].CategoryName)
}
