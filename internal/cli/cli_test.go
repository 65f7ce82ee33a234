package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/finance-control/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBarLength(t *testing.T) {
	tests := []struct {
		name  string
		value string
		max   string
		width int
		want  int
	}{
		{name: "full", value: "100", max: "100", width: 40, want: 40},
		{name: "half", value: "50", max: "100", width: 40, want: 20},
		{name: "tiny positive still visible", value: "0.01", max: "1000", width: 40, want: 1},
		{name: "zero", value: "0", max: "100", width: 40, want: 0},
		{name: "zero max", value: "0", max: "0", width: 40, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := barLength(decimal.RequireFromString(tt.value), decimal.RequireFromString(tt.max), tt.width)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCategoryChart(t *testing.T) {
	totals := []model.CategoryTotal{
		{CategoryID: 1, CategoryName: "Food", CategoryColor: "#FF0000", Total: decimal.NewFromInt(300)},
		{CategoryID: 0, CategoryName: model.UncategorizedName, CategoryColor: model.DefaultColor, Total: decimal.NewFromInt(100)},
	}

	out := CategoryChart("Expenses", totals, 20)
	assert.Contains(t, out, "Expenses")
	assert.Contains(t, out, "300.00 (75.0%)")
	assert.Contains(t, out, "100.00 (25.0%)")
	assert.Contains(t, out, "400.00")
	assert.Equal(t, 20, strings.Count(strings.Split(out, "\n")[1], barRune))

	empty := CategoryChart("Income", nil, 20)
	assert.Contains(t, empty, "No data for this period.")
}

func TestMonthChart(t *testing.T) {
	months := []model.MonthTotal{
		{Month: "2024-01", Income: decimal.NewFromInt(1000), Expense: decimal.NewFromInt(300), Balance: decimal.NewFromInt(700)},
		{Month: "2024-02", Income: decimal.Zero, Expense: decimal.NewFromInt(200), Balance: decimal.NewFromInt(-200)},
	}

	out := MonthChart("Monthly", months, 10)
	assert.Contains(t, out, "2024-01")
	assert.Contains(t, out, "1000.00")
	assert.Contains(t, out, "700.00")
	assert.Contains(t, out, "-200.00")
	assert.Contains(t, MonthChart("Monthly", nil, 10), "No data for this period.")
}

func TestTables(t *testing.T) {
	catID := int64(3)
	txns := []model.Transaction{
		{ID: 7, Date: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), Amount: decimal.RequireFromString("12.5"), Type: model.TransactionTypeExpense, CategoryID: &catID, CategoryName: "Food", CategoryColor: "#FF0000", Description: "lunch"},
		{ID: 8, Date: time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(1000), Type: model.TransactionTypeIncome},
	}

	out := TransactionTable(txns)
	for _, want := range []string{"Description", "2024-01-05", "Food", "-12.50", "lunch", "+1000.00", model.UncategorizedName} {
		assert.Contains(t, out, want)
	}

	cats := CategoryTable([]model.Category{{ID: 1, Name: "Salary", Color: "#4CAF50", Type: model.CategoryTypeIncome}})
	assert.Contains(t, cats, "Salary")
	assert.Contains(t, cats, "#4CAF50")
}

func TestFormatAmount(t *testing.T) {
	assert.Contains(t, FormatAmount(decimal.NewFromInt(5), model.TransactionTypeExpense), "-5.00")
	assert.Contains(t, FormatAmount(decimal.NewFromInt(5), model.TransactionTypeIncome), "+5.00")
	assert.Contains(t, FormatBalance(decimal.NewFromInt(-3)), "-3.00")
}

func TestNewProgressBar(t *testing.T) {
	var out bytes.Buffer
	bar := NewProgressBar(&out, 3, "Importing")
	for i := 0; i < 3; i++ {
		require.NoError(t, bar.Add(1))
	}
	assert.True(t, bar.IsFinished())
	assert.Contains(t, out.String(), "Importing")
}
