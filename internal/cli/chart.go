package cli

import (
	"fmt"
	"strings"

	"github.com/Veraticus/finance-control/internal/model"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

const (
	barRune = "█"
	// DefaultChartWidth is the bar length of the largest value.
	DefaultChartWidth = 40
)

// barLength scales value against max. Any positive value gets at least one cell.
func barLength(value, maxValue decimal.Decimal, width int) int {
	if !value.IsPositive() || !maxValue.IsPositive() || width <= 0 {
		return 0
	}
	n := int(value.Div(maxValue).Mul(decimal.NewFromInt(int64(width))).Round(0).IntPart())
	if n < 1 {
		n = 1
	}
	if n > width {
		n = width
	}
	return n
}

func bar(n int, color lipgloss.Color) string {
	return lipgloss.NewStyle().Foreground(color).Render(strings.Repeat(barRune, n))
}

// CategoryChart renders category totals as horizontal bars in each
// category's color, with the amount and share of the grand total.
func CategoryChart(title string, totals []model.CategoryTotal, width int) string {
	if width <= 0 {
		width = DefaultChartWidth
	}
	if len(totals) == 0 {
		return TitleStyle.Render(title) + "\n" + SubtleStyle.Render("No data for this period.")
	}

	grand := decimal.Zero
	maxTotal := decimal.Zero
	labelWidth := 0
	for _, ct := range totals {
		grand = grand.Add(ct.Total)
		if ct.Total.GreaterThan(maxTotal) {
			maxTotal = ct.Total
		}
		labelWidth = max(labelWidth, lipgloss.Width(ct.CategoryName))
	}

	lines := []string{TitleStyle.Render(title)}
	for _, ct := range totals {
		n := barLength(ct.Total, maxTotal, width)
		share := decimal.Zero
		if grand.IsPositive() {
			share = ct.Total.Div(grand).Mul(decimal.NewFromInt(100))
		}
		lines = append(lines, fmt.Sprintf("%-*s %s%s %s (%s%%)",
			labelWidth, ct.CategoryName,
			bar(n, lipgloss.Color(ct.CategoryColor)),
			strings.Repeat(" ", width-n),
			ct.Total.StringFixed(2),
			share.StringFixed(1),
		))
	}
	lines = append(lines, SubtleStyle.Render(fmt.Sprintf("%-*s %s", labelWidth, "Total", grand.StringFixed(2))))
	return strings.Join(lines, "\n")
}

// MonthChart renders paired income and expense bars per month followed by
// the month's balance.
func MonthChart(title string, months []model.MonthTotal, width int) string {
	if width <= 0 {
		width = DefaultChartWidth
	}
	if len(months) == 0 {
		return TitleStyle.Render(title) + "\n" + SubtleStyle.Render("No data for this period.")
	}

	maxValue := decimal.Zero
	for _, m := range months {
		maxValue = decimal.Max(maxValue, m.Income, m.Expense)
	}

	lines := []string{TitleStyle.Render(title)}
	for _, m := range months {
		in := barLength(m.Income, maxValue, width)
		out := barLength(m.Expense, maxValue, width)
		lines = append(lines,
			fmt.Sprintf("%s  in  %s%s %s", m.Month, bar(in, IncomeColor), strings.Repeat(" ", width-in), m.Income.StringFixed(2)),
			fmt.Sprintf("%s  out %s%s %s", strings.Repeat(" ", len(m.Month)), bar(out, ExpenseColor), strings.Repeat(" ", width-out), m.Expense.StringFixed(2)),
			fmt.Sprintf("%s  balance %s", strings.Repeat(" ", len(m.Month)), FormatBalance(m.Balance)),
		)
	}
	return strings.Join(lines, "\n")
}
