package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const sectionRule = "--------------------"

// GeneratedLayout formats the timestamp on the last line of a rendered report.
const GeneratedLayout = "2006-01-02 15:04:05"

// Title returns the heading for a report.
func Title(r *Report) string {
	switch r.Kind {
	case KindMonthly:
		return fmt.Sprintf("Financial report for %s %d", r.MonthName, r.Year)
	case KindPeriod:
		return fmt.Sprintf("Financial report for the period %s to %s", r.StartDate, r.EndDate)
	default:
		return fmt.Sprintf("Financial report for %d", r.Year)
	}
}

// RenderText renders r as plain text ending with a generation timestamp.
func RenderText(r *Report, generatedAt time.Time) string {
	var b strings.Builder

	title := Title(r)
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")

	b.WriteString("OVERALL STATS\n")
	b.WriteString(sectionRule + "\n")
	fmt.Fprintf(&b, "Transactions: %d\n", r.TransactionCount)
	fmt.Fprintf(&b, "Total income: %s\n", r.TotalIncome.StringFixed(2))
	fmt.Fprintf(&b, "Total expense: %s\n", r.TotalExpense.StringFixed(2))
	fmt.Fprintf(&b, "Balance: %s\n\n", r.Balance.StringFixed(2))

	writeBreakdown(&b, "INCOME BY CATEGORY", r.IncomeByCategory, r.TotalIncome, "No income recorded for this period.")
	writeBreakdown(&b, "EXPENSES BY CATEGORY", r.ExpensesByCategory, r.TotalExpense, "No expenses recorded for this period.")

	if r.Kind == KindAnnual {
		b.WriteString("MONTHLY BREAKDOWN\n")
		b.WriteString(sectionRule + "\n")
		for _, m := range r.Months {
			fmt.Fprintf(&b, "%s:\n", m.MonthName)
			fmt.Fprintf(&b, "  Income: %s\n", m.Income.StringFixed(2))
			fmt.Fprintf(&b, "  Expense: %s\n", m.Expense.StringFixed(2))
			fmt.Fprintf(&b, "  Balance: %s\n", m.Balance.StringFixed(2))
			fmt.Fprintf(&b, "  Transactions: %d\n\n", m.TransactionCount)
		}
	}

	fmt.Fprintf(&b, "\nReport generated: %s", generatedAt.Format(GeneratedLayout))
	return b.String()
}

func writeBreakdown(b *strings.Builder, heading string, rows []CategoryAmount, total decimal.Decimal, empty string) {
	b.WriteString(heading + "\n")
	b.WriteString(sectionRule + "\n")

	if len(rows) == 0 {
		b.WriteString(empty + "\n")
	}
	for _, row := range rows {
		fmt.Fprintf(b, "%s: %s (%s%%)\n", row.Category, row.Amount.StringFixed(2), Percent(row.Amount, total).StringFixed(1))
	}
	b.WriteString("\n")
}
