// Package report summarizes already-fetched transactions into monthly,
// annual and period reports and renders them as plain text.
package report

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Veraticus/finance-control/internal/model"
	"github.com/shopspring/decimal"
)

// Kind identifies which report shape was generated.
type Kind string

// Report kinds.
const (
	KindMonthly Kind = "monthly"
	KindAnnual  Kind = "annual"
	KindPeriod  Kind = "period"
)

// CategoryAmount is one row of a per-category breakdown.
type CategoryAmount struct {
	Category string          `json:"category"`
	Color    string          `json:"color"`
	Amount   decimal.Decimal `json:"amount"`
}

// MonthSummary is one month of an annual report.
type MonthSummary struct {
	MonthName        string          `json:"month_name"`
	Income           decimal.Decimal `json:"income"`
	Expense          decimal.Decimal `json:"expense"`
	Balance          decimal.Decimal `json:"balance"`
	Month            int             `json:"month"`
	TransactionCount int             `json:"transactions_count"`
}

// Report is the result of one aggregation. Fields not relevant to Kind are
// left zero: Month and MonthName for monthly reports, Months for annual
// reports, StartDate and EndDate for period reports.
type Report struct {
	TotalIncome        decimal.Decimal  `json:"total_income"`
	TotalExpense       decimal.Decimal  `json:"total_expense"`
	Balance            decimal.Decimal  `json:"balance"`
	Kind               Kind             `json:"kind"`
	MonthName          string           `json:"month_name,omitempty"`
	StartDate          string           `json:"start_date,omitempty"`
	EndDate            string           `json:"end_date,omitempty"`
	IncomeByCategory   []CategoryAmount `json:"income_by_category"`
	ExpensesByCategory []CategoryAmount `json:"expenses_by_category"`
	Months             []MonthSummary   `json:"monthly_data,omitempty"`
	Year               int              `json:"year,omitempty"`
	Month              int              `json:"month,omitempty"`
	TransactionCount   int              `json:"transactions_count"`
}

// ErrInvalidMonth is returned by Monthly for months outside 1-12.
var ErrInvalidMonth = errors.New("month must be between 1 and 12")

// Monthly summarizes transactions dated within the given calendar month.
func Monthly(txns []model.Transaction, year, month int) (*Report, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidMonth, month)
	}
	prefix := fmt.Sprintf("%04d-%02d", year, month)
	selected := filter(txns, func(t model.Transaction) bool {
		return strings.HasPrefix(t.DateString(), prefix)
	})

	r := summarize(selected)
	r.Kind = KindMonthly
	r.Year = year
	r.Month = month
	r.MonthName = time.Month(month).String()
	return r, nil
}

// Annual summarizes a calendar year. Months always holds twelve entries,
// zero-filled for months without transactions.
func Annual(txns []model.Transaction, year int) *Report {
	prefix := fmt.Sprintf("%04d-", year)
	selected := filter(txns, func(t model.Transaction) bool {
		return strings.HasPrefix(t.DateString(), prefix)
	})

	r := summarize(selected)
	r.Kind = KindAnnual
	r.Year = year
	r.Months = make([]MonthSummary, 12)
	for i := range r.Months {
		r.Months[i] = MonthSummary{
			Month:     i + 1,
			MonthName: time.Month(i + 1).String(),
			Income:    decimal.Zero,
			Expense:   decimal.Zero,
			Balance:   decimal.Zero,
		}
	}

	for _, t := range selected {
		m := &r.Months[int(t.Date.Month())-1]
		m.TransactionCount++
		switch t.Type {
		case model.TransactionTypeIncome:
			m.Income = m.Income.Add(t.Amount)
		case model.TransactionTypeExpense:
			m.Expense = m.Expense.Add(t.Amount)
		}
		m.Balance = m.Income.Sub(m.Expense)
	}
	return r
}

// Period summarizes transactions whose YYYY-MM-DD date falls within
// [start, end], compared as strings. Bounds written without leading zeros
// are padded first.
func Period(txns []model.Transaction, start, end string) *Report {
	start, end = padDate(start), padDate(end)
	selected := filter(txns, func(t model.Transaction) bool {
		d := t.DateString()
		return start <= d && d <= end
	})

	r := summarize(selected)
	r.Kind = KindPeriod
	r.StartDate = start
	r.EndDate = end
	return r
}

func padDate(s string) string {
	if t, err := model.ParseDate(s); err == nil {
		return t.Format(model.DateLayout)
	}
	return s
}

func filter(txns []model.Transaction, keep func(model.Transaction) bool) []model.Transaction {
	var out []model.Transaction
	for _, t := range txns {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

func summarize(txns []model.Transaction) *Report {
	r := &Report{
		TotalIncome:      decimal.Zero,
		TotalExpense:     decimal.Zero,
		TransactionCount: len(txns),
	}

	income := newBreakdown()
	expenses := newBreakdown()
	for _, t := range txns {
		switch t.Type {
		case model.TransactionTypeIncome:
			r.TotalIncome = r.TotalIncome.Add(t.Amount)
			income.add(t)
		case model.TransactionTypeExpense:
			r.TotalExpense = r.TotalExpense.Add(t.Amount)
			expenses.add(t)
		}
	}

	r.Balance = r.TotalIncome.Sub(r.TotalExpense)
	r.IncomeByCategory = income.sorted()
	r.ExpensesByCategory = expenses.sorted()
	return r
}

// breakdown accumulates amounts per category name.
type breakdown struct {
	index map[string]int
	rows  []CategoryAmount
}

func newBreakdown() *breakdown {
	return &breakdown{index: make(map[string]int)}
}

func (b *breakdown) add(t model.Transaction) {
	name := t.DisplayCategory()
	i, ok := b.index[name]
	if !ok {
		i = len(b.rows)
		b.index[name] = i
		b.rows = append(b.rows, CategoryAmount{Category: name, Color: t.DisplayColor(), Amount: decimal.Zero})
	}
	b.rows[i].Amount = b.rows[i].Amount.Add(t.Amount)
}

// sorted returns rows by descending amount, then by name.
func (b *breakdown) sorted() []CategoryAmount {
	rows := append([]CategoryAmount{}, b.rows...)
	sort.SliceStable(rows, func(i, j int) bool {
		if c := rows[i].Amount.Cmp(rows[j].Amount); c != 0 {
			return c > 0
		}
		return rows[i].Category < rows[j].Category
	})
	return rows
}

// Percent returns part as a percentage of total, or zero when total is not
// positive.
func Percent(part, total decimal.Decimal) decimal.Decimal {
	if !total.IsPositive() {
		return decimal.Zero
	}
	return part.Div(total).Mul(decimal.NewFromInt(100))
}
