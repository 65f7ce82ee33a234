package model

import "github.com/shopspring/decimal"

// CategoryTotal is the sum of one transaction type for a single category.
// CategoryID 0 is the synthetic uncategorized group.
type CategoryTotal struct {
	CategoryName  string          `json:"category_name"`
	CategoryColor string          `json:"category_color"`
	Total         decimal.Decimal `json:"total"`
	CategoryID    int64           `json:"category_id"`
}

// MonthTotal holds income and expense sums for one calendar month.
type MonthTotal struct {
	Month   string          `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}
