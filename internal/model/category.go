package model

import "regexp"

// CategoryType indicates whether a category is for income or expense.
type CategoryType string

const (
	// CategoryTypeIncome represents categories for income transactions.
	CategoryTypeIncome CategoryType = "income"
	// CategoryTypeExpense represents categories for expense transactions.
	CategoryTypeExpense CategoryType = "expense"
)

const (
	// UncategorizedName is shown for transactions without a category.
	UncategorizedName = "Uncategorized"
	// DefaultColor is the color used for uncategorized transactions.
	DefaultColor = "#607D8B"
)

var hexColorRegex = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Valid reports whether t is one of the known category types.
func (t CategoryType) Valid() bool {
	return t == CategoryTypeIncome || t == CategoryTypeExpense
}

// Category is a user-defined bucket for transactions of one type.
type Category struct {
	Name  string       `json:"name"`
	Color string       `json:"color"`
	Type  CategoryType `json:"type"`
	ID    int64        `json:"id"`
}

// IsValidColor reports whether s is a #RRGGBB hex color.
func IsValidColor(s string) bool {
	return hexColorRegex.MatchString(s)
}

// DefaultCategory is a seed entry created on first initialization.
type DefaultCategory struct {
	Name  string
	Color string
}

// DefaultExpenseCategories are seeded when no expense category exists.
var DefaultExpenseCategories = []DefaultCategory{
	{Name: "Groceries", Color: "#4CAF50"},
	{Name: "Transport", Color: "#2196F3"},
	{Name: "Housing", Color: "#FFC107"},
	{Name: "Entertainment", Color: "#9C27B0"},
	{Name: "Health", Color: "#F44336"},
	{Name: "Clothing", Color: "#FF9800"},
	{Name: "Education", Color: "#795548"},
	{Name: "Other", Color: DefaultColor},
}

// DefaultIncomeCategories are seeded when no income category exists.
var DefaultIncomeCategories = []DefaultCategory{
	{Name: "Salary", Color: "#4CAF50"},
	{Name: "Freelance", Color: "#2196F3"},
	{Name: "Investments", Color: "#FFC107"},
	{Name: "Gifts", Color: "#9C27B0"},
	{Name: "Other", Color: DefaultColor},
}
