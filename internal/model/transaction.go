// Package model defines the core data types for the finance tracker.
package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the storage and display format for transaction dates.
const DateLayout = "2006-01-02"

// MonthLayout is the key format for monthly aggregates.
const MonthLayout = "2006-01"

// TransactionType distinguishes money coming in from money going out.
type TransactionType string

const (
	// TransactionTypeIncome is money received.
	TransactionTypeIncome TransactionType = "income"
	// TransactionTypeExpense is money spent.
	TransactionTypeExpense TransactionType = "expense"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Transaction is a single income or expense record joined with its category
// display fields.
type Transaction struct {
	Date          time.Time
	CategoryID    *int64
	Amount        decimal.Decimal
	Description   string
	Type          TransactionType
	CategoryName  string
	CategoryColor string
	ID            int64
}

// TransactionInput carries the user-supplied fields for add and update.
// Date is the raw YYYY-MM-DD string as entered.
type TransactionInput struct {
	CategoryID  *int64
	Amount      decimal.Decimal
	Description string
	Type        TransactionType
	Date        string
}

// DisplayCategory returns the category name, or the uncategorized label.
func (t Transaction) DisplayCategory() string {
	if t.CategoryName == "" {
		return UncategorizedName
	}
	return t.CategoryName
}

// DisplayColor returns the category color, or the default gray.
func (t Transaction) DisplayColor() string {
	if t.CategoryColor == "" {
		return DefaultColor
	}
	return t.CategoryColor
}

// DateString returns the transaction date in storage form.
func (t Transaction) DateString() string {
	return t.Date.Format(DateLayout)
}

// String implements fmt.Stringer.
func (t Transaction) String() string {
	label := "Expense"
	if t.Type == TransactionTypeIncome {
		label = "Income"
	}
	category := ""
	if t.CategoryName != "" {
		category = " - " + t.CategoryName
	}
	return fmt.Sprintf("%s: %s%s (%s)", label, t.Amount.StringFixed(2), category, t.DateString())
}

// looseDateLayout accepts months and days without a leading zero.
const looseDateLayout = "2006-1-2"

// ParseDate parses a YYYY-MM-DD string. Months and days may omit the
// leading zero, so 2024-1-5 is read as 2024-01-05.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err == nil {
		return t, nil
	}
	if loose, looseErr := time.Parse(looseDateLayout, s); looseErr == nil {
		return loose, nil
	}
	return time.Time{}, err
}

type transactionJSON struct {
	CategoryID    *int64          `json:"category_id"`
	Amount        decimal.Decimal `json:"amount"`
	CategoryName  string          `json:"category_name,omitempty"`
	CategoryColor string          `json:"category_color,omitempty"`
	Date          string          `json:"date"`
	Description   string          `json:"description"`
	Type          TransactionType `json:"type"`
	ID            int64           `json:"id"`
}

// MarshalJSON encodes the transaction with its date as YYYY-MM-DD.
func (t Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(transactionJSON{
		ID:            t.ID,
		Amount:        t.Amount,
		CategoryID:    t.CategoryID,
		CategoryName:  t.CategoryName,
		CategoryColor: t.CategoryColor,
		Date:          t.DateString(),
		Description:   t.Description,
		Type:          t.Type,
	})
}

// UnmarshalJSON decodes a transaction. A missing or malformed date becomes
// the current day.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var raw transactionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	date, err := ParseDate(raw.Date)
	if err != nil {
		date = Today(time.Now())
	}
	if raw.Type == "" {
		raw.Type = TransactionTypeExpense
	}
	*t = Transaction{
		ID:            raw.ID,
		Amount:        raw.Amount,
		CategoryID:    raw.CategoryID,
		CategoryName:  raw.CategoryName,
		CategoryColor: raw.CategoryColor,
		Date:          date,
		Description:   raw.Description,
		Type:          raw.Type,
	}
	return nil
}

// Today truncates now to midnight UTC of the same calendar day.
func Today(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
