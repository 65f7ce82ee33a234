package testutil

import (
	"github.com/Veraticus/finance-control/internal/model"
)

// TransactionBuilder provides a fluent interface for constructing
// transaction inputs in tests.
type TransactionBuilder struct {
	input model.TransactionInput
}

// Expense starts a builder for an expense of the given amount on date.
func Expense(amount, date string) *TransactionBuilder {
	return &TransactionBuilder{input: model.TransactionInput{
		Amount: Amount(amount),
		Type:   model.TransactionTypeExpense,
		Date:   date,
	}}
}

// Income starts a builder for income of the given amount on date.
func Income(amount, date string) *TransactionBuilder {
	return &TransactionBuilder{input: model.TransactionInput{
		Amount: Amount(amount),
		Type:   model.TransactionTypeIncome,
		Date:   date,
	}}
}

// In assigns the transaction to a category.
func (b *TransactionBuilder) In(categoryID int64) *TransactionBuilder {
	id := categoryID
	b.input.CategoryID = &id
	return b
}

// Described sets the description.
func (b *TransactionBuilder) Described(description string) *TransactionBuilder {
	b.input.Description = description
	return b
}

// Input returns the built input.
func (b *TransactionBuilder) Input() model.TransactionInput {
	return b.input
}
