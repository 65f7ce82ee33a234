package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Veraticus/finance-control/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValidateContext(t *testing.T) {
	tests := []struct {
		ctx     context.Context
		name    string
		wantErr bool
	}{
		{
			name:    "valid context",
			ctx:     context.Background(),
			wantErr: false,
		},
		{
			name:    "nil context",
			ctx:     nil,
			wantErr: true,
		},
		{
			name: "canceled context still valid",
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			}(),
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateContext(tt.ctx)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNilContext)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateString(t *testing.T) {
	assert.NoError(t, validateString("test", "param"))
	assert.ErrorIs(t, validateString("", "param"), ErrEmptyString)
	assert.ErrorIs(t, validateString("   \t", "param"), ErrEmptyString)
}

func TestValidateCategory(t *testing.T) {
	tests := []struct {
		wantErr      error
		name         string
		catName      string
		color        string
		categoryType model.CategoryType
	}{
		{name: "valid", catName: "Food", color: "#FF0000", categoryType: model.CategoryTypeExpense},
		{name: "blank name", catName: "  ", color: "#FF0000", categoryType: model.CategoryTypeExpense, wantErr: ErrInvalidCategory},
		{name: "short color", catName: "Food", color: "#FFF", categoryType: model.CategoryTypeExpense, wantErr: ErrInvalidColor},
		{name: "named color", catName: "Food", color: "red", categoryType: model.CategoryTypeExpense, wantErr: ErrInvalidColor},
		{name: "unknown type", catName: "Food", color: "#FF0000", categoryType: "transfer", wantErr: ErrInvalidType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateCategory(tt.catName, tt.color, tt.categoryType)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestValidateTransactionInput(t *testing.T) {
	tests := []struct {
		wantErr error
		name    string
		input   model.TransactionInput
	}{
		{
			name:  "valid expense",
			input: model.TransactionInput{Type: model.TransactionTypeExpense, Amount: decimal.RequireFromString("12.50")},
		},
		{
			name:    "zero amount",
			input:   model.TransactionInput{Type: model.TransactionTypeExpense, Amount: decimal.Zero},
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "negative amount",
			input:   model.TransactionInput{Type: model.TransactionTypeIncome, Amount: decimal.NewFromInt(-5)},
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "missing type",
			input:   model.TransactionInput{Amount: decimal.NewFromInt(5)},
			wantErr: ErrInvalidType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTransactionInput(tt.input)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestValidateDateRange(t *testing.T) {
	jan := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	assert.NoError(t, validateDateRange(nil, nil))
	assert.NoError(t, validateDateRange(&jan, nil))
	assert.NoError(t, validateDateRange(&jan, &jan))
	assert.NoError(t, validateDateRange(&jan, &feb))
	assert.ErrorIs(t, validateDateRange(&feb, &jan), ErrInvalidDateRange)
}
