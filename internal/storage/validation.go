// Package storage provides the data persistence layer for the finance tracker.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/finance-control/internal/model"
)

// ErrValidation is the parent of every input validation error.
var ErrValidation = errors.New("validation failed")

// Validation errors.
var (
	ErrNilContext       = fmt.Errorf("%w: context cannot be nil", ErrValidation)
	ErrEmptyString      = fmt.Errorf("%w: string parameter cannot be empty", ErrValidation)
	ErrInvalidAmount    = fmt.Errorf("%w: amount must be a positive number", ErrValidation)
	ErrInvalidType      = fmt.Errorf("%w: type must be 'income' or 'expense'", ErrValidation)
	ErrInvalidDate      = fmt.Errorf("%w: date must use the YYYY-MM-DD format", ErrValidation)
	ErrInvalidDateRange = fmt.Errorf("%w: start date must not be after end date", ErrValidation)
	ErrInvalidCategory  = fmt.Errorf("%w: invalid category", ErrValidation)
	ErrInvalidColor     = fmt.Errorf("%w: color must be a #RRGGBB hex value", ErrValidation)
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateCategory(name, color string, categoryType model.CategoryType) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidCategory)
	}
	if !model.IsValidColor(color) {
		return fmt.Errorf("%w: %q", ErrInvalidColor, color)
	}
	if !categoryType.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, categoryType)
	}
	return nil
}

// validateTransactionInput checks the fields shared by add and update.
func validateTransactionInput(input model.TransactionInput) error {
	if !input.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, input.Type)
	}
	if !input.Amount.IsPositive() {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, input.Amount.String())
	}
	return nil
}

// validateDateRange rejects a range whose end precedes its start.
func validateDateRange(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return fmt.Errorf("%w: %s > %s", ErrInvalidDateRange,
			start.Format(model.DateLayout), end.Format(model.DateLayout))
	}
	return nil
}
