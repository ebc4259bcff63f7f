// Package storage provides the data persistence layer for shopper-spectrum.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/shopper-spectrum/internal/model"
)

// Validation errors.
var (
	ErrNilContext         = errors.New("context cannot be nil")
	ErrEmptyString        = errors.New("string parameter cannot be empty")
	ErrNilParameter       = errors.New("parameter cannot be nil")
	ErrEmptySlice         = errors.New("slice cannot be empty")
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInvalidSnapshot    = errors.New("invalid snapshot")
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

// validateTransactions validates a slice of transactions.
func validateTransactions(transactions []model.Transaction) error {
	if transactions == nil {
		return fmt.Errorf("%w: transactions", ErrNilParameter)
	}
	if len(transactions) == 0 {
		return fmt.Errorf("%w: transactions", ErrEmptySlice)
	}

	for i := range transactions {
		if err := validateTransaction(&transactions[i]); err != nil {
			return fmt.Errorf("transaction at index %d: %w", i, err)
		}
	}
	return nil
}

// validateTransaction validates a single transaction.
func validateTransaction(txn *model.Transaction) error {
	if txn == nil {
		return fmt.Errorf("%w: transaction", ErrNilParameter)
	}
	if txn.InvoiceNo == "" {
		return fmt.Errorf("%w: missing invoice number", ErrInvalidTransaction)
	}
	if txn.StockCode == "" {
		return fmt.Errorf("%w: missing stock code", ErrInvalidTransaction)
	}
	if txn.CustomerID == "" {
		return fmt.Errorf("%w: missing customer ID", ErrInvalidTransaction)
	}
	if txn.InvoiceDate.IsZero() {
		return fmt.Errorf("%w: missing invoice date", ErrInvalidTransaction)
	}
	if txn.UnitPrice.IsNegative() {
		return fmt.Errorf("%w: negative unit price", ErrInvalidTransaction)
	}
	return nil
}
