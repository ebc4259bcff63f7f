// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Load errors.
	ErrDataLoad       = errors.New("failed to load transaction data")
	ErrNoTransactions = errors.New("no transactions")

	// Fit errors.
	ErrConfiguration = errors.New("invalid configuration")
	ErrNotFitted     = errors.New("model not fitted")

	// Query errors.
	ErrUnknownItem    = errors.New("unknown item")
	ErrUnknownLabel   = errors.New("unknown product label")
	ErrNoSimilarItems = errors.New("no similar items")

	// Database errors.
	ErrNotFound = errors.New("not found")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// IsQueryMiss reports whether err is a recoverable query-time lookup failure.
// Such errors are shown to the user as information; the fitted state stays usable.
func IsQueryMiss(err error) bool {
	return errors.Is(err, ErrUnknownItem) ||
		errors.Is(err, ErrUnknownLabel) ||
		errors.Is(err, ErrNoSimilarItems)
}

// UserMessage returns the message to display for err.
func UserMessage(err error) string {
	var userErr *UserError
	if errors.As(err, &userErr) {
		return userErr.UserMessage
	}
	switch {
	case errors.Is(err, ErrUnknownLabel), errors.Is(err, ErrUnknownItem):
		return "Product not found in the catalog."
	case errors.Is(err, ErrNoSimilarItems):
		return "Could not find similar products."
	case errors.Is(err, ErrConfiguration):
		return "Invalid input: " + err.Error()
	default:
		return err.Error()
	}
}
