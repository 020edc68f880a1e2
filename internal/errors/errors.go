// Package errors provides domain-specific error types and sentinel errors
// for improved error handling across the application.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common scenarios.
// Use errors.Is() to check these errors in your code.
var (
	// ErrInvalidInput indicates a caller-supplied value was rejected.
	ErrInvalidInput = errors.New("invalid input")
)

// StoreError represents a user-store read/write failure.
// These are fatal per invocation and are never converted into a user reply.
type StoreError struct {
	Op     string
	UserID string
	Err    error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new store error.
func NewStoreError(op, userID string, err error) *StoreError {
	return &StoreError{Op: op, UserID: userID, Err: err}
}
