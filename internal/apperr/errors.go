// Package apperr defines the error taxonomy shared by all usecases.
// Handlers map each kind onto an HTTP status; everything that does not
// wrap one of the sentinels is treated as an internal error.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

type taggedError struct {
	kind error
	msg  string
}

func (e *taggedError) Error() string { return e.msg }

func (e *taggedError) Unwrap() error { return e.kind }

func NewValidationError(format string, args ...any) error {
	return &taggedError{kind: ErrInvalidInput, msg: fmt.Sprintf(format, args...)}
}

func NewNotFoundError(format string, args ...any) error {
	return &taggedError{kind: ErrNotFound, msg: fmt.Sprintf(format, args...)}
}

func NewConflictError(format string, args ...any) error {
	return &taggedError{kind: ErrConflict, msg: fmt.Sprintf(format, args...)}
}

func NewUnauthorizedError(format string, args ...any) error {
	return &taggedError{kind: ErrUnauthorized, msg: fmt.Sprintf(format, args...)}
}

func NewForbiddenError(format string, args ...any) error {
	return &taggedError{kind: ErrForbidden, msg: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool   { return errors.Is(err, ErrInvalidInput) }
func IsNotFound(err error) bool     { return errors.Is(err, ErrNotFound) }
func IsConflict(err error) bool     { return errors.Is(err, ErrConflict) }
func IsUnauthorized(err error) bool { return errors.Is(err, ErrUnauthorized) }
func IsForbidden(err error) bool    { return errors.Is(err, ErrForbidden) }

// InsufficientStockError reports a stock shortfall with enough detail for
// the caller to display available vs requested quantities.
type InsufficientStockError struct {
	ProductName string
	Size        string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product: %s, size: %s", e.ProductName, e.Size)
}

func (e *InsufficientStockError) Unwrap() error { return ErrConflict }
