// Package errors defines the typed error taxonomy shared by all services.
// Service code returns these tagged values; the HTTP boundary maps each tag
// to a fixed status code and a user-safe message.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for each failure class.
var (
	ErrValidation    = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrPaymentFailed = errors.New("payment failed")
	ErrStorage       = errors.New("storage failure")
)

// ValidationError reports malformed or missing caller input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a validation error for a field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFoundError reports an id that does not resolve to a resource.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NewNotFoundError creates a not-found error for a resource.
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ConflictError reports a precondition violated by the current state, such as
// a duplicate email, a double cancel, or a double pay.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string { return e.Reason }
func (e *ConflictError) Unwrap() error { return ErrConflict }

// NewConflictError creates a conflict error.
func NewConflictError(reason string) *ConflictError {
	return &ConflictError{Reason: reason}
}

// UnauthorizedError reports a missing, malformed, or expired credential.
type UnauthorizedError struct {
	Reason string
}

func (e *UnauthorizedError) Error() string { return e.Reason }
func (e *UnauthorizedError) Unwrap() error { return ErrUnauthorized }

// NewUnauthorizedError creates an unauthorized error.
func NewUnauthorizedError(reason string) *UnauthorizedError {
	return &UnauthorizedError{Reason: reason}
}

// ForbiddenError reports a valid credential acting on a resource it does not
// own.
type ForbiddenError struct {
	Reason string
}

func (e *ForbiddenError) Error() string { return e.Reason }
func (e *ForbiddenError) Unwrap() error { return ErrForbidden }

// NewForbiddenError creates a forbidden error.
func NewForbiddenError(reason string) *ForbiddenError {
	return &ForbiddenError{Reason: reason}
}

// PaymentError reports a rejection or failure from the external payment rail.
// Detail carries a sanitized summary safe to show callers; the raw rail error
// stays in Err for logging only.
type PaymentError struct {
	Detail string
	Err    error
}

func (e *PaymentError) Error() string {
	if e.Detail == "" {
		return "payment failed"
	}
	return fmt.Sprintf("payment failed: %s", e.Detail)
}

func (e *PaymentError) Unwrap() error { return ErrPaymentFailed }

// NewPaymentError creates a payment error with a caller-safe detail.
func NewPaymentError(detail string, err error) *PaymentError {
	return &PaymentError{Detail: detail, Err: err}
}

// StorageError reports a document read/write failure. The wrapped error may
// contain filesystem paths and must never reach callers verbatim.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("storage %s: %v", e.Op, e.Err) }
func (e *StorageError) Unwrap() error { return ErrStorage }

// NewStorageError wraps a low-level storage failure.
func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsUnauthorized reports whether err is an unauthorized error.
func IsUnauthorized(err error) bool { return errors.Is(err, ErrUnauthorized) }

// IsForbidden reports whether err is a forbidden error.
func IsForbidden(err error) bool { return errors.Is(err, ErrForbidden) }

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsConflict reports whether err is a conflict error.
func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }

// IsPaymentFailed reports whether err is a payment rail failure.
func IsPaymentFailed(err error) bool { return errors.Is(err, ErrPaymentFailed) }

// IsStorage reports whether err is a storage failure.
func IsStorage(err error) bool { return errors.Is(err, ErrStorage) }
