package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates the resource is not in a state that allows the operation.
var ErrConflict = errors.New("resource state conflict")

// ErrForbidden indicates that the caller may not perform the operation.
var ErrForbidden = errors.New("forbidden")

// ErrInternal indicates an unexpected failure.
var ErrInternal = errors.New("internal error")

// ErrConcurrentUpdate indicates that a storage transaction lost a race (serialization
// failure, deadlock or unique-number collision) and may be retried.
var ErrConcurrentUpdate = errors.New("concurrent update")

// Ledger and statement specific categories.
var (
	ErrAccountResolution      = errors.New("account resolution failed")
	ErrImbalancedEntry        = errors.New("journal entry is not balanced")
	ErrSequenceAllocation     = errors.New("sequence allocation failed")
	ErrParseFailure           = errors.New("statement parse failure")
	ErrStorage                = errors.New("storage failure")
	ErrReconciliationConflict = errors.New("ambiguous reconciliation match")
)

// AppError carries an HTTP-ish status code together with the wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is makes every 5xx AppError match ErrStorage so callers can classify
// repository failures without inspecting codes.
func (e *AppError) Is(target error) bool {
	return target == ErrStorage && e.Code >= 500
}

// NewNotFoundError wraps ErrNotFound with a description of what was missing.
func NewNotFoundError(what string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, what)
}

// NewValidationError wraps ErrValidation with a specific message.
func NewValidationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
