package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is the root of every entity-specific not found error.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when a unique constraint would be violated.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored, or violates a check or not-null constraint.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrReferenceViolation is returned when a foreign key target is missing.
	ErrReferenceViolation = errors.New("referenced entity does not exist")

	ErrUserNotFound            = fmt.Errorf("%w: user", ErrNotFound)
	ErrCardNotFound            = fmt.Errorf("%w: card", ErrNotFound)
	ErrOriginalContentNotFound = fmt.Errorf("%w: original content", ErrNotFound)

	// ErrEmailExists is returned when registering an email that is in use.
	ErrEmailExists = fmt.Errorf("%w: email", ErrDuplicate)
)

// IsNotFoundError reports whether err is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError reports whether err is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// StoreError adds entity and operation context to a store failure.
type StoreError struct {
	Entity    string // e.g. "card"
	Operation string // e.g. "create"
	Message   string
	Err       error
}

func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation on %s failed: %s: %v", e.Operation, e.Entity, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a StoreError.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
