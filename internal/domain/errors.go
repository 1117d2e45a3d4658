package domain

import (
	"errors"
	"fmt"
)

// Sentinels matched by the typed errors below via errors.Is
var (
	ErrValidation = errors.New("validation failed")
	ErrConstraint = errors.New("constraint violated")
	ErrNotFound   = errors.New("not found")
)

// ValidationError reports a uniqueness violation, an out-of-range
// enumerated value, a malformed address or a dangling reference.
type ValidationError struct {
	Entity string
	Field  string
	Reason string
	Err    error // underlying cause, e.g. a NotFoundError for a missing reference
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s.%s: %s", e.Entity, e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func (e *ValidationError) Unwrap() error { return e.Err }

// ConstraintError reports a numeric range or required-field violation.
type ConstraintError struct {
	Entity string
	Field  string
	Reason string
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("constraint on %s.%s: %s", e.Entity, e.Field, e.Reason)
}

func (e *ConstraintError) Is(target error) bool { return target == ErrConstraint }

// NotFoundError reports an operation on an id that does not exist.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// DanglingReference builds the error returned when a write names a
// related entity that does not exist.
func DanglingReference(entity, field, target, id string) error {
	return &ValidationError{
		Entity: entity,
		Field:  field,
		Reason: fmt.Sprintf("references missing %s %s", target, id),
		Err:    &NotFoundError{Entity: target, ID: id},
	}
}

// Duplicate builds the error returned when a unique field collides.
func Duplicate(entity, field string, value any) error {
	return &ValidationError{
		Entity: entity,
		Field:  field,
		Reason: fmt.Sprintf("%v already exists", value),
	}
}
