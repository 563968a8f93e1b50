package ledger

import (
	"errors"
	"fmt"

	"hotel-pms-backend/internal/store"
)

// ErrNotFound is re-exported so callers don't need to import the store package
// to classify lookup failures.
var ErrNotFound = store.ErrNotFound

// ValidationError marks malformed input: bad dates, non-positive amounts,
// missing required fields. Rejected before any write.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func wrapNotFoundf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

func validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// ConflictError marks a rejected commit: room unavailable for the requested
// range, or a room still referenced by an active booking on delete.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

func conflictf(format string, args ...any) error {
	return &ConflictError{Msg: fmt.Sprintf(format, args...)}
}

// BusinessRuleError marks an operation that is well-formed but forbidden by a
// business rule, such as checking out with an outstanding balance or closing
// a date that is not the current operating date.
type BusinessRuleError struct {
	Msg string
}

func (e *BusinessRuleError) Error() string { return e.Msg }

func businessf(format string, args ...any) error {
	return &BusinessRuleError{Msg: fmt.Sprintf(format, args...)}
}

// NoInventoryError marks a website-booking acceptance that found no free room
// of the requested type.
type NoInventoryError struct {
	Msg string
}

func (e *NoInventoryError) Error() string { return e.Msg }

func noInventoryf(format string, args ...any) error {
	return &NoInventoryError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// IsBusinessRule reports whether err is a BusinessRuleError.
func IsBusinessRule(err error) bool {
	var be *BusinessRuleError
	return errors.As(err, &be)
}

// IsNoInventory reports whether err is a NoInventoryError.
func IsNoInventory(err error) bool {
	var ne *NoInventoryError
	return errors.As(err, &ne)
}
