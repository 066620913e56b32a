// Package querykit provides a fluent, dialect-agnostic SQL query builder.
//
// The query-building core lives in the dialect/sql sub-package; this package
// carries the typed error model shared across the module.
package querykit

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for common misuse.
var (
	// ErrInvalidArgument is returned when a builder method is called with
	// structurally invalid input (bad operator/value pairing, nested arrays
	// in WhereIn, invalid order direction, and so on).
	ErrInvalidArgument = errors.New("querykit: invalid argument")

	// ErrUnsupportedFeature is returned when the active dialect does not
	// implement a requested capability.
	ErrUnsupportedFeature = errors.New("querykit: unsupported feature")

	// ErrMissingClause is returned when an operation demands a clause the
	// query does not carry (for example, a paginated delete without order).
	ErrMissingClause = errors.New("querykit: missing clause")
)

// InvalidArgumentError reports structurally invalid input to a builder
// method. It is always a caller bug: the query must be fixed before the
// call is re-issued.
type InvalidArgumentError struct {
	Op     string // Builder operation, e.g. "Where", "OrderBy".
	Reason string // Human-readable description of the misuse.
}

// Error returns the error string.
func (e *InvalidArgumentError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("querykit: %s: %s", e.Op, e.Reason)
	}
	return fmt.Sprintf("querykit: %s", e.Reason)
}

// Is reports whether the target error matches InvalidArgumentError.
// This allows errors.Is(err, ErrInvalidArgument) to return true.
func (e *InvalidArgumentError) Is(err error) bool {
	return err == ErrInvalidArgument
}

// NewInvalidArgumentError returns a new InvalidArgumentError for the given
// builder operation.
func NewInvalidArgumentError(op, format string, args ...any) *InvalidArgumentError {
	return &InvalidArgumentError{Op: op, Reason: fmt.Sprintf(format, args...)}
}

// IsInvalidArgument returns true if the error is an InvalidArgumentError.
func IsInvalidArgument(err error) bool {
	if err == nil {
		return false
	}
	var e *InvalidArgumentError
	return errors.As(err, &e) || errors.Is(err, ErrInvalidArgument)
}

// UnsupportedFeatureError reports that the active dialect lacks a requested
// capability. The compiler fails fast with this error rather than emitting
// SQL the engine would reject.
type UnsupportedFeatureError struct {
	Dialect string // Dialect name, e.g. "sqlserver".
	Feature string // The capability, e.g. "upsert", "json operations".
}

// Error returns the error string.
func (e *UnsupportedFeatureError) Error() string {
	return fmt.Sprintf("querykit: %s is not supported by the %s dialect", e.Feature, e.Dialect)
}

// Is reports whether the target error matches UnsupportedFeatureError.
func (e *UnsupportedFeatureError) Is(err error) bool {
	return err == ErrUnsupportedFeature
}

// NewUnsupportedFeatureError returns a new UnsupportedFeatureError for the
// given dialect and feature.
func NewUnsupportedFeatureError(dialect, feature string) *UnsupportedFeatureError {
	return &UnsupportedFeatureError{Dialect: dialect, Feature: feature}
}

// IsUnsupportedFeature returns true if the error is an UnsupportedFeatureError.
func IsUnsupportedFeature(err error) bool {
	if err == nil {
		return false
	}
	var e *UnsupportedFeatureError
	return errors.As(err, &e) || errors.Is(err, ErrUnsupportedFeature)
}

// MissingClauseError reports that an operation requires a clause the query
// does not carry.
type MissingClauseError struct {
	Op     string // Operation that demanded the clause.
	Clause string // The missing clause, e.g. "order by".
}

// Error returns the error string.
func (e *MissingClauseError) Error() string {
	return fmt.Sprintf("querykit: %s requires a %s clause", e.Op, e.Clause)
}

// Is reports whether the target error matches MissingClauseError.
func (e *MissingClauseError) Is(err error) bool {
	return err == ErrMissingClause
}

// NewMissingClauseError returns a new MissingClauseError.
func NewMissingClauseError(op, clause string) *MissingClauseError {
	return &MissingClauseError{Op: op, Clause: clause}
}

// IsMissingClause returns true if the error is a MissingClauseError.
func IsMissingClause(err error) bool {
	if err == nil {
		return false
	}
	var e *MissingClauseError
	return errors.As(err, &e) || errors.Is(err, ErrMissingClause)
}
