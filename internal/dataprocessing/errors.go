package dataprocessing

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a transform failure.
type ErrorKind string

const (
	// KindSchemaMismatch means a source batch lacks one of the three
	// required long-format columns.
	KindSchemaMismatch ErrorKind = "schema_mismatch"
	// KindMissingIdentifier means the aggregated input lacks the
	// timestamp or parameter column.
	KindMissingIdentifier ErrorKind = "missing_identifier_column"
	// KindColumnCollision means two distinct source parameter names
	// normalize to the same column name, which would silently merge
	// unrelated clinical variables.
	KindColumnCollision ErrorKind = "column_name_collision"
	// KindDuplicateScalar means a declared-scalar parameter carried
	// more than one value at a single timestamp while running strict.
	KindDuplicateScalar ErrorKind = "duplicate_scalar_observation"
)

// Sentinel errors for errors.Is matching on the kind alone.
var (
	ErrSchemaMismatch             = errors.New("schema mismatch")
	ErrMissingIdentifierColumn    = errors.New("missing identifier column")
	ErrColumnNameCollision        = errors.New("column name collision")
	ErrDuplicateScalarObservation = errors.New("duplicate scalar observation")
)

// TransformError is a transform failure with enough context to point
// the operator at the offending source, column, or timestamp. All
// kinds are fatal to the run; none is retryable.
type TransformError struct {
	Kind    ErrorKind
	Source  string
	Column  string
	Message string
}

// Error implements the error interface.
func (e *TransformError) Error() string {
	if e == nil {
		return "unknown transform error"
	}
	switch {
	case e.Source != "" && e.Column != "":
		return fmt.Sprintf("[%s] source %q, column %q: %s", e.Kind, e.Source, e.Column, e.Message)
	case e.Source != "":
		return fmt.Sprintf("[%s] source %q: %s", e.Kind, e.Source, e.Message)
	case e.Column != "":
		return fmt.Sprintf("[%s] column %q: %s", e.Kind, e.Column, e.Message)
	default:
		return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
	}
}

// Is maps each kind onto its sentinel so callers can use errors.Is
// without depending on the struct shape.
func (e *TransformError) Is(target error) bool {
	switch target {
	case ErrSchemaMismatch:
		return e.Kind == KindSchemaMismatch
	case ErrMissingIdentifierColumn:
		return e.Kind == KindMissingIdentifier
	case ErrColumnNameCollision:
		return e.Kind == KindColumnCollision
	case ErrDuplicateScalarObservation:
		return e.Kind == KindDuplicateScalar
	}
	return false
}

// NewSchemaMismatchError reports a batch missing a required column.
func NewSchemaMismatchError(source, column string) *TransformError {
	return &TransformError{
		Kind:    KindSchemaMismatch,
		Source:  source,
		Column:  column,
		Message: "batch does not expose the required long-format column",
	}
}

// NewMissingIdentifierError reports an absent timestamp or parameter column.
func NewMissingIdentifierError(column string) *TransformError {
	return &TransformError{
		Kind:    KindMissingIdentifier,
		Column:  column,
		Message: "identifier column absent from aggregated input",
	}
}

// NewColumnCollisionError reports two raw parameter names normalizing
// to the same column name.
func NewColumnCollisionError(column, firstRaw, secondRaw string) *TransformError {
	return &TransformError{
		Kind:    KindColumnCollision,
		Column:  column,
		Message: fmt.Sprintf("distinct parameter names %q and %q normalize to the same column", firstRaw, secondRaw),
	}
}

// NewDuplicateScalarError reports a second value for a scalar
// parameter at one timestamp.
func NewDuplicateScalarError(column, timestamp, kept, dropped string) *TransformError {
	return &TransformError{
		Kind:    KindDuplicateScalar,
		Column:  column,
		Message: fmt.Sprintf("two values at %s: %q and %q (declare the parameter multi-valued or run lenient)", timestamp, kept, dropped),
	}
}

// KindOf returns the transform error kind, or "" for foreign errors.
func KindOf(err error) ErrorKind {
	var te *TransformError
	if errors.As(err, &te) {
		return te.Kind
	}
	return ""
}
