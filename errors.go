package sqlweave

import (
	"errors"
	"fmt"
	"strings"
)

// Standard sentinel errors for the rendering and conversion engine.
var (
	// ErrMissingConverter is returned when no converter exists for a
	// (source, destination) type pair, even after the hierarchy search.
	ErrMissingConverter = errors.New("sqlweave: missing converter")

	// ErrPrecisionLoss is returned when a narrowing conversion cannot
	// round-trip the source value exactly.
	ErrPrecisionLoss = errors.New("sqlweave: precision loss")

	// ErrInvalidEntityCondition is returned when an entity condition is built
	// for an entity type without key columns.
	ErrInvalidEntityCondition = errors.New("sqlweave: invalid entity condition")

	// ErrUnsupportedFeature is returned when a dialect cannot express a
	// requested clause combination.
	ErrUnsupportedFeature = errors.New("sqlweave: unsupported operation")

	// ErrIllegalState is returned when a builder method is called in a state
	// that does not allow it.
	ErrIllegalState = errors.New("sqlweave: illegal state")

	// ErrInvalidBuilder is returned (or panicked with) when a builder receives
	// malformed input such as nil children.
	ErrInvalidBuilder = errors.New("sqlweave: invalid builder input")
)

// ConversionError is returned when a value cannot be converted because no
// converter is registered for its type pair.
type ConversionError struct {
	Source string // Source type name
	Dest   string // Destination type name
	Value  any    // Offending value
}

// Error returns the error string.
func (e *ConversionError) Error() string {
	return fmt.Sprintf("sqlweave: no converter from %s to %s (value=%v)", e.Source, e.Dest, e.Value)
}

// Is reports whether the target error matches ConversionError.
// This allows errors.Is(convErr, ErrMissingConverter) to return true.
func (e *ConversionError) Is(err error) bool {
	return err == ErrMissingConverter
}

// NewConversionError returns a new ConversionError for the given type pair.
func NewConversionError(source, dest string, value any) *ConversionError {
	return &ConversionError{Source: source, Dest: dest, Value: value}
}

// IsConversionError returns true if the error is a ConversionError.
func IsConversionError(err error) bool {
	if err == nil {
		return false
	}
	var e *ConversionError
	return errors.As(err, &e) || errors.Is(err, ErrMissingConverter)
}

// PrecisionLossError is returned when a narrowing conversion would change
// the converted value.
type PrecisionLossError struct {
	Value     any    // Source value
	Candidate any    // Lossy destination candidate
	Dest      string // Destination type name
}

// Error returns the error string.
func (e *PrecisionLossError) Error() string {
	return fmt.Sprintf("sqlweave: converting %v (%T) to %s loses precision (got %v)", e.Value, e.Value, e.Dest, e.Candidate)
}

// Is reports whether the target error matches PrecisionLossError.
func (e *PrecisionLossError) Is(err error) bool {
	return err == ErrPrecisionLoss
}

// NewPrecisionLossError returns a new PrecisionLossError.
func NewPrecisionLossError(value, candidate any, dest string) *PrecisionLossError {
	return &PrecisionLossError{Value: value, Candidate: candidate, Dest: dest}
}

// IsPrecisionLoss returns true if the error is a PrecisionLossError.
func IsPrecisionLoss(err error) bool {
	if err == nil {
		return false
	}
	var e *PrecisionLossError
	return errors.As(err, &e) || errors.Is(err, ErrPrecisionLoss)
}

// EntityConditionError is returned when a key-based condition is requested
// for an entity that declares no key columns.
type EntityConditionError struct {
	Entity string
}

// Error returns the error string.
func (e *EntityConditionError) Error() string {
	return fmt.Sprintf("sqlweave: entity %s has no key columns", e.Entity)
}

// Is reports whether the target error matches EntityConditionError.
func (e *EntityConditionError) Is(err error) bool {
	return err == ErrInvalidEntityCondition
}

// NewEntityConditionError returns a new EntityConditionError.
func NewEntityConditionError(entity string) *EntityConditionError {
	return &EntityConditionError{Entity: entity}
}

// UnsupportedFeatureError is returned when a dialect cannot render a feature.
type UnsupportedFeatureError struct {
	Dialect string // Dialect name
	Feature string // Feature that was requested
}

// Error returns the error string.
func (e *UnsupportedFeatureError) Error() string {
	return fmt.Sprintf("sqlweave: unsupported operation: %s does not support %s", e.Dialect, e.Feature)
}

// Is reports whether the target error matches UnsupportedFeatureError.
func (e *UnsupportedFeatureError) Is(err error) bool {
	return err == ErrUnsupportedFeature
}

// NewUnsupportedFeatureError returns a new UnsupportedFeatureError.
func NewUnsupportedFeatureError(dialect, feature string) *UnsupportedFeatureError {
	return &UnsupportedFeatureError{Dialect: dialect, Feature: feature}
}

// IsUnsupported returns true if the error is an UnsupportedFeatureError.
func IsUnsupported(err error) bool {
	if err == nil {
		return false
	}
	var e *UnsupportedFeatureError
	return errors.As(err, &e) || errors.Is(err, ErrUnsupportedFeature)
}

// IllegalStateError is returned when a builder operation is not allowed in
// the builder's current state.
type IllegalStateError struct {
	Op      string // Operation that was attempted
	Message string
}

// Error returns the error string.
func (e *IllegalStateError) Error() string {
	return fmt.Sprintf("sqlweave: illegal state for %s: %s", e.Op, e.Message)
}

// Is reports whether the target error matches IllegalStateError.
func (e *IllegalStateError) Is(err error) bool {
	return err == ErrIllegalState
}

// NewIllegalStateError returns a new IllegalStateError.
func NewIllegalStateError(op, message string) *IllegalStateError {
	return &IllegalStateError{Op: op, Message: message}
}

// BuilderError reports malformed input given to a constructor. Constructors
// that cannot return an error panic with a *BuilderError.
type BuilderError struct {
	Op      string
	Message string
}

// Error returns the error string.
func (e *BuilderError) Error() string {
	var b strings.Builder
	b.WriteString("sqlweave: ")
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	return b.String()
}

// Is reports whether the target error matches BuilderError.
func (e *BuilderError) Is(err error) bool {
	return err == ErrInvalidBuilder
}

// NewBuilderError returns a new BuilderError.
func NewBuilderError(op, message string) *BuilderError {
	return &BuilderError{Op: op, Message: message}
}

// ConstraintError represents a database constraint violation reported by a
// driver while executing a rendered statement.
type ConstraintError struct {
	msg  string
	wrap error
}

// Error returns the error string.
func (e ConstraintError) Error() string {
	return fmt.Sprintf("sqlweave: constraint failed: %s", e.msg)
}

// Unwrap returns the underlying error.
func (e ConstraintError) Unwrap() error {
	return e.wrap
}

// NewConstraintError returns a new ConstraintError with the given message.
func NewConstraintError(msg string, wrap error) error {
	return ConstraintError{msg: msg, wrap: wrap}
}

// IsConstraintError returns true if the error is a ConstraintError.
func IsConstraintError(err error) bool {
	if err == nil {
		return false
	}
	var e ConstraintError
	return errors.As(err, &e)
}
