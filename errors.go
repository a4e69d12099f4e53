package configs

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Sentinel errors for errors.Is checks. Every typed error below matches exactly one of them.
var (
	ErrMissingField        = errors.New("missing required field")
	ErrTypeMismatch        = errors.New("type mismatch")
	ErrUnsupportedType     = errors.New("unsupported type")
	ErrConversion          = errors.New("conversion failed")
	ErrStructuralViolation = errors.New("structural violation")
	ErrInternal            = errors.New("internal conversion failure")
	ErrMaxDepth            = errors.New("maximum nesting depth exceeded")
)

// MissingFieldError reports a required field absent from the input mapping.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: '%s'", e.Field)
}

func (e *MissingFieldError) Is(target error) bool { return target == ErrMissingField }

// TypeMismatchError reports an input whose runtime shape does not match the structural expectation.
type TypeMismatchError struct {
	Expected string
	Got      string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("expected %s, got %s", e.Expected, e.Got)
}

func (e *TypeMismatchError) Is(target error) bool { return target == ErrTypeMismatch }

// UnsupportedTypeError reports a Go type that cannot be resolved into a shape.
type UnsupportedTypeError struct {
	Type   reflect.Type
	Reason string
}

func (e *UnsupportedTypeError) Error() string {
	name := "<nil>"
	if e.Type != nil {
		name = e.Type.String()
	}
	if e.Reason != "" {
		return fmt.Sprintf("unsupported type %s: %s", name, e.Reason)
	}
	return "unsupported type " + name
}

func (e *UnsupportedTypeError) Is(target error) bool { return target == ErrUnsupportedType }

// ConversionError reports a leaf value that could not be coerced into its target type.
type ConversionError struct {
	From    string
	To      string
	Kind    reflect.Kind // kind of the target type, when known
	Value   any
	Allowed []any
	Cause   error
}

func (e *ConversionError) Error() string {
	switch {
	case e.Allowed != nil:
		vals := make([]string, len(e.Allowed))
		for i, v := range e.Allowed {
			vals[i] = fmt.Sprintf("%v", v)
		}
		return fmt.Sprintf("value '%v' is not in allowed values [%s] for %s", e.Value, strings.Join(vals, ", "), e.To)
	case e.From == "string" && (e.Kind == reflect.Bool || e.To == "bool"):
		return fmt.Sprintf("cannot convert string '%v' to %s", e.Value, e.To)
	default:
		return fmt.Sprintf("cannot convert %s to %s", e.From, e.To)
	}
}

func (e *ConversionError) Unwrap() error { return e.Cause }

func (e *ConversionError) Is(target error) bool { return target == ErrConversion }

// StructuralViolationError reports a documented record type that declares a disallowed method.
type StructuralViolationError struct {
	Type   string
	Method string
}

func (e *StructuralViolationError) Error() string {
	return fmt.Sprintf("methods are not allowed on documented config type %s except %s, found %s", e.Type, postInitMethod, e.Method)
}

func (e *StructuralViolationError) Is(target error) bool { return target == ErrStructuralViolation }

// InternalError wraps any failure that is not part of the conversion taxonomy.
type InternalError struct {
	Err error
}

func (e *InternalError) Error() string { return "internal conversion failure: " + e.Err.Error() }

func (e *InternalError) Unwrap() error { return e.Err }

func (e *InternalError) Is(target error) bool { return target == ErrInternal }

// FieldError annotates an error with the record field it crossed.
// Nested records produce nested FieldErrors, so the message reads as a path.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	var ute *UnsupportedTypeError
	switch {
	case errors.Is(e.Err, ErrTypeMismatch), errors.Is(e.Err, ErrConversion):
		return fmt.Sprintf("field '%s' has a type error: %v", e.Field, e.Err)
	case errors.As(e.Err, &ute) && !isFieldError(e.Err):
		return fmt.Sprintf("field '%s' has an unsupported type: %v", e.Field, ute.Type)
	default:
		return fmt.Sprintf("failed to convert field '%s': %v", e.Field, e.Err)
	}
}

func (e *FieldError) Unwrap() error { return e.Err }

// Path returns the dotted field path from this field down to the innermost failing field.
func (e *FieldError) Path() string {
	parts := []string{e.Field}
	var inner *FieldError
	err := e.Err
	for errors.As(err, &inner) {
		parts = append(parts, inner.Field)
		err = inner.Err
	}
	return strings.Join(parts, ".")
}

func isFieldError(err error) bool {
	var fe *FieldError
	return errors.As(err, &fe)
}

func wrapField(name string, err error) error {
	if err == nil {
		return nil
	}
	return &FieldError{Field: name, Err: err}
}
