package envgraft

import (
	"errors"
	"fmt"
	"reflect"
)

// Error codes for load failures.
const (
	ErrCodeUnsupportedShape   = "unsupported_shape"
	ErrCodeCoercion           = "coercion"
	ErrCodeDuplicateKey       = "duplicate_key"
	ErrCodeMalformedContainer = "malformed_container"
)

// Sentinel errors for invalid Load arguments.
var (
	// ErrNilTemplate is returned when Load receives a nil template.
	ErrNilTemplate = errors.New("envgraft: template is nil")

	// ErrEmptyPrefix is returned when Load receives an empty prefix.
	ErrEmptyPrefix = errors.New("envgraft: prefix must not be empty")
)

// UnsupportedShapeError reports a value whose shape the engine cannot
// classify: a non-struct top level, or a field of an unsupported kind.
type UnsupportedShapeError struct {
	FieldPath string // Dot notation (e.g., "Database.Host"); empty for top level
	Type      reflect.Type
}

func (e *UnsupportedShapeError) Error() string {
	if e.FieldPath == "" {
		return fmt.Sprintf("envgraft: unsupported shape %s: top level must be a struct", e.Type)
	}
	return fmt.Sprintf("envgraft: unsupported shape %s at field %s", e.Type, e.FieldPath)
}

// Code returns the machine-readable error code.
func (e *UnsupportedShapeError) Code() string { return ErrCodeUnsupportedShape }

// CoercionError reports an environment value whose text could not be parsed
// as the field's declared kind.
type CoercionError struct {
	FieldPath string // Dot notation, with an element suffix for container entries
	Raw       string // Verbatim environment value (or container element)
	Expected  Kind
	cause     error
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("envgraft: cannot coerce %q into %s field %s: %v", e.Raw, e.Expected, e.FieldPath, e.cause)
}

func (e *CoercionError) Unwrap() error { return e.cause }

// Code returns the machine-readable error code.
func (e *CoercionError) Code() string { return ErrCodeCoercion }

// DuplicateKeyError reports a YAML flow mapping literal that repeats a key.
type DuplicateKeyError struct {
	FieldPath string
	Key       string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("envgraft: duplicate key %q in mapping field %s", e.Key, e.FieldPath)
}

// Code returns the machine-readable error code.
func (e *DuplicateKeyError) Code() string { return ErrCodeDuplicateKey }

// MalformedContainerError reports a sequence or mapping value whose brackets
// are missing, unbalanced, or otherwise unparseable as a YAML flow literal.
type MalformedContainerError struct {
	FieldPath string
	Raw       string
	cause     error
}

func (e *MalformedContainerError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("envgraft: malformed container literal %q for field %s: %v", e.Raw, e.FieldPath, e.cause)
	}
	return fmt.Sprintf("envgraft: malformed container literal %q for field %s", e.Raw, e.FieldPath)
}

func (e *MalformedContainerError) Unwrap() error { return e.cause }

// Code returns the machine-readable error code.
func (e *MalformedContainerError) Code() string { return ErrCodeMalformedContainer }
