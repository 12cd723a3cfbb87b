package serial

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingField indicates an expected named entry was absent. It is
	// the only kind the dispatch layer treats as locally recoverable (see
	// DeserializeKeyOr).
	ErrMissingField = errors.New("serial: missing field")

	// ErrUnexpectedEOF indicates the input ended while more data was
	// expected. Sequence containers treat it as their termination signal.
	ErrUnexpectedEOF = errors.New("serial: unexpected end of input")

	// ErrInvalidType indicates a value was present but had the wrong shape
	// for the requested read.
	ErrInvalidType = errors.New("serial: invalid type")

	// ErrNoMatch indicates a value was present but matched none of the
	// accepted literal forms.
	ErrNoMatch = errors.New("serial: no match")

	// ErrInvalidFormat indicates malformed textual syntax.
	ErrInvalidFormat = errors.New("serial: invalid format")

	// ErrInvalidUTF8 indicates bytes that are not valid UTF-8 where text
	// was expected.
	ErrInvalidUTF8 = errors.New("serial: invalid utf-8 sequence")
)

// TypeError reports a shape mismatch between the requested read and the
// value actually present.
type TypeError struct {
	Expected string
	Actual   string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%v: expected %s, got %s", ErrInvalidType, e.Expected, e.Actual)
}

func (e *TypeError) Unwrap() error { return ErrInvalidType }

// NoMatchError reports a value that matched none of the accepted forms.
// Actual holds the offending input.
type NoMatchError struct {
	Actual string
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("%v: %q", ErrNoMatch, e.Actual)
}

func (e *NoMatchError) Unwrap() error { return ErrNoMatch }

// FormatError reports malformed textual syntax with a human-readable
// reason.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%v: %s", ErrInvalidFormat, e.Reason)
}

func (e *FormatError) Unwrap() error { return ErrInvalidFormat }

// FieldError annotates an error with the name of the field it occurred
// on. Layers accumulate as the error propagates outward, so the full
// chain reads outermost field first.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// NestedError wraps the complete error of a composite field's own decode,
// so the outer caller can attach its field name without the child's
// MissingField leaking into the outer kind. It has no Unwrap method; Is
// identifies every inner kind except MissingField, which is what makes
// DeserializeKeyOr default only when the key itself is missing and never
// when a field inside the key's value is.
type NestedError struct {
	Err error
}

func (e *NestedError) Error() string {
	return fmt.Sprintf("nested: %v", e.Err)
}

// Is shields MissingField at the boundary and passes every other kind
// through, so a present-but-malformed value stays identifiable.
func (e *NestedError) Is(target error) bool {
	return target != ErrMissingField && errors.Is(e.Err, target)
}

// Nest wraps err as the child of an enclosing field decode. A nil err
// stays nil.
func Nest(err error) error {
	if err == nil {
		return nil
	}
	return &NestedError{Err: err}
}

// InField annotates err with a field name. A nil err stays nil.
func InField(field string, err error) error {
	if err == nil {
		return nil
	}
	return &FieldError{Field: field, Err: err}
}

// IsMissingField reports whether err directly denotes an absent field, as
// opposed to a failure (even a missing field) inside a present field's
// value.
func IsMissingField(err error) bool { return errors.Is(err, ErrMissingField) }

// IsUnexpectedEOF reports whether err directly denotes exhausted input.
func IsUnexpectedEOF(err error) bool { return errors.Is(err, ErrUnexpectedEOF) }

// FieldPath returns the chain of field names attached to err, outermost
// first, descending through nested decode failures.
func FieldPath(err error) []string {
	var path []string
	for err != nil {
		switch e := err.(type) {
		case *FieldError:
			path = append(path, e.Field)
			err = e.Err
		case *NestedError:
			err = e.Err
		default:
			err = errors.Unwrap(err)
		}
	}
	return path
}

// PathString renders FieldPath dotted, for diagnostics.
func PathString(err error) string {
	return strings.Join(FieldPath(err), ".")
}
