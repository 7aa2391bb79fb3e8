package shared

import (
	"errors"
	"fmt"
)

// ErrorKind is the stable classification every domain error maps to
type ErrorKind string

const (
	KindInvalidArgument ErrorKind = "INVALID_ARGUMENT"
	KindNotFound        ErrorKind = "NOT_FOUND"
	KindConflict        ErrorKind = "CONFLICT"
	KindIntegrityFault  ErrorKind = "INTEGRITY_FAULT"
	KindUnavailable     ErrorKind = "UNAVAILABLE"
	KindInternal        ErrorKind = "INTERNAL"
)

// KindedError is implemented by all typed domain errors
type KindedError interface {
	error
	Kind() ErrorKind
}

// KindOf walks the error chain and returns the first kind it finds.
// Unclassified errors are internal.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var kinded KindedError
	if errors.As(err, &kinded) {
		return kinded.Kind()
	}
	return KindInternal
}

// ErrInvalidArgument indicates a missing or malformed input field
type ErrInvalidArgument struct {
	Field  string
	Reason string
}

func (e ErrInvalidArgument) Error() string {
	if e.Field == "" {
		return "invalid argument: " + e.Reason
	}
	return fmt.Sprintf("invalid argument %s: %s", e.Field, e.Reason)
}

func (e ErrInvalidArgument) Kind() ErrorKind { return KindInvalidArgument }

// Is matches any ErrInvalidArgument when the target has no field set
func (e ErrInvalidArgument) Is(target error) bool {
	t, ok := target.(ErrInvalidArgument)
	if !ok {
		return false
	}
	if t.Field == "" {
		return true
	}
	return e.Field == t.Field
}

// InvalidArgument is shorthand for building an ErrInvalidArgument
func InvalidArgument(field, reason string) error {
	return ErrInvalidArgument{Field: field, Reason: reason}
}

// ErrStoreUnavailable wraps connectivity failures of an underlying store
type ErrStoreUnavailable struct {
	Store string
	Err   error
}

func (e ErrStoreUnavailable) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Store, e.Err)
}

func (e ErrStoreUnavailable) Unwrap() error { return e.Err }

func (e ErrStoreUnavailable) Kind() ErrorKind { return KindUnavailable }
