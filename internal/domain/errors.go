package domain

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrValidation          = errors.New("validation failed")
	ErrForbidden           = errors.New("forbidden")
	ErrStoreUnavailable    = errors.New("store unavailable")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrPartialBatchFailure = errors.New("partial batch failure")
)

// ErrStaleWrite is returned by repositories when a versioned save lost the race
// against another writer.
var ErrStaleWrite = NewError(ErrConflict, "stale write")

// Error is a specific failure that belongs to one of the category sentinels above.
// errors.Is matches both the Error value itself and its category.
type Error struct {
	Kind    error
	Message string
}

func NewError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Kind
}
