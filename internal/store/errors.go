package store

import (
	"errors"
	"fmt"
)

// Kind classifies a store failure so the HTTP boundary can map it to a fixed
// status code. All of these are deterministic business-rule failures; none are
// transient, none should be retried.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindConflict
	KindInvalidReference
	KindInvalidState
	KindInsufficientStock
	KindValidation
)

// Error is the failure type returned by all stores.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// KindOf extracts the error kind, or KindUnknown for non-store errors
// (driver failures and the like, which the boundary reports as internal).
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindUnknown
}

func notFoundf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func conflictf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func invalidReferencef(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidReference, Message: fmt.Sprintf(format, args...)}
}

func invalidStatef(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidState, Message: fmt.Sprintf(format, args...)}
}

func insufficientStockf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInsufficientStock, Message: fmt.Sprintf(format, args...)}
}

func validationf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}
