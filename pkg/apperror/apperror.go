// Package apperror defines the error taxonomy shared by services and handlers.
//
// Every error produced here is synchronous and caller-visible; handlers map
// them to HTTP status codes through Status.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel kinds, matched with errors.Is.
var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Error carries a human readable reason and the kind it belongs to.
type Error struct {
	kind   error
	parent error
	msg    string
}

func (e *Error) Error() string { return e.msg }

// Is reports whether target is the error's kind or its parent kind.
// InsufficientStock errors are also validation errors.
func (e *Error) Is(target error) bool {
	return target == e.kind || (e.parent != nil && target == e.parent)
}

// Validation reports malformed or missing input.
func Validation(format string, args ...interface{}) error {
	return &Error{kind: ErrValidation, msg: fmt.Sprintf(format, args...)}
}

// NotFound reports a referenced entity that does not exist.
func NotFound(format string, args ...interface{}) error {
	return &Error{kind: ErrNotFound, msg: fmt.Sprintf(format, args...)}
}

// Conflict reports duplicates and blocked deletions.
func Conflict(format string, args ...interface{}) error {
	return &Error{kind: ErrConflict, msg: fmt.Sprintf(format, args...)}
}

// InsufficientStock reports a ledger mutation that would drive quantity below zero.
func InsufficientStock(format string, args ...interface{}) error {
	return &Error{kind: ErrInsufficientStock, parent: ErrValidation, msg: fmt.Sprintf(format, args...)}
}

// IsDomain reports whether err belongs to the taxonomy (as opposed to an
// unexpected storage failure).
func IsDomain(err error) bool {
	var e *Error
	return errors.As(err, &e)
}

// Status maps err to the HTTP status code used in responses.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrValidation), errors.Is(err, ErrConflict):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
