// Package errors carries the scheduler's API error contract: a stable code, a
// client-facing message and the HTTP status the response envelope reports.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is an API error. Code is stable across releases; Message may be
// overridden per call site with Clone.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches errors sharing the same code, so clones compare equal to their sentinel.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// New builds a sentinel.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap keeps err as the cause of an API error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

var (
	// ErrNotFound covers unknown runs, teams, clerkships and preceptors.
	ErrNotFound = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	// ErrForbidden is a role outside the route's allow list.
	ErrForbidden = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	// ErrUnauthorized is a missing, malformed or expired bearer token.
	ErrUnauthorized = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	// ErrConflict is returned when the run queue has no room.
	ErrConflict = New("CONFLICT", http.StatusConflict, "conflict")
	// ErrPreconditionFailed marks features switched off in configuration, such
	// as asynchronous runs or assignment storage.
	ErrPreconditionFailed = New("PRECONDITION_FAILED", http.StatusPreconditionFailed, "precondition failed")
	ErrValidation         = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	// ErrCacheMiss never reaches clients; CacheService turns it into a miss.
	ErrCacheMiss = New("CACHE_MISS", http.StatusNotFound, "cache miss")
	// ErrTeamRejected carries a failed team validation; the response data holds
	// the per-rule errors.
	ErrTeamRejected = New("TEAM_REJECTED", http.StatusUnprocessableEntity, "team failed validation")
)

// HasCode reports whether err is an *Error with the given code.
func HasCode(err error, code string) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// FromError normalises err for the response envelope. Anything that is not an
// *Error becomes ErrInternal, keeping the cause for logs only.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone copies a sentinel with a call-site message. An empty message keeps the
// sentinel's.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
