// Package apperr carries the typed domain errors shared by services and
// handlers. Validation and state errors are surfaced to the caller verbatim;
// store errors are wrapped so the underlying message stays available for
// diagnostics; notification errors are logged and swallowed by the notify
// workers and never reach a caller.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches on code so sentinels compare against wrapped copies.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

var (
	ErrValidation   = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrNotFound     = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrInvalidState = New("INVALID_STATE", http.StatusConflict, "operation not allowed in current status")
	ErrConflict     = New("CONFLICT", http.StatusConflict, "resource already exists")
	ErrStore        = New("STORE_ERROR", http.StatusInternalServerError, "persistence failure")
	ErrNotification = New("NOTIFICATION_ERROR", http.StatusInternalServerError, "notification delivery failure")
	ErrUnauthorized = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrForbidden    = New("FORBIDDEN", http.StatusForbidden, "forbidden")
)

// Validation returns a caller-fixable input error with a specific message.
func Validation(message string) *Error {
	return New(ErrValidation.Code, ErrValidation.Status, message)
}

// NotFound names the missing resource.
func NotFound(what string) *Error {
	return New(ErrNotFound.Code, ErrNotFound.Status, what+" not found")
}

// InvalidState reports an operation illegal for the entity's current status.
func InvalidState(message string) *Error {
	return New(ErrInvalidState.Code, ErrInvalidState.Status, message)
}

// Conflict reports a duplicate resource.
func Conflict(message string) *Error {
	return New(ErrConflict.Code, ErrConflict.Status, message)
}

// Store wraps an underlying persistence failure, keeping its message.
func Store(err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{Code: ErrStore.Code, Status: ErrStore.Status, Message: ErrStore.Message, Err: err}
}

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Store(err)
}
