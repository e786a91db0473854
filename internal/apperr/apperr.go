// Package apperr defines the typed error that services return and the HTTP
// layer renders into the failure envelope.
package apperr

import (
	"errors"
	"net/http"
)

type Error struct {
	Status  int
	Message string
	// Fields holds per-field validation messages, if any.
	Fields []FieldError
	Err    error
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error with the same status and message, so sentinel
// errors keep matching after Wrap.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Status == t.Status && e.Message == t.Message
}

// Wrap returns a copy of e carrying cause for logging.
func (e *Error) Wrap(cause error) *Error {
	cp := *e
	cp.Err = cause
	return &cp
}

func BadRequest(message string) *Error   { return New(http.StatusBadRequest, message) }
func Unauthorized(message string) *Error { return New(http.StatusUnauthorized, message) }
func Forbidden(message string) *Error    { return New(http.StatusForbidden, message) }
func NotFound(message string) *Error     { return New(http.StatusNotFound, message) }
func Conflict(message string) *Error     { return New(http.StatusConflict, message) }

func TooManyRequests(message string) *Error {
	return New(http.StatusTooManyRequests, message)
}

func Internal(cause error) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: "Internal server error", Err: cause}
}

// Validation builds a 400 carrying field-level messages.
func Validation(message string, fields []FieldError) *Error {
	return &Error{Status: http.StatusBadRequest, Message: message, Fields: fields}
}

// From extracts an *Error from err, converting anything else to Internal.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Internal(err)
}

// StatusOf returns the HTTP status associated with err.
func StatusOf(err error) int {
	if err == nil {
		return http.StatusOK
	}
	return From(err).Status
}
