// Package apperror defines the domain-level failure that handlers serialize
// verbatim into error responses.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error carries the message/status/detail triple shown to API clients.
type Error struct {
	Message    string `json:"message"`
	Details    string `json:"details"`
	StatusCode int    `json:"status_code"`
	Err        error  `json:"-"`
}

// New creates an Error without an underlying cause.
func New(message string, statusCode int, details string) *Error {
	return &Error{Message: message, StatusCode: statusCode, Details: details}
}

// Wrap creates an Error whose details are the cause's message.
func Wrap(err error, message string, statusCode int) *Error {
	e := &Error{Message: message, StatusCode: statusCode, Err: err}
	if err != nil {
		e.Details = err.Error()
	}
	return e
}

// BadRequest is a 400 Error.
func BadRequest(message, details string) *Error {
	return New(message, http.StatusBadRequest, details)
}

func (e *Error) Error() string {
	if e.Details == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, e.Details)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
