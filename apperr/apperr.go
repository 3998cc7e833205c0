// Package apperr is the error taxonomy shared by the engines and the HTTP
// layer. Every failure an operation reports is one of these kinds.
package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"
)

// Kind classifies an application error
type Kind string

const (
	KindUnauthenticated Kind = "UNAUTHENTICATED"
	KindForbidden       Kind = "FORBIDDEN"
	KindNotFound        Kind = "NOT_FOUND"
	KindInvalidRequest  Kind = "INVALID_REQUEST"
	KindInternal        Kind = "INTERNAL"
)

// Error represents an application error
type Error struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Unauthenticated(message string) *Error {
	return New(KindUnauthenticated, message, nil)
}

func Forbidden(message string) *Error {
	return New(KindForbidden, message, nil)
}

func NotFound(message string) *Error {
	return New(KindNotFound, message, nil)
}

func InvalidRequest(message string) *Error {
	return New(KindInvalidRequest, message, nil)
}

func Internal(message string, err error) *Error {
	return New(KindInternal, message, err)
}

// FromStore translates a storage error. A missing row becomes NOT_FOUND
// with the given message, anything else is INTERNAL.
func FromStore(err error, notFound string) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound(notFound)
	}
	return Internal("database error", err)
}

// KindOf returns the kind of err, INTERNAL for foreign errors
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Status maps err to the HTTP status surfaced to clients
func Status(err error) int {
	switch KindOf(err) {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-facing message. Internal details are hidden.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Kind != KindInternal {
		return appErr.Message
	}
	return "Internal server error"
}
