package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies a failure so the HTTP layer can pick a status without
// inspecting messages.
type Kind string

const (
	KindValidation  Kind = "validation"
	KindNotFound    Kind = "not_found"
	KindAuthFailure Kind = "auth_failure"
	KindConflict    Kind = "conflict"
	KindUpstream    Kind = "upstream_unavailable"
	KindInternal    Kind = "internal"
)

// Error is the error type returned by services.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := strings.TrimSpace(e.Message)
	switch {
	case msg != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", msg, e.Err)
	case msg != "":
		return msg
	case e.Err != nil:
		return e.Err.Error()
	default:
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Validation(message string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// Field builds a validation error for a single field.
func Field(field, message string) *Error {
	return Validation(message, map[string]string{field: message})
}

func NotFound(what string) *Error {
	return &Error{Kind: KindNotFound, Message: what + " not found"}
}

// AuthFailure never says which part of the credentials was wrong.
func AuthFailure() *Error {
	return &Error{Kind: KindAuthFailure, Message: "invalid credentials"}
}

func Unauthenticated() *Error {
	return &Error{Kind: KindAuthFailure, Message: "authentication required"}
}

func Conflict(message string, err error) *Error {
	return &Error{Kind: KindConflict, Message: message, Err: err}
}

func Upstream(message string, err error) *Error {
	return &Error{Kind: KindUpstream, Message: message, Err: err}
}

func Internal(op string, err error) *Error {
	return &Error{Kind: KindInternal, Message: op, Err: err}
}

// KindOf reports the kind carried by err, KindInternal for foreign errors.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// Is reports whether err (or anything it wraps) carries kind.
func Is(err error, kind Kind) bool {
	var ae *Error
	if !errors.As(err, &ae) {
		return false
	}
	return ae.Kind == kind
}

// Status maps a kind to the HTTP status the API answers with.
func Status(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindAuthFailure:
		return http.StatusUnauthorized
	case KindConflict:
		return http.StatusConflict
	case KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
