// Package apperr carries a small set of error kinds so controllers can map
// failures to HTTP status codes without inspecting message text.
package apperr

import (
	"net/http"

	"github.com/pkg/errors"
)

type Kind int

const (
	Internal Kind = iota
	Invalid
	Unauthorized
	Forbidden
	NotFound
	Conflict
	Unavailable
)

type Error struct {
	kind Kind
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.err }

// Message is the client-facing text, without any wrapped cause.
func (e *Error) Message() string { return e.msg }

func New(kind Kind, msg string) error {
	return &Error{kind: kind, msg: msg}
}

func Wrap(err error, kind Kind, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{kind: kind, msg: msg, err: errors.WithStack(err)}
}

// KindOf digs through wrapping; unrecognized errors are Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return Internal
}

// MessageOf returns the client-facing message of err, or a generic one
// for errors that did not originate here.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.msg
	}
	return "internal server error"
}

func Status(err error) int {
	switch KindOf(err) {
	case Invalid:
		return http.StatusBadRequest
	case Unauthorized:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	case Unavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
