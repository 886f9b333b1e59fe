package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure. A Kind is itself an error so callers can match
// with errors.Is(err, errors.ThreadNotFound).
type Kind string

func (k Kind) Error() string {
	return string(k)
}

const (
	Internal           Kind = "internal error"
	InvalidIdentifier  Kind = "invalid identifier"
	InvalidQuery       Kind = "invalid query"
	ThreadNotFound     Kind = "thread not found"
	ResponseNotFound   Kind = "response not found"
	StorageUnavailable Kind = "storage unavailable"
	Validation         Kind = "validation error"
	RateLimited        Kind = "rate limit exceeded"
	Canceled           Kind = "request canceled"
)

// StatusClientClosedRequest is written, if anyone is still listening, when the
// client went away before the answer was ready.
const StatusClientClosedRequest = 499

// Error is the error value every fallible operation returns.
// Message is human readable and safe to show to the visitor, Err is the cause and is not.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// KindOf returns the kind of the first *Error in the chain, Internal otherwise.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// PublicMessage is what the error page shows. Causes of unknown errors stay in the logs.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Message != "" {
			return e.Message
		}
		return string(e.Kind)
	}
	return string(Internal)
}

// StatusCode picks the HTTP status for err. Default is 500.
func StatusCode(err error) int {
	switch KindOf(err) {
	case InvalidIdentifier, InvalidQuery, Validation:
		return http.StatusBadRequest
	case ThreadNotFound, ResponseNotFound:
		return http.StatusNotFound
	case RateLimited:
		return http.StatusTooManyRequests
	case StorageUnavailable:
		return http.StatusServiceUnavailable
	case Canceled:
		return StatusClientClosedRequest
	default:
		return http.StatusInternalServerError
	}
}
