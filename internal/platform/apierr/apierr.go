// Package apierr carries transport-level request errors that never reach a service.
package apierr

import (
	"net/http"
	"strconv"
)

// Error is a request rejected before any domain operation ran, such as a malformed id or body.
type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e == nil:
		return ""
	case e.Err != nil:
		return e.Err.Error()
	case e.Code != "":
		return e.Code
	default:
		return "request rejected (" + strconv.Itoa(e.Status) + ")"
	}
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// BadRequest is the error for undecodable bodies and unparsable path ids.
func BadRequest(err error) *Error {
	return New(http.StatusBadRequest, "invalid_request", err)
}
