package aggregates

import (
	"errors"
	"strings"
)

// ErrorCode is the failure vocabulary shared by aggregates, services and the HTTP layer.
type ErrorCode string

// Storage-level outcomes.
const (
	CodeValidation         ErrorCode = "validation"
	CodeNotFound           ErrorCode = "not_found"
	CodeConflict           ErrorCode = "conflict"
	CodeInvariantViolation ErrorCode = "invariant_violation"
	CodePreconditionFailed ErrorCode = "precondition_failed"
	CodeRetryable          ErrorCode = "retryable"
	CodeInternal           ErrorCode = "internal"
)

// Learning outcomes surfaced to callers by name.
const (
	CodeUnauthorized        ErrorCode = "unauthorized"
	CodeForbidden           ErrorCode = "forbidden"
	CodeNotEnrolled         ErrorCode = "not_enrolled"
	CodeCourseNotAvailable  ErrorCode = "course_not_available"
	CodeAlreadyEnrolled     ErrorCode = "already_enrolled"
	CodeMalformedSubmission ErrorCode = "malformed_submission"
)

// opaque reports whether the code's message must not reach the caller.
func (c ErrorCode) opaque() bool {
	return c == CodeInternal || c == CodeRetryable || c == ""
}

// Error carries a code, the operation that failed (e.g. "Learning.Enrollment.Enroll") and a
// caller-safe message.
type Error struct {
	Code    ErrorCode
	Op      string
	Message string
	Cause   error
}

// Error renders "op: message (code)", dropping whichever of op and message is empty.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	parts := make([]string, 0, 2)
	if op := strings.TrimSpace(e.Op); op != "" {
		parts = append(parts, op)
	}
	if msg := strings.TrimSpace(e.Message); msg != "" {
		parts = append(parts, msg)
	}
	if len(parts) == 0 {
		return string(e.Code)
	}
	return strings.Join(parts, ": ") + " (" + string(e.Code) + ")"
}

func (e *Error) Unwrap() error { return e.Cause }

func NewError(code ErrorCode, op, message string, cause error) error {
	return &Error{Code: code, Op: strings.TrimSpace(op), Message: strings.TrimSpace(message), Cause: cause}
}

// Wrap attaches code and op to err, reusing its text as the message. Wrap(nil) is nil.
func Wrap(code ErrorCode, op string, err error) error {
	if err == nil {
		return nil
	}
	return NewError(code, op, err.Error(), err)
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

func IsCode(err error, code ErrorCode) bool {
	return code != "" && CodeOf(err) == code
}

// PublicMessage is the text a caller may see. Internal and transient failures get a fixed
// message so storage details never leak.
func PublicMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return "internal error"
	}
	switch {
	case e.Code == CodeRetryable:
		return "temporarily unavailable, retry later"
	case e.Code.opaque():
		return "internal error"
	case strings.TrimSpace(e.Message) != "":
		return strings.TrimSpace(e.Message)
	default:
		return string(e.Code)
	}
}
