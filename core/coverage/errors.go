package coverage

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorCode classifies engine failures for the callers.
type ErrorCode string

const (
	InvalidRange         ErrorCode = "InvalidRange"
	RangeTooLarge        ErrorCode = "RangeTooLarge"
	MissingConfiguration ErrorCode = "MissingConfiguration"
	CollaboratorFailure  ErrorCode = "CollaboratorFailure"
)

// ErrTemplateNotFound is returned by a Repository when a report template does not exist.
var ErrTemplateNotFound = errors.New("report template not found")

type Error struct {
	Code    ErrorCode
	Message string
	Err     error // underlying collaborator error, if any
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func newError(code ErrorCode, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func collaboratorFailure(err error, what string) *Error {
	return &Error{Code: CollaboratorFailure, Message: what, Err: err}
}

// CodeOf returns the ErrorCode carried by err, or "" if err is not an *Error.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
