package core

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// FieldError is used to indicate an error with a specific request field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

// Error flattens the field errors into one line, ordered by field name.
func (err ValidationError) Error() string {
	if len(err.Fields) == 0 {
		if err.Err == nil {
			return "invalid request"
		}
		return err.Err.Error()
	}
	flds := append([]FieldError(nil), err.Fields...)
	sort.Slice(flds, func(i, j int) bool { return flds[i].Field < flds[j].Field })
	parts := make([]string, 0, len(flds))
	for _, f := range flds {
		parts = append(parts, f.Field+": "+f.Error)
	}
	return strings.Join(parts, "; ")
}

type shutdown struct {
	message string
}

// NewShutdownError returns an error that makes the API server stop gracefully once handled.
func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
