package services

import (
	"errors"
	"fmt"
)

// Callers match these with errors.Is; Error() carries only the detail.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)

type domainError struct {
	kind error
	msg  string
}

func (e *domainError) Error() string { return e.msg }
func (e *domainError) Unwrap() error { return e.kind }

func validationf(format string, args ...interface{}) error {
	return &domainError{kind: ErrValidation, msg: fmt.Sprintf(format, args...)}
}

func notFoundf(format string, args ...interface{}) error {
	return &domainError{kind: ErrNotFound, msg: fmt.Sprintf(format, args...)}
}

func conflictf(format string, args ...interface{}) error {
	return &domainError{kind: ErrConflict, msg: fmt.Sprintf(format, args...)}
}
