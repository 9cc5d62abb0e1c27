package services

import (
	"errors"
	"fmt"

	"civicreport/repository"
)

// Error kinds. Match with errors.Is.
var (
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrInvalidTransition = fmt.Errorf("invalid status transition: %w", ErrConflict)
	ErrValidation        = errors.New("invalid request")
	ErrUpstream          = errors.New("upstream failure")
)

// Error carries a client-safe message alongside its kind.
type Error struct {
	Kind error
	Msg  string
	Err  error
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func upstream(err error, what string) error {
	return &Error{Kind: ErrUpstream, Msg: what + " failed", Err: err}
}

// storeErr translates a repository error for the named entity.
func storeErr(err error, entity string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return newError(ErrNotFound, "%s not found", entity)
	}
	return fmt.Errorf("%s: %w", entity, err)
}
