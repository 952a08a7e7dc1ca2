// Package ferrors defines the error values PNFS's core surfaces. Nothing in
// this package throws or panics across an API boundary; every failure spec'd
// in the core (out-of-resource, not-found, type mismatch, policy rejection)
// is represented as one of the sentinels below, optionally wrapped with extra
// context.
package ferrors

import "fmt"

// PnfsError is a sentinel error condition, modeled after the errno-style
// string constants used elsewhere in this codebase's lineage.
type PnfsError string

func (e PnfsError) Error() string {
	return string(e)
}

// WithMessage attaches additional context to a sentinel, returning a
// DriverError that still compares equal to the sentinel via errors.Is.
func (e PnfsError) WithMessage(message string) DriverError {
	return customError{
		message: fmt.Sprintf("%s: %s", string(e), message),
		wrapped: e,
	}
}

// WrapError attaches an underlying error to a sentinel.
func (e PnfsError) WrapError(err error) DriverError {
	return customError{
		message: fmt.Sprintf("%s: %s", string(e), err.Error()),
		wrapped: err,
	}
}

// DriverError is an error carrying extra context on top of a PnfsError
// sentinel.
type DriverError interface {
	error
	WithMessage(message string) DriverError
	WrapError(err error) DriverError
	Unwrap() error
}

type customError struct {
	message string
	wrapped error
}

func (e customError) Error() string {
	return e.message
}

func (e customError) WithMessage(message string) DriverError {
	return customError{
		message: fmt.Sprintf("%s: %s", e.message, message),
		wrapped: e,
	}
}

func (e customError) WrapError(err error) DriverError {
	return customError{
		message: fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		wrapped: err,
	}
}

func (e customError) Unwrap() error {
	return e.wrapped
}
