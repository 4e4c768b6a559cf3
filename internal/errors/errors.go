// Package errors lets callers reach stdlib matching and pkg/errors stack
// annotation through a single import.
package errors

import (
	stderrors "errors"

	pkgerrors "github.com/pkg/errors"
)

// New returns a plain error without a stack.
func New(text string) error {
	return stderrors.New(text)
}

// Is is errors.Is.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As is errors.As.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// Wrap records a stack and prefixes err with message. A nil err stays nil.
func Wrap(err error, message string) error {
	return pkgerrors.Wrap(err, message)
}

// Wrapf is Wrap with a format string.
func Wrapf(err error, format string, args ...any) error {
	return pkgerrors.Wrapf(err, format, args...)
}

// WithStack records a stack at the call site without changing the message.
func WithStack(err error) error {
	return pkgerrors.WithStack(err)
}

// Errorf formats a new error and records a stack.
func Errorf(format string, args ...any) error {
	return pkgerrors.Errorf(format, args...)
}
