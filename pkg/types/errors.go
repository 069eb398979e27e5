package types

import "fmt"

// ErrorCode represents a bindtree error code.
type ErrorCode string

// Error codes.
const (
	// S0xxx: binding syntax errors
	ErrStringNotClosed   ErrorCode = "S0101"
	ErrNumberOutOfRange  ErrorCode = "S0102"
	ErrUnsupportedEscape ErrorCode = "S0103"
	ErrUnexpectedEnd     ErrorCode = "S0104"
	ErrNotABinding       ErrorCode = "S0105"
	ErrSyntaxError       ErrorCode = "S0201"
	ErrExpectedToken     ErrorCode = "S0202"

	// T1xxx: conversion errors
	ErrCannotConvertNumber ErrorCode = "T1001"
	ErrCannotConvertString ErrorCode = "T1002"

	// U1xxx: bind-time resolution errors
	ErrUndefinedFunction ErrorCode = "U1002"

	// C1xxx: data context misuse
	ErrCloneRequired  ErrorCode = "C1001"
	ErrCloneForbidden ErrorCode = "C1002"

	// L0xxx: layout errors
	ErrLayoutType      ErrorCode = "L0001"
	ErrLayoutShape     ErrorCode = "L0002"
	ErrLayoutAttribute ErrorCode = "L0003"
	ErrLayoutFactory   ErrorCode = "L0004"
)

// Error represents a structured bindtree error.
type Error struct {
	Code     ErrorCode
	Message  string
	Position int
	Token    string
	Err      error
}

// NewError creates a new error. Use a negative position when the error is
// not tied to a location in an expression.
func NewError(code ErrorCode, message string, position int) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Position: position,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Position >= 0 {
		return fmt.Sprintf("%s at position %d: %s", e.Code, e.Position, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithToken adds token information to the error.
func (e *Error) WithToken(token string) *Error {
	e.Token = token
	return e
}

// WithCause wraps another error.
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}

// Is reports whether target is an *Error with the same code, so callers
// can write errors.Is(err, types.NewError(types.ErrUndefinedFunction, "", -1)).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) ErrorCode {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}
