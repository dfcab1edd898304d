// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package gogen

import "fmt"

// ErrorKind categorizes Go emission errors.
type ErrorKind uint8

const (
	// ErrUnresolvedType indicates a command references a type the preamble does not define.
	ErrUnresolvedType ErrorKind = iota

	// ErrConstantOverflow indicates an enum literal that does not fit its Go type.
	ErrConstantOverflow

	// ErrUnsupportedType indicates a type that cannot be passed by value.
	ErrUnsupportedType

	// ErrInvalidOptions indicates emitter options that cannot produce a valid file.
	ErrInvalidOptions

	// ErrFormat indicates the generated source failed to format.
	ErrFormat
)

// String returns a human-readable error kind name.
func (k ErrorKind) String() string {
	switch k {
	case ErrUnresolvedType:
		return "UnresolvedType"
	case ErrConstantOverflow:
		return "ConstantOverflow"
	case ErrUnsupportedType:
		return "UnsupportedType"
	case ErrInvalidOptions:
		return "InvalidOptions"
	case ErrFormat:
		return "Format"
	default:
		return "Unknown"
	}
}

// Error represents a Go emission error.
type Error struct {
	// Kind categorizes the error.
	Kind ErrorKind

	// Message provides details about the error.
	Message string

	// Symbol names the enum or command being emitted, if any.
	Symbol string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Symbol != "" {
		return fmt.Sprintf("gogen %s in %s: %s", e.Kind, e.Symbol, e.Message)
	}
	return fmt.Sprintf("gogen %s: %s", e.Kind, e.Message)
}

// Is matches another *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// NewError creates an error not tied to a symbol.
func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

func symbolError(kind ErrorKind, symbol, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Symbol:  symbol,
	}
}

// IsUnresolvedType returns true if the error is ErrUnresolvedType.
func (e *Error) IsUnresolvedType() bool {
	return e.Kind == ErrUnresolvedType
}

// IsConstantOverflow returns true if the error is ErrConstantOverflow.
func (e *Error) IsConstantOverflow() bool {
	return e.Kind == ErrConstantOverflow
}
