package registry

import (
	"fmt"
	"strings"
)

// ErrorKind categorizes registry build errors.
type ErrorKind uint8

const (
	// ErrMissingAttribute indicates a required attribute or child element is absent.
	ErrMissingAttribute ErrorKind = iota

	// ErrUnexpectedTag indicates an element the registry format does not define here.
	ErrUnexpectedTag

	// ErrUnclassifiableType indicates C type text that maps to no TypeRef shape.
	ErrUnclassifiableType

	// ErrUnresolvedReference indicates a require/remove names an unknown symbol.
	ErrUnresolvedReference

	// ErrDuplicateSymbol indicates a command defined twice.
	ErrDuplicateSymbol

	// ErrInvalidVersion indicates a version string that cannot be parsed.
	ErrInvalidVersion

	// ErrInvalidTarget indicates an unknown api or profile in a selection.
	ErrInvalidTarget
)

// String returns a human-readable error kind name.
func (k ErrorKind) String() string {
	switch k {
	case ErrMissingAttribute:
		return "MissingAttribute"
	case ErrUnexpectedTag:
		return "UnexpectedTag"
	case ErrUnclassifiableType:
		return "UnclassifiableType"
	case ErrUnresolvedReference:
		return "UnresolvedReference"
	case ErrDuplicateSymbol:
		return "DuplicateSymbol"
	case ErrInvalidVersion:
		return "InvalidVersion"
	case ErrInvalidTarget:
		return "InvalidTarget"
	default:
		return "Unknown"
	}
}

// Error represents a registry error.
type Error struct {
	// Kind categorizes the error.
	Kind ErrorKind

	// Message provides details about the error.
	Message string

	// Offset is the byte offset of the offending node, or -1 when unknown.
	Offset int
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("registry %s at offset %d: %s", e.Kind, e.Offset, e.Message)
	}
	return fmt.Sprintf("registry %s: %s", e.Kind, e.Message)
}

// Is matches another *Error of the same kind, so callers can test with
// errors.Is(err, &registry.Error{Kind: registry.ErrUnexpectedTag}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// NewError creates an error without position information.
func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Offset:  -1,
	}
}

// newErrorAt creates an error located at a source offset.
func newErrorAt(kind ErrorKind, offset int, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Offset:  offset,
	}
}

// Errors is a list of registry errors reported together.
type Errors []*Error

// Error implements the error interface.
func (el Errors) Error() string {
	switch len(el) {
	case 0:
		return "no errors"
	case 1:
		return el[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", el[0].Error(), len(el)-1)
}

// Unwrap exposes the individual errors to errors.Is and errors.As.
func (el Errors) Unwrap() []error {
	out := make([]error, len(el))
	for i, e := range el {
		out[i] = e
	}
	return out
}

// FormatAll returns every error, one per line.
func (el Errors) FormatAll() string {
	var sb strings.Builder
	for i, e := range el {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(e.Error())
	}
	return sb.String()
}

// Add appends an error to the list.
func (el *Errors) Add(err *Error) {
	*el = append(*el, err)
}

// HasErrors returns true if there are any errors.
func (el Errors) HasErrors() bool {
	return len(el) > 0
}
