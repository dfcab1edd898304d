package xmltree

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/tdewolff/parse/v2"
)

// SyntaxError reports a malformed document.
type SyntaxError struct {
	Message string

	// Offset is the byte offset of the offending token.
	Offset int

	// Line and Column are 1-based; zero when unknown.
	Line   int
	Column int

	// Context is the source line around the error with a position marker.
	Context string
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	if e.Line == 0 {
		return "xml: " + e.Message
	}
	return fmt.Sprintf("xml: %d:%d: %s", e.Line, e.Column, e.Message)
}

// FormatWithContext returns the error message followed by the source context.
func (e *SyntaxError) FormatWithContext() string {
	if e.Context == "" {
		return e.Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "error: %s\n", e.Message)
	fmt.Fprintf(&sb, "  --> line %d:%d\n", e.Line, e.Column)
	sb.WriteString(e.Context)
	return sb.String()
}

// newSyntaxError locates offset within src and builds a SyntaxError.
func newSyntaxError(src []byte, offset int, format string, args ...any) *SyntaxError {
	if offset > len(src) {
		offset = len(src)
	}
	line, col, context := parse.Position(bytes.NewReader(src), offset)
	return &SyntaxError{
		Message: fmt.Sprintf(format, args...),
		Offset:  offset,
		Line:    line,
		Column:  col,
		Context: context,
	}
}
