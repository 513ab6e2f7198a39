package filterir

import (
	"errors"
	"fmt"
)

// Error reports a rejected filter, model definition or query part.
//
// Errors are fail-fast: the first one aborts the whole decode or compile.
type Error struct {
	// Kind separates malformed structure from well-formed but unusable input.
	Kind Kind

	// Path locates the offending branch, e.g. "$.OR[1].name".
	Path string

	// Message is a human-readable description.
	Message string
}

// Kind categorizes errors.
type Kind string

const (
	// KindConfig is a grammar or definition error: an AND/OR key whose value
	// is not a list, an unknown operand, nesting past the depth limit, or a
	// malformed model definition.
	KindConfig Kind = "config"

	// KindOperation is structurally valid input that cannot be compiled, such
	// as a list value paired with ">".
	KindOperation Kind = "operation"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s (at %s)", e.Kind, e.Message, e.Path)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// NewConfigError creates a KindConfig error.
func NewConfigError(path, format string, args ...any) *Error {
	return &Error{Kind: KindConfig, Path: path, Message: fmt.Sprintf(format, args...)}
}

// NewOperationError creates a KindOperation error.
func NewOperationError(path, format string, args ...any) *Error {
	return &Error{Kind: KindOperation, Path: path, Message: fmt.Sprintf(format, args...)}
}

// IsConfigError returns true if err wraps a KindConfig error.
func IsConfigError(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == KindConfig
	}
	return false
}

// IsOperationError returns true if err wraps a KindOperation error.
func IsOperationError(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == KindOperation
	}
	return false
}
