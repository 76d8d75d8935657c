// Package errs defines the error taxonomy shared by the planning packages.
package errs

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrInvalidArgument indicates a bad batch size, range, schema use or value
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound indicates a flag or card field is absent
	ErrNotFound = errors.New("not found")

	// ErrMalformedTemplateLine indicates a card line matched a field but carries no value
	ErrMalformedTemplateLine = errors.New("malformed template line")

	// ErrMissingResource indicates a card, input directory or executable does not exist
	ErrMissingResource = errors.New("missing resource")
)

// LineError represents a failure tied to one line of a card file
type LineError struct {
	Field   string // Field being rendered
	Line    int    // 1-based line number
	Content string // Line content
	Err     error  // Category, usually ErrMalformedTemplateLine
}

func (e *LineError) Error() string {
	return fmt.Sprintf("%v: field %q at line %d (%q)", e.Err, e.Field, e.Line, e.Content)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// NewLineError creates a LineError in the MalformedTemplateLine category
func NewLineError(field string, line int, content string) *LineError {
	return &LineError{
		Field:   field,
		Line:    line,
		Content: content,
		Err:     ErrMalformedTemplateLine,
	}
}

// Invalid wraps ErrInvalidArgument with a formatted message
func Invalid(format string, a ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, a...))
}

// NotFound wraps ErrNotFound with a formatted message
func NotFound(format string, a ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, a...))
}

// Missing wraps ErrMissingResource with a formatted message
func Missing(format string, a ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMissingResource, fmt.Sprintf(format, a...))
}

// IsInvalidArgument checks if an error is in the InvalidArgument category
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// IsNotFound checks if an error is in the NotFound category
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsMissingResource checks if an error is in the MissingResource category
func IsMissingResource(err error) bool {
	return errors.Is(err, ErrMissingResource)
}

// IsLineError checks if an error is a LineError
func IsLineError(err error) bool {
	var le *LineError
	return errors.As(err, &le)
}
