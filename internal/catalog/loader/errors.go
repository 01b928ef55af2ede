package loader

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownKind indicates a variable names an extension kind the
	// engine does not implement.
	ErrUnknownKind = errors.New("unknown variable kind")

	// ErrUnknownPolicy indicates a variable names a failure policy the
	// engine does not implement.
	ErrUnknownPolicy = errors.New("unknown failure policy")

	// ErrMalformed indicates a match file that does not parse in its
	// declared format.
	ErrMalformed = errors.New("malformed match file")
)

// ParseError ties a loading failure to the file it came from.
type ParseError struct {
	// Path is the match file being loaded.
	Path string

	// Err is the underlying failure.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("match file %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
