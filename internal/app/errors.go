package app

import "fmt"

// InitError reports which component failed during assembly.
type InitError struct {
	// Component names the part that failed.
	Component string

	// Err is the underlying failure.
	Err error
}

// Error implements the error interface.
func (e *InitError) Error() string {
	return fmt.Sprintf("initializing %s: %v", e.Component, e.Err)
}

// Unwrap returns the underlying error.
func (e *InitError) Unwrap() error {
	return e.Err
}
