package extension

import (
	"errors"
	"fmt"

	"github.com/dshills/snipstorm/internal/trigger"
)

// Errors reported by extension evaluation.
var (
	// ErrMissingParam indicates a required parameter is absent or has
	// the wrong type.
	ErrMissingParam = errors.New("missing or invalid parameter")

	// ErrInvalidFormat indicates a date format string with an unknown
	// directive. This is a definition problem, not a runtime one; it
	// surfaces on first use of the offending variable.
	ErrInvalidFormat = errors.New("invalid date format")

	// ErrNoChoices indicates a random variable with an empty choice
	// list and no numeric range.
	ErrNoChoices = errors.New("no choices to select from")

	// ErrExit indicates a spawned process exited non-zero.
	ErrExit = errors.New("process exited with non-zero status")

	// ErrTimeout indicates an invocation exceeded its timeout.
	ErrTimeout = errors.New("evaluation timed out")

	// ErrUnsupportedKind indicates a variable kind the registry does
	// not evaluate (nested matches and unresolved globals are handled
	// by the render engine before dispatch).
	ErrUnsupportedKind = errors.New("unsupported variable kind")
)

// Error wraps a failure while evaluating one variable, carrying the
// kind and variable name for the caller's warning or error report.
type Error struct {
	// Kind is the extension kind that failed.
	Kind trigger.Kind

	// Var is the variable name being evaluated.
	Var string

	// Err is the underlying cause.
	Err error
}

// Error implements error.
func (e *Error) Error() string {
	return fmt.Sprintf("%s extension, variable %q: %v", e.Kind, e.Var, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// wrap builds an *Error for the given variable.
func wrap(kind trigger.Kind, name string, err error) *Error {
	return &Error{Kind: kind, Var: name, Err: err}
}
