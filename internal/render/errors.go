package render

import (
	"errors"
	"fmt"
)

// Graph construction failures. These are definition problems: they
// abort the render before any extension runs, and no partial output
// is produced.
var (
	// ErrUnknownReference indicates a placeholder or parameter
	// references a variable that is neither local nor global.
	ErrUnknownReference = errors.New("reference to unknown variable")

	// ErrCircularReference indicates a dependency cycle between
	// variables.
	ErrCircularReference = errors.New("circular variable dependency")

	// ErrMissingSubTemplate indicates a nested match variable names a
	// trigger that does not exist in the catalog.
	ErrMissingSubTemplate = errors.New("nested match refers to unknown trigger")

	// ErrNoTemplate indicates a render request without a template.
	ErrNoTemplate = errors.New("no template to render")
)

// GraphError reports a template whose variable graph could not be
// built.
type GraphError struct {
	// Var is the variable where the problem was found.
	Var string

	// Err is the underlying cause.
	Err error
}

// Error implements error.
func (e *GraphError) Error() string {
	return fmt.Sprintf("building variable graph at %q: %v", e.Var, e.Err)
}

// Unwrap returns the underlying cause.
func (e *GraphError) Unwrap() error { return e.Err }

// EvalError reports a render pass aborted by the failure of a
// fatal-policy variable.
type EvalError struct {
	// Var is the variable whose evaluation failed.
	Var string

	// Err is the extension failure.
	Err error
}

// Error implements error.
func (e *EvalError) Error() string {
	return fmt.Sprintf("evaluating %q: %v", e.Var, e.Err)
}

// Unwrap returns the underlying cause.
func (e *EvalError) Unwrap() error { return e.Err }
