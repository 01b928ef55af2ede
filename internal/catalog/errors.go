package catalog

import (
	"errors"
	"fmt"
)

// Errors returned while building a catalog. All of them surface at
// load time; a built catalog never fails during matching.
var (
	// ErrNoCause indicates a trigger with neither literals nor a regex.
	ErrNoCause = errors.New("trigger has no literal strings and no regex")

	// ErrBothCauses indicates a trigger with literals and a regex.
	ErrBothCauses = errors.New("trigger has both literal strings and a regex")

	// ErrEmptyTrigger indicates an empty literal trigger string.
	ErrEmptyTrigger = errors.New("empty trigger string")

	// ErrNoTemplate indicates a trigger without replacement content.
	ErrNoTemplate = errors.New("trigger has no template")

	// ErrDuplicateVar indicates two template variables with one name.
	ErrDuplicateVar = errors.New("duplicate variable name in template")

	// ErrDuplicateGlobal indicates two global variables with one name.
	ErrDuplicateGlobal = errors.New("duplicate global variable name")
)

// BuildError reports a trigger definition the catalog rejected.
type BuildError struct {
	// Trigger describes the offending trigger.
	Trigger string

	// Err is the underlying cause.
	Err error
}

// Error implements error.
func (e *BuildError) Error() string {
	return fmt.Sprintf("trigger %q: %v", e.Trigger, e.Err)
}

// Unwrap returns the underlying cause.
func (e *BuildError) Unwrap() error { return e.Err }
