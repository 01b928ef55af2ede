package dispatch

import "errors"

// Errors returned by the dispatcher.
var (
	// ErrNotRunning is returned when submitting to a stopped
	// dispatcher.
	ErrNotRunning = errors.New("dispatcher is not running")

	// ErrAlreadyRunning is returned when Start is called twice.
	ErrAlreadyRunning = errors.New("dispatcher is already running")

	// ErrQueueFull is returned when the request queue cannot accept
	// more work; the caller should drop the match rather than block
	// keystroke delivery.
	ErrQueueFull = errors.New("render queue is full")

	// ErrNilEvent is returned for a request without a match event.
	ErrNilEvent = errors.New("match event cannot be nil")
)
