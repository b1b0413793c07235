package tape

import "errors"

// Error kinds (§7). Callers match these with errors.Is; detection sites
// wrap them with github.com/pkg/errors to attach a stack trace.
var (
	// ErrAlreadyActive is returned by Activate when the calling goroutine
	// already has a different tape active.
	ErrAlreadyActive = errors.New("tape: already active on this goroutine")

	// ErrNoActiveTape is returned by operations that require a tape to be
	// active on the calling goroutine when none is.
	ErrNoActiveTape = errors.New("tape: no active tape on this goroutine")

	// ErrOutOfRange is returned when a position or slot argument falls
	// outside the tape's current bounds.
	ErrOutOfRange = errors.New("tape: position or slot out of range")

	// ErrDerivativesNotInitialized is returned by ComputeAdjoints when
	// no derivative has been set or read in the current recording frame
	// since it began or since the last ClearDerivatives.
	ErrDerivativesNotInitialized = errors.New("tape: derivative vector not initialized")

	// ErrEmptyCallbackStack is returned by PopCallback/GetLastCallback
	// when no checkpoint callback has been pushed.
	ErrEmptyCallbackStack = errors.New("tape: callback stack is empty")
)
