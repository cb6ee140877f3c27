package rotolog

import "errors"

// Error taxonomy. Configuration and state errors are returned synchronously
// from the call that caused them; stream, rotation, and prune errors are
// runtime conditions that never reach a log-call caller.
var (
	// ErrStreamOpen indicates the log file could not be opened.
	ErrStreamOpen = errors.New("rotolog: cannot open log stream")

	// ErrStreamClose indicates the log file handle could not be closed.
	ErrStreamClose = errors.New("rotolog: cannot close log stream")

	// ErrRotateRename indicates the active file could not be renamed to its
	// archive name during rotation.
	ErrRotateRename = errors.New("rotolog: cannot rename log file for rotation")

	// ErrPruneDelete indicates one or more archived files could not be removed.
	ErrPruneDelete = errors.New("rotolog: cannot delete archived log file")

	// ErrInvalidConfiguration indicates an unrecognized level name or a
	// malformed option value.
	ErrInvalidConfiguration = errors.New("rotolog: invalid configuration")

	// ErrInvalidState indicates an operation that is not legal in the
	// logger's current state, such as changing the filename while open.
	ErrInvalidState = errors.New("rotolog: invalid logger state")
)
