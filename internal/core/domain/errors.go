package domain

import "errors"

// Domain errors represent curation-session failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested artifact does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAborted indicates the user cancelled a capability prompt.
	// The open operation stops silently and the session is unchanged.
	ErrAborted = errors.New("aborted by user")

	// ErrNoDocument indicates an operation that requires a loaded
	// document was attempted without one.
	ErrNoDocument = errors.New("no document loaded")

	// ErrDuplicateColumn indicates a column insert would collide with
	// an existing header name.
	ErrDuplicateColumn = errors.New("duplicate column name")

	// ErrUnknownColumn indicates a column operation named a header that
	// does not exist.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrOutOfBounds indicates a selection or index outside the grid.
	ErrOutOfBounds = errors.New("out of bounds")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")
)
