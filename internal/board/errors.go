package board

import "errors"

var (
	// ErrTaskNotFound is returned when an operation references a task ID
	// that is not on the board. The board is left unchanged.
	ErrTaskNotFound = errors.New("task not found")

	// ErrValidation wraps every rejected input: blank titles, unknown
	// statuses or priorities, malformed due dates, non-member assignees.
	ErrValidation = errors.New("validation failed")

	// ErrIndexOutOfRange is returned by ReorderTasks when the source index
	// does not address a task in the status bucket.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrDuplicateBoard is returned when a workspace already holds a board
	// with the same ID.
	ErrDuplicateBoard = errors.New("duplicate board")
)
