package graph

import "errors"

var (
	// ErrUnknownTask is returned when an operation references a task id that
	// is not (or no longer) present in the graph.
	ErrUnknownTask = errors.New("unknown task")

	// ErrInvalidParent is returned by CreateTask when the requested parent
	// does not exist.
	ErrInvalidParent = errors.New("invalid parent")

	// ErrCycleDetected is returned when adding an edge would make a task its
	// own ancestor. The check runs before anything is committed; a rejected
	// edge leaves the graph untouched.
	ErrCycleDetected = errors.New("cycle detected")

	// ErrDuplicateEdge is returned when linking an edge that already exists.
	// Accepting it would record an inverse whose undo removes the original
	// edge, so it is rejected up front.
	ErrDuplicateEdge = errors.New("edge already exists")
)
