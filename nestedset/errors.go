package nestedset

import "errors"

// Common errors
var (
	// ErrNodeNotFound is returned when a requested node does not exist
	ErrNodeNotFound = errors.New("node not found")
	// ErrNotPersisted is returned when an operation requires an operand that
	// already has a row in the store
	ErrNotPersisted = errors.New("node is not persisted")
	// ErrInvalidMove is returned when a move targets a position inside the
	// moving node's own subtree
	ErrInvalidMove = errors.New("invalid move: target position is inside the node's own subtree")
)
