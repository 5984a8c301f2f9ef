package repository

import (
	"context"
	"errors"

	"github.com/ammiranda/nestedset_service/nestedset"
)

// Node represents a row of the tree table
type Node struct {
	ID       int64  // Unique identifier for the node
	Label    string // Display name or content of the node
	ParentID *int64 // Optional reference to the parent node's ID
	Lft      int64  // Left boundary of the node's interval
	Rgt      int64  // Right boundary of the node's interval
}

// Entity converts the row into the in-memory view the mutation engine
// operates on.
func (n *Node) Entity() *nestedset.Node {
	return &nestedset.Node{
		ID:       n.ID,
		Label:    n.Label,
		ParentID: n.ParentID,
		Lft:      n.Lft,
		Rgt:      n.Rgt,
	}
}

// Repository defines the interface for data access operations. It embeds the
// TreeStore contract the mutation engine drives, plus the read side the
// service layer needs. All hierarchy queries are expressed purely in terms of
// boundaries and parent id.
type Repository interface {
	nestedset.TreeStore

	// Initialize performs any necessary setup for the repository, such as
	// opening connections and running schema migrations.
	Initialize(ctx context.Context) error

	// Cleanup releases whatever Initialize acquired.
	Cleanup(ctx context.Context) error

	// GetNode retrieves a node by its ID.
	// Returns ErrNodeNotFound if no node exists with the given ID.
	GetNode(ctx context.Context, id int64) (*Node, error)

	// GetAllNodes retrieves every node ordered by left boundary, which is
	// depth-first tree order.
	GetAllNodes(ctx context.Context) ([]*Node, error)

	// UpdateLabel renames a node without touching its placement.
	// Returns ErrNodeNotFound if no node exists with the given ID.
	UpdateLabel(ctx context.Context, id int64, label string) error

	// DescendantsOf returns the nodes whose boundaries fall strictly inside
	// the given node's interval, in tree order.
	DescendantsOf(ctx context.Context, id int64) ([]*Node, error)

	// AncestorsOf returns the nodes whose intervals strictly contain the
	// given node's, outermost first.
	AncestorsOf(ctx context.Context, id int64) ([]*Node, error)

	// ChildrenOf returns the nodes directly parented under the given node,
	// in tree order.
	ChildrenOf(ctx context.Context, id int64) ([]*Node, error)
}

// Common errors
var (
	// ErrNodeNotFound is returned when a requested node does not exist
	ErrNodeNotFound = nestedset.ErrNodeNotFound
	// ErrInvalidInput is returned when the input parameters are invalid
	ErrInvalidInput = errors.New("invalid input")
)
