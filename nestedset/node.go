package nestedset

// Node is an in-memory view of a tree row. The TreeStore owns the
// authoritative boundary values; a Node may be stale between mutations and the
// engine refreshes it before trusting its boundaries for arithmetic.
type Node struct {
	ID       int64
	Label    string
	ParentID *int64
	Lft      int64
	Rgt      int64

	pending *PendingAction
}

// Persisted reports whether the node has a row in the store.
func (n *Node) Persisted() bool {
	return n.ID != 0
}

// IsRoot reports whether the node is a top-level node.
func (n *Node) IsRoot() bool {
	return n.ParentID == nil
}

// IsLeaf reports whether the node has no descendants.
func (n *Node) IsLeaf() bool {
	return n.Rgt == n.Lft+1
}

// Height is the span of the node's subtree in boundary units,
// rgt - lft + 1. It is always even and at least 2 for a persisted node.
func (n *Node) Height() int64 {
	return n.Rgt - n.Lft + 1
}

// DescendantCount derives the number of descendants from the boundaries.
func (n *Node) DescendantCount() int64 {
	return n.Height()/2 - 1
}

// Contains reports whether other's interval lies strictly inside n's,
// i.e. other is a descendant of n.
func (n *Node) Contains(other *Node) bool {
	return n.Lft < other.Lft && other.Rgt < n.Rgt
}

// IsDescendantOf reports whether n lies strictly inside other's interval.
func (n *Node) IsDescendantOf(other *Node) bool {
	return other.Contains(n)
}

// IsBefore reports whether n's subtree precedes other's in tree order.
func (n *Node) IsBefore(other *Node) bool {
	return n.Rgt < other.Lft
}

// IsAfter reports whether n's subtree follows other's in tree order.
func (n *Node) IsAfter(other *Node) bool {
	return n.Lft > other.Rgt
}

// SameParent reports whether two nodes share a parent. Two roots count as
// siblings.
func SameParent(a, b *Node) bool {
	if a.ParentID == nil || b.ParentID == nil {
		return a.ParentID == nil && b.ParentID == nil
	}
	return *a.ParentID == *b.ParentID
}
