package nestedset

// ActionKind is the verb of a staged structural intent.
type ActionKind int

const (
	ActionMakeRoot ActionKind = iota + 1
	ActionAppendTo
	ActionPrependTo
	ActionInsertBefore
	ActionInsertAfter
)

func (k ActionKind) String() string {
	switch k {
	case ActionMakeRoot:
		return "makeRoot"
	case ActionAppendTo:
		return "appendTo"
	case ActionPrependTo:
		return "prependTo"
	case ActionInsertBefore:
		return "insertBefore"
	case ActionInsertAfter:
		return "insertAfter"
	}
	return "unknown"
}

// PendingAction is a staged structural change: a verb plus its operand. A
// node holds at most one; staging a new intent replaces the previous one.
// Nothing touches the store until Engine.Commit resolves it.
type PendingAction struct {
	Kind   ActionKind
	Target *Node
}

// Pending returns the node's staged intent, or nil.
func (n *Node) Pending() *PendingAction {
	return n.pending
}

// StageMakeRoot stages the node to become a top-level node at commit.
func (n *Node) StageMakeRoot() *Node {
	n.pending = &PendingAction{Kind: ActionMakeRoot}
	return n
}

// StageAppendTo stages the node to become parent's last child at commit.
func (n *Node) StageAppendTo(parent *Node) *Node {
	n.pending = &PendingAction{Kind: ActionAppendTo, Target: parent}
	return n
}

// StagePrependTo stages the node to become parent's first child at commit.
func (n *Node) StagePrependTo(parent *Node) *Node {
	n.pending = &PendingAction{Kind: ActionPrependTo, Target: parent}
	return n
}

// StageInsertBefore stages the node to become sibling's preceding sibling at
// commit.
func (n *Node) StageInsertBefore(sibling *Node) *Node {
	n.pending = &PendingAction{Kind: ActionInsertBefore, Target: sibling}
	return n
}

// StageInsertAfter stages the node to become sibling's following sibling at
// commit.
func (n *Node) StageInsertAfter(sibling *Node) *Node {
	n.pending = &PendingAction{Kind: ActionInsertAfter, Target: sibling}
	return n
}
