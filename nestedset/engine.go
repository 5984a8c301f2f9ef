package nestedset

import (
	"context"
	"fmt"
)

// freshLeafHeight is the span a node without descendants occupies.
const freshLeafHeight = 2

// Engine orchestrates structural changes: it validates preconditions,
// refreshes stale operand boundaries, computes the boundary deltas, applies
// them through the store as one range patch and syncs the in-memory node.
// Validation failures surface before any write; store failures propagate
// as-is with no retry, the patch being all-or-nothing.
type Engine struct {
	store   TreeStore
	session *Session
}

// NewEngine creates an engine over the given store. A nil session gets a
// fresh one.
func NewEngine(store TreeStore, session *Session) *Engine {
	if session == nil {
		session = NewSession()
	}
	return &Engine{store: store, session: session}
}

// Session returns the engine's mutation session.
func (e *Engine) Session() *Session {
	return e.session
}

// refresh re-reads a persisted operand's boundaries from the store. Skipped
// while the session has seen no mutation: nothing can have moved yet.
func (e *Engine) refresh(ctx context.Context, n *Node) error {
	if !n.Persisted() || e.session.Mutations() == 0 {
		return nil
	}
	b, err := e.store.ReadBoundaries(ctx, n.ID)
	if err != nil {
		return fmt.Errorf("refreshing node %d: %w", n.ID, err)
	}
	n.Lft, n.Rgt, n.ParentID = b.Lft, b.Rgt, b.ParentID
	return nil
}

// MakeRoot turns the node into a top-level node at the end of the forest's
// numbering space. A node without a persisted row is inserted fresh; an
// existing node has its parent link cleared and its subtree relocated past
// the current maximum boundary.
func (e *Engine) MakeRoot(ctx context.Context, n *Node) error {
	if !n.Persisted() {
		max, err := e.store.MaxBoundary(ctx)
		if err != nil {
			return fmt.Errorf("reading max boundary: %w", err)
		}
		lft, rgt := RootBoundaries(max)
		return e.insertAt(ctx, n, lft, rgt, nil)
	}

	if err := e.refresh(ctx, n); err != nil {
		return err
	}
	max, err := e.store.MaxBoundary(ctx)
	if err != nil {
		return fmt.Errorf("reading max boundary: %w", err)
	}
	return e.moveTo(ctx, n, max+1, nil)
}

// AppendTo places the node as parent's last child.
func (e *Engine) AppendTo(ctx context.Context, n, parent *Node) error {
	if parent == nil || !parent.Persisted() {
		return fmt.Errorf("append: parent %w", ErrNotPersisted)
	}
	if err := e.refresh(ctx, parent); err != nil {
		return err
	}
	return e.place(ctx, n, parent.Rgt, &parent.ID)
}

// PrependTo places the node as parent's first child.
func (e *Engine) PrependTo(ctx context.Context, n, parent *Node) error {
	if parent == nil || !parent.Persisted() {
		return fmt.Errorf("prepend: parent %w", ErrNotPersisted)
	}
	if err := e.refresh(ctx, parent); err != nil {
		return err
	}
	return e.place(ctx, n, parent.Lft+1, &parent.ID)
}

// InsertBefore places the node as sibling's immediately preceding sibling,
// re-parenting it to match when necessary.
func (e *Engine) InsertBefore(ctx context.Context, n, sibling *Node) error {
	if sibling == nil || !sibling.Persisted() {
		return fmt.Errorf("insert before: sibling %w", ErrNotPersisted)
	}
	if err := e.refresh(ctx, sibling); err != nil {
		return err
	}
	return e.place(ctx, n, sibling.Lft, sibling.ParentID)
}

// InsertAfter places the node as sibling's immediately following sibling,
// re-parenting it to match when necessary.
func (e *Engine) InsertAfter(ctx context.Context, n, sibling *Node) error {
	if sibling == nil || !sibling.Persisted() {
		return fmt.Errorf("insert after: sibling %w", ErrNotPersisted)
	}
	if err := e.refresh(ctx, sibling); err != nil {
		return err
	}
	return e.place(ctx, n, sibling.Rgt+1, sibling.ParentID)
}

// Delete removes the node's subtree and closes the gap it leaves. The
// in-memory node is reset as a fresh, unsaved node staged to become a root so
// the caller may re-persist it.
func (e *Engine) Delete(ctx context.Context, n *Node) error {
	if !n.Persisted() {
		return fmt.Errorf("delete: node %w", ErrNotPersisted)
	}
	if err := e.refresh(ctx, n); err != nil {
		return err
	}
	lft, rgt, height := n.Lft, n.Rgt, n.Height()

	if e.store.CascadesDelete() {
		// The subtree root row takes its descendants with it.
		if _, err := e.store.DeleteRange(ctx, lft, lft); err != nil {
			return fmt.Errorf("deleting node %d: %w", n.ID, err)
		}
	} else {
		if _, err := e.store.DeleteRange(ctx, lft, rgt); err != nil {
			return fmt.Errorf("deleting subtree of node %d: %w", n.ID, err)
		}
	}

	// The gap closes even when the store cascades; only the explicit delete
	// pass is conditional.
	if _, err := e.store.ApplyRangePatch(ctx, BuildGapPatch(CloseGap(rgt, height))); err != nil {
		return fmt.Errorf("closing gap after delete: %w", err)
	}
	e.session.noteMutation()

	n.ID = 0
	n.Lft, n.Rgt = 0, 0
	n.ParentID = nil
	n.StageMakeRoot()
	return nil
}

// Commit resolves the node's staged intent, if any, into a single structural
// operation. The slot is popped first, so a failed commit leaves no intent
// behind. With nothing staged, Commit is a no-op (plain attribute save).
func (e *Engine) Commit(ctx context.Context, n *Node) error {
	act := n.pending
	if act == nil {
		return nil
	}
	n.pending = nil

	switch act.Kind {
	case ActionMakeRoot:
		return e.MakeRoot(ctx, n)
	case ActionAppendTo:
		return e.AppendTo(ctx, n, act.Target)
	case ActionPrependTo:
		return e.PrependTo(ctx, n, act.Target)
	case ActionInsertBefore:
		return e.InsertBefore(ctx, n, act.Target)
	case ActionInsertAfter:
		return e.InsertAfter(ctx, n, act.Target)
	}
	return fmt.Errorf("unknown pending action %d", act.Kind)
}

// place inserts a new node at pos or relocates an existing one there.
func (e *Engine) place(ctx context.Context, n *Node, pos int64, parentID *int64) error {
	if !n.Persisted() {
		if err := e.openGapAt(ctx, pos, freshLeafHeight); err != nil {
			return err
		}
		return e.insertAt(ctx, n, pos, pos+freshLeafHeight-1, parentID)
	}
	if err := e.refresh(ctx, n); err != nil {
		return err
	}
	return e.moveTo(ctx, n, pos, parentID)
}

func (e *Engine) openGapAt(ctx context.Context, at, width int64) error {
	if _, err := e.store.ApplyRangePatch(ctx, BuildGapPatch(OpenGap(at, width))); err != nil {
		return fmt.Errorf("opening gap at %d: %w", at, err)
	}
	return nil
}

// insertAt persists a brand new row with the given boundaries and syncs the
// in-memory node from the store's reply.
func (e *Engine) insertAt(ctx context.Context, n *Node, lft, rgt int64, parentID *int64) error {
	id, err := e.store.InsertRow(ctx, n.Label, parentID, lft, rgt)
	if err != nil {
		return fmt.Errorf("inserting node: %w", err)
	}
	n.ID = id
	n.Lft, n.Rgt = lft, rgt
	n.ParentID = parentID
	e.session.noteMutation()
	return nil
}

// moveTo relocates a persisted subtree so its left edge lands at pos and
// persists the new parent link. The validity check runs before any write.
func (e *Engine) moveTo(ctx context.Context, n *Node, pos int64, parentID *int64) error {
	plan, err := PlanMove(n.Lft, n.Rgt, pos)
	if err != nil {
		return err
	}
	if _, err := e.store.ApplyRangePatch(ctx, BuildMovePatch(plan)); err != nil {
		return fmt.Errorf("moving node %d: %w", n.ID, err)
	}
	if err := e.store.WriteParent(ctx, n.ID, parentID); err != nil {
		return fmt.Errorf("writing parent of node %d: %w", n.ID, err)
	}
	n.Lft += plan.SpanDelta
	n.Rgt += plan.SpanDelta
	n.ParentID = parentID
	e.session.noteMutation()
	return nil
}
