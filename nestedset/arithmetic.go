// Package nestedset maintains a forest encoded as nested sets over a flat
// relational table: each node carries lft/rgt boundaries such that a node's
// descendants are exactly the rows whose boundaries fall strictly inside its
// own. Subtree queries become range scans; structural changes become a single
// batched range update computed here.
package nestedset

// RootBoundaries returns the boundaries for a brand new top-level node given
// the forest's current maximum boundary value (0 for an empty forest).
func RootBoundaries(maxBoundary int64) (lft, rgt int64) {
	return maxBoundary + 1, maxBoundary + 2
}

// GapShift shifts every boundary value >= Cut by Delta. A positive Delta
// opens room for an insertion, a negative one collapses the hole a deletion
// leaves behind.
type GapShift struct {
	Cut   int64
	Delta int64
}

// OpenGap makes room for width boundary units at position at.
func OpenGap(at, width int64) GapShift {
	return GapShift{Cut: at, Delta: width}
}

// CloseGap collapses width boundary units of unused space that start right
// after rgt.
func CloseGap(rgt, width int64) GapShift {
	return GapShift{Cut: rgt + 1, Delta: -width}
}

// MovePlan captures the two disjoint shift rules that relocate an existing
// span: the moving subtree's own boundaries shift by SpanDelta, every other
// boundary inside [From, To] shifts by ShiftDelta. Boundaries outside
// [From, To] are untouched.
type MovePlan struct {
	From int64
	To   int64

	SpanLft   int64
	SpanRgt   int64
	SpanDelta int64

	ShiftDelta int64
}

// PlanMove computes the shifts that relocate the subtree currently spanning
// [lft, rgt] so that its left edge lands at pos, where pos is a boundary
// value in the numbering before the move. Returns ErrInvalidMove when pos
// falls inside the subtree's own interval, which includes moving a node under
// one of its own descendants.
func PlanMove(lft, rgt, pos int64) (MovePlan, error) {
	if pos > lft && pos <= rgt {
		return MovePlan{}, ErrInvalidMove
	}

	height := rgt - lft + 1
	from := lft
	if pos < from {
		from = pos
	}
	to := rgt
	if pos-1 > to {
		to = pos - 1
	}
	distance := (to - from + 1) - height

	plan := MovePlan{
		From:    from,
		To:      to,
		SpanLft: lft,
		SpanRgt: rgt,
	}
	if pos > lft {
		// Forward: the span jumps right over distance displaced units,
		// which slide left to fill its old slot.
		plan.SpanDelta = distance
		plan.ShiftDelta = -height
	} else {
		// Backward: the span lands on pos, displaced units slide right.
		plan.SpanDelta = -distance
		plan.ShiftDelta = height
	}
	return plan, nil
}
