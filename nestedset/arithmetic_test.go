package nestedset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRootBoundaries(t *testing.T) {
	testCases := []struct {
		name        string
		maxBoundary int64
		wantLft     int64
		wantRgt     int64
	}{
		{name: "empty forest", maxBoundary: 0, wantLft: 1, wantRgt: 2},
		{name: "after one root", maxBoundary: 2, wantLft: 3, wantRgt: 4},
		{name: "after a populated tree", maxBoundary: 10, wantLft: 11, wantRgt: 12},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			lft, rgt := RootBoundaries(tc.maxBoundary)
			assert.Equal(t, tc.wantLft, lft)
			assert.Equal(t, tc.wantRgt, rgt)
		})
	}
}

func TestGapShifts(t *testing.T) {
	open := OpenGap(4, 2)
	assert.Equal(t, int64(4), open.Cut)
	assert.Equal(t, int64(2), open.Delta)

	// Deleting a subtree spanning (3,6) closes 4 units starting at 7
	closed := CloseGap(6, 4)
	assert.Equal(t, int64(7), closed.Cut)
	assert.Equal(t, int64(-4), closed.Delta)
}

func TestPlanMoveForward(t *testing.T) {
	// Subtree (2,3) moving after its sibling (4,5): target position 6
	plan, err := PlanMove(2, 3, 6)
	assert.NoError(t, err)

	assert.Equal(t, int64(2), plan.From)
	assert.Equal(t, int64(5), plan.To)
	assert.Equal(t, int64(2), plan.SpanLft)
	assert.Equal(t, int64(3), plan.SpanRgt)
	assert.Equal(t, int64(2), plan.SpanDelta)
	assert.Equal(t, int64(-2), plan.ShiftDelta)
}

func TestPlanMoveBackward(t *testing.T) {
	// Subtree (4,5) moving before its sibling (2,3): target position 2
	plan, err := PlanMove(4, 5, 2)
	assert.NoError(t, err)

	assert.Equal(t, int64(2), plan.From)
	assert.Equal(t, int64(5), plan.To)
	assert.Equal(t, int64(-2), plan.SpanDelta)
	assert.Equal(t, int64(2), plan.ShiftDelta)
}

func TestPlanMoveNoop(t *testing.T) {
	// Moving to its own left edge displaces nothing
	plan, err := PlanMove(4, 5, 4)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), plan.SpanDelta)
}

func TestPlanMoveIntoOwnSubtree(t *testing.T) {
	testCases := []struct {
		name string
		pos  int64
	}{
		{name: "strictly inside", pos: 4},
		{name: "just past left edge", pos: 3},
		{name: "own right edge", pos: 7},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := PlanMove(2, 7, tc.pos)
			assert.ErrorIs(t, err, ErrInvalidMove)
		})
	}
}

func TestPlanMoveDisjointShifts(t *testing.T) {
	// The span rule and the displaced-range rule must cancel out: the total
	// shift per displaced row times the displaced width equals the span's
	// width times its shift, so the numbering stays dense.
	plan, err := PlanMove(3, 8, 12)
	assert.NoError(t, err)

	height := plan.SpanRgt - plan.SpanLft + 1
	displaced := (plan.To - plan.From + 1) - height
	assert.Equal(t, height*plan.SpanDelta, -displaced*plan.ShiftDelta)
}
