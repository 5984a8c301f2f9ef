package nestedset

import "math"

// Unbounded marks an interval with no upper limit.
const Unbounded = int64(math.MaxInt64)

// Interval is a closed range of boundary values. High == Unbounded means
// every value >= Low.
type Interval struct {
	Low  int64
	High int64
}

// Contains reports whether value falls inside the interval.
func (i Interval) Contains(value int64) bool {
	if i.High == Unbounded {
		return value >= i.Low
	}
	return value >= i.Low && value <= i.High
}

// ShiftRule adds Delta to a boundary value that falls within the interval.
type ShiftRule struct {
	Within Interval
	Delta  int64
}

// RangePatch is a declarative conditional batch update over the two boundary
// columns: for each row and each boundary, the first matching rule's delta is
// added; boundaries matching no rule are unchanged. A store must apply the
// whole patch as one atomic statement so every affected row observes a
// simultaneous, consistent shift.
type RangePatch struct {
	Rules []ShiftRule
}

// DeltaFor evaluates the patch against a single boundary value, first match
// wins. In-memory stores and tests apply patches through this.
func (p RangePatch) DeltaFor(value int64) int64 {
	for _, r := range p.Rules {
		if r.Within.Contains(value) {
			return r.Delta
		}
	}
	return 0
}

// Touches reports whether a row with the given boundaries would be affected.
func (p RangePatch) Touches(lft, rgt int64) bool {
	return p.DeltaFor(lft) != 0 || p.DeltaFor(rgt) != 0
}

// BuildGapPatch renders a gap open/close as a one-rule patch: every boundary
// at or past the cut shifts by the gap's delta.
func BuildGapPatch(g GapShift) RangePatch {
	return RangePatch{Rules: []ShiftRule{
		{Within: Interval{Low: g.Cut, High: Unbounded}, Delta: g.Delta},
	}}
}

// BuildMovePatch renders a move plan as a two-rule patch. The span rule must
// come first: the moving subtree's interval is a sub-range of [From, To] and
// rule order is what keeps the two shifts disjoint.
func BuildMovePatch(m MovePlan) RangePatch {
	return RangePatch{Rules: []ShiftRule{
		{Within: Interval{Low: m.SpanLft, High: m.SpanRgt}, Delta: m.SpanDelta},
		{Within: Interval{Low: m.From, High: m.To}, Delta: m.ShiftDelta},
	}}
}
