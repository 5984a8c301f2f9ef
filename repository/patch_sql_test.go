package repository

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ammiranda/nestedset_service/nestedset"
)

func postgresPlaceholder(n int) string { return fmt.Sprintf("$%d", n) }

func sqlitePlaceholder(int) string { return "?" }

func TestPatchSQLGapPostgres(t *testing.T) {
	patch := nestedset.BuildGapPatch(nestedset.OpenGap(3, 2))

	query, args := patchSQL(patch, postgresPlaceholder)

	assert.Equal(t,
		"UPDATE nodes SET lft = lft + CASE WHEN lft >= $1 THEN $2 ELSE 0 END, "+
			"rgt = rgt + CASE WHEN rgt >= $3 THEN $4 ELSE 0 END "+
			"WHERE lft >= $5 OR rgt >= $6",
		query)
	assert.Equal(t, []interface{}{
		int64(3), int64(2),
		int64(3), int64(2),
		int64(3),
		int64(3),
	}, args)
}

func TestPatchSQLGapSQLite(t *testing.T) {
	patch := nestedset.BuildGapPatch(nestedset.CloseGap(6, 4))

	query, args := patchSQL(patch, sqlitePlaceholder)

	assert.Equal(t,
		"UPDATE nodes SET lft = lft + CASE WHEN lft >= ? THEN ? ELSE 0 END, "+
			"rgt = rgt + CASE WHEN rgt >= ? THEN ? ELSE 0 END "+
			"WHERE lft >= ? OR rgt >= ?",
		query)
	assert.Equal(t, []interface{}{
		int64(7), int64(-4),
		int64(7), int64(-4),
		int64(7),
		int64(7),
	}, args)
}

func TestPatchSQLMovePostgres(t *testing.T) {
	plan, err := nestedset.PlanMove(2, 3, 6)
	assert.NoError(t, err)
	patch := nestedset.BuildMovePatch(plan)

	query, args := patchSQL(patch, postgresPlaceholder)

	assert.Equal(t,
		"UPDATE nodes SET lft = lft + "+
			"CASE WHEN lft BETWEEN $1 AND $2 THEN $3 WHEN lft BETWEEN $4 AND $5 THEN $6 ELSE 0 END, "+
			"rgt = rgt + "+
			"CASE WHEN rgt BETWEEN $7 AND $8 THEN $9 WHEN rgt BETWEEN $10 AND $11 THEN $12 ELSE 0 END "+
			"WHERE lft BETWEEN $13 AND $14 OR lft BETWEEN $15 AND $16 "+
			"OR rgt BETWEEN $17 AND $18 OR rgt BETWEEN $19 AND $20",
		query)
	assert.Equal(t, []interface{}{
		int64(2), int64(3), int64(2),
		int64(2), int64(5), int64(-2),
		int64(2), int64(3), int64(2),
		int64(2), int64(5), int64(-2),
		int64(2), int64(3),
		int64(2), int64(5),
		int64(2), int64(3),
		int64(2), int64(5),
	}, args)
}

// The span rule renders ahead of the displacement rule so a boundary inside
// both intervals takes the span delta in SQL exactly as DeltaFor does in
// memory.
func TestPatchSQLRuleOrderPreserved(t *testing.T) {
	plan, err := nestedset.PlanMove(4, 5, 2)
	assert.NoError(t, err)
	patch := nestedset.BuildMovePatch(plan)

	query, args := patchSQL(patch, sqlitePlaceholder)

	assert.Equal(t, nestedset.Interval{Low: 4, High: 5}, patch.Rules[0].Within)
	assert.Equal(t, nestedset.Interval{Low: 2, High: 5}, patch.Rules[1].Within)
	assert.True(t, strings.HasPrefix(query,
		"UPDATE nodes SET lft = lft + CASE WHEN lft BETWEEN ? AND ? THEN ? WHEN lft BETWEEN"))
	assert.Equal(t, []interface{}{int64(4), int64(5), int64(-2)}, args[:3])
}
