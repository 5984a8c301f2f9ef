package repository

import (
	"fmt"
	"strings"

	"github.com/ammiranda/nestedset_service/nestedset"
)

// patchSQL renders a range patch as one conditional UPDATE over both boundary
// columns. Rule order becomes WHEN order, so first-match-wins carries over to
// the CASE expression. placeholder formats the n-th bind parameter (1-based),
// which covers both postgres ($n) and sqlite (?) syntax.
func patchSQL(patch nestedset.RangePatch, placeholder func(int) string) (string, []interface{}) {
	var args []interface{}
	bind := func(v int64) string {
		args = append(args, v)
		return placeholder(len(args))
	}

	caseExpr := func(col string) string {
		var b strings.Builder
		b.WriteString("CASE")
		for _, r := range patch.Rules {
			if r.Within.High == nestedset.Unbounded {
				fmt.Fprintf(&b, " WHEN %s >= %s THEN %s", col, bind(r.Within.Low), bind(r.Delta))
			} else {
				fmt.Fprintf(&b, " WHEN %s BETWEEN %s AND %s THEN %s",
					col, bind(r.Within.Low), bind(r.Within.High), bind(r.Delta))
			}
		}
		b.WriteString(" ELSE 0 END")
		return b.String()
	}

	whereExpr := func(col string) string {
		conds := make([]string, 0, len(patch.Rules))
		for _, r := range patch.Rules {
			if r.Within.High == nestedset.Unbounded {
				conds = append(conds, fmt.Sprintf("%s >= %s", col, bind(r.Within.Low)))
			} else {
				conds = append(conds, fmt.Sprintf("%s BETWEEN %s AND %s",
					col, bind(r.Within.Low), bind(r.Within.High)))
			}
		}
		return strings.Join(conds, " OR ")
	}

	lftCase := caseExpr("lft")
	rgtCase := caseExpr("rgt")
	lftWhere := whereExpr("lft")
	rgtWhere := whereExpr("rgt")

	query := fmt.Sprintf(
		"UPDATE nodes SET lft = lft + %s, rgt = rgt + %s WHERE %s OR %s",
		lftCase, rgtCase, lftWhere, rgtWhere,
	)
	return query, args
}
