package nestedset

import "context"

// Boundaries is the authoritative placement of a row as the store sees it.
type Boundaries struct {
	Lft      int64
	Rgt      int64
	ParentID *int64
}

// TreeStore is the transactional relational substrate the engine mutates
// through. Implementations must make each call atomic; the engine performs no
// locking of its own and relies on the store's transaction discipline to keep
// concurrent structural mutations from interleaving between its reads and
// writes. ApplyRangePatch in particular must be a single statement, never a
// row-by-row loop.
type TreeStore interface {
	// MaxBoundary returns the forest's current high-water mark, 0 when empty.
	MaxBoundary(ctx context.Context) (int64, error)

	// ReadBoundaries returns the persisted boundaries and parent link of a
	// row. Returns ErrNodeNotFound if the row does not exist.
	ReadBoundaries(ctx context.Context, id int64) (Boundaries, error)

	// ApplyRangePatch applies the patch to every row in one atomic statement
	// and returns the number of rows affected.
	ApplyRangePatch(ctx context.Context, patch RangePatch) (int64, error)

	// DeleteRange removes every row whose left boundary falls within the
	// closed interval [lft, rgt] and returns the number of rows removed.
	DeleteRange(ctx context.Context, lft, rgt int64) (int64, error)

	// InsertRow persists a new row with engine-assigned boundaries and
	// returns its identity.
	InsertRow(ctx context.Context, label string, parentID *int64, lft, rgt int64) (int64, error)

	// WriteParent persists the parent link of an existing row.
	WriteParent(ctx context.Context, id int64, parentID *int64) error

	// CascadesDelete reports whether deleting a row also removes the rows
	// parented under it. When true the engine deletes only the subtree root
	// row; the gap-closing pass runs either way.
	CascadesDelete() bool
}
