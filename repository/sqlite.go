package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ammiranda/nestedset_service/migrations"
	"github.com/ammiranda/nestedset_service/nestedset"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteRepository implements Repository using SQLite
type SQLiteRepository struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteRepository creates a new SQLite repository instance backed by a
// database file under the user's home directory.
func NewSQLiteRepository() Repository {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	dataDir := filepath.Join(homeDir, ".nestedset")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		// Fallback to current directory if home directory is not accessible
		dataDir = "."
	}

	return &SQLiteRepository{
		dbPath: filepath.Join(dataDir, "nestedset.db"),
	}
}

// NewSQLiteRepositoryAt creates a SQLite repository at an explicit path,
// which tests point at a temp directory.
func NewSQLiteRepositoryAt(path string) Repository {
	return &SQLiteRepository{dbPath: path}
}

// Initialize opens the database and applies migrations
func (r *SQLiteRepository) Initialize(ctx context.Context) error {
	db, err := sql.Open("sqlite3", r.dbPath)
	if err != nil {
		return err
	}

	if err := migrations.RunMigrations(ctx, db); err != nil {
		db.Close()
		return fmt.Errorf("error running migrations: %w", err)
	}

	r.db = db
	return nil
}

// Cleanup closes the database connection
func (r *SQLiteRepository) Cleanup(ctx context.Context) error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// MaxBoundary returns the forest's current high-water mark
func (r *SQLiteRepository) MaxBoundary(ctx context.Context) (int64, error) {
	var max int64
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(rgt), 0) FROM nodes",
	).Scan(&max)
	if err != nil {
		return 0, err
	}
	return max, nil
}

// ReadBoundaries returns the persisted placement of a node
func (r *SQLiteRepository) ReadBoundaries(ctx context.Context, id int64) (nestedset.Boundaries, error) {
	var b nestedset.Boundaries
	var parentID sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		"SELECT lft, rgt, parent_id FROM nodes WHERE id = ?",
		id,
	).Scan(&b.Lft, &b.Rgt, &parentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nestedset.Boundaries{}, ErrNodeNotFound
		}
		return nestedset.Boundaries{}, err
	}
	if parentID.Valid {
		b.ParentID = &parentID.Int64
	}
	return b, nil
}

// ApplyRangePatch applies the boundary shifts as a single UPDATE
func (r *SQLiteRepository) ApplyRangePatch(ctx context.Context, patch nestedset.RangePatch) (int64, error) {
	query, args := patchSQL(patch, func(int) string { return "?" })
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// DeleteRange removes all rows whose left boundary falls within [lft, rgt]
func (r *SQLiteRepository) DeleteRange(ctx context.Context, lft, rgt int64) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM nodes WHERE lft BETWEEN ? AND ?",
		lft, rgt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// InsertRow persists a new node row with engine-assigned boundaries
func (r *SQLiteRepository) InsertRow(ctx context.Context, label string, parentID *int64, lft, rgt int64) (int64, error) {
	if label == "" {
		return 0, ErrInvalidInput
	}
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO nodes (label, parent_id, lft, rgt) VALUES (?, ?, ?, ?)",
		label, parentID, lft, rgt,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// WriteParent persists the parent link of an existing row
func (r *SQLiteRepository) WriteParent(ctx context.Context, id int64, parentID *int64) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE nodes SET parent_id = ? WHERE id = ?",
		parentID, id,
	)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNodeNotFound
	}
	return nil
}

// CascadesDelete reports false: sqlite does not enforce the foreign key by
// default, so the engine deletes the whole boundary range explicitly.
func (r *SQLiteRepository) CascadesDelete() bool {
	return false
}

// GetNode retrieves a node by ID
func (r *SQLiteRepository) GetNode(ctx context.Context, id int64) (*Node, error) {
	var node Node
	var parentID sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		"SELECT id, label, parent_id, lft, rgt FROM nodes WHERE id = ?", id,
	).Scan(&node.ID, &node.Label, &parentID, &node.Lft, &node.Rgt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNodeNotFound
		}
		return nil, err
	}
	if parentID.Valid {
		node.ParentID = &parentID.Int64
	}
	return &node, nil
}

// GetAllNodes retrieves all nodes in tree order
func (r *SQLiteRepository) GetAllNodes(ctx context.Context) ([]*Node, error) {
	return r.queryNodes(ctx, "SELECT id, label, parent_id, lft, rgt FROM nodes ORDER BY lft")
}

// UpdateLabel renames a node
func (r *SQLiteRepository) UpdateLabel(ctx context.Context, id int64, label string) error {
	if label == "" {
		return ErrInvalidInput
	}
	result, err := r.db.ExecContext(ctx, "UPDATE nodes SET label = ? WHERE id = ?", label, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNodeNotFound
	}
	return nil
}

// DescendantsOf returns the rows strictly inside the node's interval
func (r *SQLiteRepository) DescendantsOf(ctx context.Context, id int64) ([]*Node, error) {
	b, err := r.ReadBoundaries(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.queryNodes(ctx,
		"SELECT id, label, parent_id, lft, rgt FROM nodes WHERE lft > ? AND lft < ? ORDER BY lft",
		b.Lft, b.Rgt,
	)
}

// AncestorsOf returns the rows whose intervals strictly contain the node's
func (r *SQLiteRepository) AncestorsOf(ctx context.Context, id int64) ([]*Node, error) {
	b, err := r.ReadBoundaries(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.queryNodes(ctx,
		"SELECT id, label, parent_id, lft, rgt FROM nodes WHERE lft < ? AND rgt > ? ORDER BY lft",
		b.Lft, b.Rgt,
	)
}

// ChildrenOf returns the rows parented directly under the node
func (r *SQLiteRepository) ChildrenOf(ctx context.Context, id int64) ([]*Node, error) {
	return r.queryNodes(ctx,
		"SELECT id, label, parent_id, lft, rgt FROM nodes WHERE parent_id = ? ORDER BY lft",
		id,
	)
}

func (r *SQLiteRepository) queryNodes(ctx context.Context, query string, args ...interface{}) ([]*Node, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var nodes []*Node
	for rows.Next() {
		var node Node
		var parentID sql.NullInt64
		if err := rows.Scan(&node.ID, &node.Label, &parentID, &node.Lft, &node.Rgt); err != nil {
			return nil, err
		}
		if parentID.Valid {
			node.ParentID = &parentID.Int64
		}
		nodes = append(nodes, &node)
	}
	return nodes, rows.Err()
}
