package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ammiranda/nestedset_service/config"
	"github.com/ammiranda/nestedset_service/nestedset"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
)

// PostgresRepository implements Repository using PostgreSQL
type PostgresRepository struct {
	db     *sql.DB
	config *config.DatabaseConfig
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(cfgProvider config.Provider) (*PostgresRepository, error) {
	cfg, err := config.GetDatabaseConfig(context.Background(), cfgProvider)
	if err != nil {
		return nil, fmt.Errorf("failed to get database config: %w", err)
	}
	return &PostgresRepository{config: cfg}, nil
}

// Initialize opens the connection pool and runs migrations
func (r *PostgresRepository) Initialize(ctx context.Context) error {
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		r.config.Host,
		r.config.Port,
		r.config.User,
		r.config.Password,
		r.config.DBName,
		r.config.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("error pinging database: %w", err)
	}

	if err := r.runMigrations(db); err != nil {
		db.Close()
		return fmt.Errorf("error running migrations: %w", err)
	}

	r.db = db
	return nil
}

// runMigrations executes database migrations
func (r *PostgresRepository) runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("error creating migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("error creating migration instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("error running migrations: %w", err)
	}

	return nil
}

// Cleanup closes the database connection
func (r *PostgresRepository) Cleanup(ctx context.Context) error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// MaxBoundary returns the forest's current high-water mark
func (r *PostgresRepository) MaxBoundary(ctx context.Context) (int64, error) {
	var max int64
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(rgt), 0) FROM nodes",
	).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("error reading max boundary: %w", err)
	}
	return max, nil
}

// ReadBoundaries returns the persisted placement of a node
func (r *PostgresRepository) ReadBoundaries(ctx context.Context, id int64) (nestedset.Boundaries, error) {
	var b nestedset.Boundaries
	var parentID sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		"SELECT lft, rgt, parent_id FROM nodes WHERE id = $1",
		id,
	).Scan(&b.Lft, &b.Rgt, &parentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nestedset.Boundaries{}, ErrNodeNotFound
		}
		return nestedset.Boundaries{}, fmt.Errorf("error reading boundaries: %w", err)
	}
	if parentID.Valid {
		b.ParentID = &parentID.Int64
	}
	return b, nil
}

// ApplyRangePatch applies the boundary shifts as a single UPDATE
func (r *PostgresRepository) ApplyRangePatch(ctx context.Context, patch nestedset.RangePatch) (int64, error) {
	query, args := patchSQL(patch, func(n int) string { return fmt.Sprintf("$%d", n) })
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("error applying range patch: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("error getting rows affected: %w", err)
	}
	return affected, nil
}

// DeleteRange removes all rows whose left boundary falls within [lft, rgt]
func (r *PostgresRepository) DeleteRange(ctx context.Context, lft, rgt int64) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM nodes WHERE lft BETWEEN $1 AND $2",
		lft, rgt,
	)
	if err != nil {
		return 0, fmt.Errorf("error deleting range: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("error getting rows affected: %w", err)
	}
	return affected, nil
}

// InsertRow persists a new node row with engine-assigned boundaries
func (r *PostgresRepository) InsertRow(ctx context.Context, label string, parentID *int64, lft, rgt int64) (int64, error) {
	if label == "" {
		return 0, ErrInvalidInput
	}
	var id int64
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO nodes (label, parent_id, lft, rgt) VALUES ($1, $2, $3, $4) RETURNING id",
		label, parentID, lft, rgt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("error creating node: %w", err)
	}
	return id, nil
}

// WriteParent persists the parent link of an existing row
func (r *PostgresRepository) WriteParent(ctx context.Context, id int64, parentID *int64) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE nodes SET parent_id = $1 WHERE id = $2",
		parentID, id,
	)
	if err != nil {
		return fmt.Errorf("error updating parent: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNodeNotFound
	}
	return nil
}

// CascadesDelete reports that the parent_id foreign key cascades deletes
func (r *PostgresRepository) CascadesDelete() bool {
	return true
}

// GetNode retrieves a node by ID
func (r *PostgresRepository) GetNode(ctx context.Context, id int64) (*Node, error) {
	var node Node
	var parentID sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		"SELECT id, label, parent_id, lft, rgt FROM nodes WHERE id = $1",
		id,
	).Scan(&node.ID, &node.Label, &parentID, &node.Lft, &node.Rgt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNodeNotFound
		}
		return nil, fmt.Errorf("error getting node: %w", err)
	}
	if parentID.Valid {
		node.ParentID = &parentID.Int64
	}
	return &node, nil
}

// GetAllNodes retrieves all nodes in tree order
func (r *PostgresRepository) GetAllNodes(ctx context.Context) ([]*Node, error) {
	return r.queryNodes(ctx, "SELECT id, label, parent_id, lft, rgt FROM nodes ORDER BY lft")
}

// UpdateLabel renames a node
func (r *PostgresRepository) UpdateLabel(ctx context.Context, id int64, label string) error {
	if label == "" {
		return ErrInvalidInput
	}
	result, err := r.db.ExecContext(ctx,
		"UPDATE nodes SET label = $1 WHERE id = $2",
		label, id,
	)
	if err != nil {
		return fmt.Errorf("error updating node: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNodeNotFound
	}
	return nil
}

// DescendantsOf returns the rows strictly inside the node's interval
func (r *PostgresRepository) DescendantsOf(ctx context.Context, id int64) ([]*Node, error) {
	b, err := r.ReadBoundaries(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.queryNodes(ctx,
		"SELECT id, label, parent_id, lft, rgt FROM nodes WHERE lft > $1 AND lft < $2 ORDER BY lft",
		b.Lft, b.Rgt,
	)
}

// AncestorsOf returns the rows whose intervals strictly contain the node's
func (r *PostgresRepository) AncestorsOf(ctx context.Context, id int64) ([]*Node, error) {
	b, err := r.ReadBoundaries(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.queryNodes(ctx,
		"SELECT id, label, parent_id, lft, rgt FROM nodes WHERE lft < $1 AND rgt > $2 ORDER BY lft",
		b.Lft, b.Rgt,
	)
}

// ChildrenOf returns the rows parented directly under the node
func (r *PostgresRepository) ChildrenOf(ctx context.Context, id int64) ([]*Node, error) {
	return r.queryNodes(ctx,
		"SELECT id, label, parent_id, lft, rgt FROM nodes WHERE parent_id = $1 ORDER BY lft",
		id,
	)
}

func (r *PostgresRepository) queryNodes(ctx context.Context, query string, args ...interface{}) ([]*Node, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying nodes: %w", err)
	}
	defer rows.Close()

	var nodes []*Node
	for rows.Next() {
		var node Node
		var parentID sql.NullInt64
		if err := rows.Scan(&node.ID, &node.Label, &parentID, &node.Lft, &node.Rgt); err != nil {
			return nil, fmt.Errorf("error scanning node: %w", err)
		}
		if parentID.Valid {
			node.ParentID = &parentID.Int64
		}
		nodes = append(nodes, &node)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating nodes: %w", err)
	}
	return nodes, nil
}
