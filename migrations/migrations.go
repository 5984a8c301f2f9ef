// Package migrations holds the schema for the nested-set nodes table. The
// .sql files are applied to postgres through golang-migrate; the programmatic
// list below is the sqlite rendition of the same schema, applied by the
// embedded repository where no migrations directory ships.
package migrations

import (
	"context"
	"database/sql"
	"fmt"
)

// Migration represents a database migration
type Migration struct {
	ID   int
	Name string
	Up   string
	Down string
}

// Migrations is the sqlite migration list
var Migrations = []Migration{
	{
		ID:   1,
		Name: "create_nodes_table",
		Up: `
			CREATE TABLE IF NOT EXISTS nodes (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				label TEXT NOT NULL,
				parent_id INTEGER REFERENCES nodes(id),
				lft INTEGER NOT NULL,
				rgt INTEGER NOT NULL,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				CHECK (lft < rgt)
			)
		`,
		Down: `DROP TABLE IF EXISTS nodes`,
	},
	{
		ID:   2,
		Name: "create_boundary_indexes",
		Up: `
			CREATE INDEX IF NOT EXISTS idx_nodes_lft ON nodes (lft);
			CREATE INDEX IF NOT EXISTS idx_nodes_rgt ON nodes (rgt);
			CREATE INDEX IF NOT EXISTS idx_nodes_parent_id ON nodes (parent_id);
		`,
		Down: `
			DROP INDEX IF EXISTS idx_nodes_parent_id;
			DROP INDEX IF EXISTS idx_nodes_rgt;
			DROP INDEX IF EXISTS idx_nodes_lft;
		`,
	},
}

// RunMigrations executes all pending migrations
func RunMigrations(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS migrations (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("error creating migrations table: %w", err)
	}

	rows, err := db.QueryContext(ctx, "SELECT id FROM migrations ORDER BY id")
	if err != nil {
		return fmt.Errorf("error querying applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("error scanning migration id: %w", err)
		}
		applied[id] = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating migrations: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, migration := range Migrations {
		if applied[migration.ID] {
			continue
		}
		if _, err := tx.ExecContext(ctx, migration.Up); err != nil {
			return fmt.Errorf("error executing migration %d (%s): %w", migration.ID, migration.Name, err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO migrations (id, name) VALUES (?, ?)",
			migration.ID, migration.Name); err != nil {
			return fmt.Errorf("error recording migration %d (%s): %w", migration.ID, migration.Name, err)
		}
	}

	return tx.Commit()
}

// RollbackMigration rolls back the last applied migration
func RollbackMigration(ctx context.Context, db *sql.DB) error {
	var last Migration
	err := db.QueryRowContext(ctx,
		"SELECT id, name FROM migrations ORDER BY id DESC LIMIT 1",
	).Scan(&last.ID, &last.Name)
	if err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("no migrations to rollback")
		}
		return fmt.Errorf("error querying last migration: %w", err)
	}

	var migration Migration
	for _, m := range Migrations {
		if m.ID == last.ID {
			migration = m
			break
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, migration.Down); err != nil {
		return fmt.Errorf("error rolling back migration %d (%s): %w", migration.ID, migration.Name, err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM migrations WHERE id = ?", migration.ID); err != nil {
		return fmt.Errorf("error removing migration record %d (%s): %w", migration.ID, migration.Name, err)
	}

	return tx.Commit()
}
