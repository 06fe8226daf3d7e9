package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is applied in order on every start; each statement is idempotent
var schema = []struct {
	name string
	stmt string
}{
	{"projects table", `
		CREATE TABLE IF NOT EXISTS projects (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`},
	{"tasks table", `
		CREATE TABLE IF NOT EXISTS tasks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			project_id INTEGER NOT NULL,
			title TEXT NOT NULL,
			start_date TEXT NOT NULL,
			end_date TEXT NOT NULL,
			duration INTEGER NOT NULL DEFAULT 1 CHECK (duration >= 1),
			is_locked INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE
		)`},
	{"tasks project index", `
		CREATE INDEX IF NOT EXISTS idx_tasks_project
		ON tasks(project_id, start_date)`},
	// task_id depends on depends_on_id. Parallel edges of different types are
	// allowed; an identical edge is not.
	{"task_dependencies table", `
		CREATE TABLE IF NOT EXISTS task_dependencies (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			task_id INTEGER NOT NULL,
			depends_on_id INTEGER NOT NULL,
			type TEXT NOT NULL DEFAULT 'FINISH_TO_START',
			lag_days INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (task_id, depends_on_id, type),
			CHECK (task_id != depends_on_id),
			FOREIGN KEY (task_id) REFERENCES tasks(id) ON DELETE CASCADE,
			FOREIGN KEY (depends_on_id) REFERENCES tasks(id) ON DELETE CASCADE
		)`},
	{"dependents index", `
		CREATE INDEX IF NOT EXISTS idx_task_dependencies_depends_on
		ON task_dependencies(depends_on_id)`},
}

// runMigrations creates the database schema
func runMigrations(ctx context.Context, db *sql.DB) error {
	return withTx(ctx, db, func(tx *sql.Tx) error {
		for _, m := range schema {
			if _, err := tx.ExecContext(ctx, m.stmt); err != nil {
				return fmt.Errorf("failed to create %s: %w", m.name, err)
			}
		}
		return nil
	})
}
