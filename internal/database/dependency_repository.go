package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/thenoetrevino/plazo/internal/models"
	"github.com/thenoetrevino/plazo/internal/types"
)

// DependencyRepo handles the task_dependencies edge table.
type DependencyRepo struct {
	db *sql.DB
}

const dependencyColumns = `d.id, d.task_id, d.depends_on_id, d.type, d.lag_days, d.created_at`

func scanDependency(row rowScanner) (*models.Dependency, error) {
	dep := &models.Dependency{}
	if err := row.Scan(&dep.ID, &dep.TaskID, &dep.DependsOnID, &dep.Type, &dep.LagDays, &dep.CreatedAt); err != nil {
		return nil, err
	}
	return dep, nil
}

// CreateDependency inserts an edge. The caller is responsible for the cycle
// and same-project checks; an identical edge yields
// models.ErrDuplicateDependency.
func (r *DependencyRepo) CreateDependency(ctx context.Context, dep *models.Dependency) (*models.Dependency, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO task_dependencies (task_id, depends_on_id, type, lag_days) VALUES (?, ?, ?, ?)`,
		dep.TaskID.ToInt(), dep.DependsOnID.ToInt(), string(dep.Type), dep.LagDays,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("task %d on task %d (%s): %w",
				dep.TaskID, dep.DependsOnID, dep.Type.Short(), models.ErrDuplicateDependency)
		}
		return nil, fmt.Errorf("failed to insert dependency %d -> %d: %w", dep.TaskID, dep.DependsOnID, mapWriteError(err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get dependency ID after insert: %w", err)
	}

	return r.GetDependency(ctx, types.DependencyID(id))
}

// GetDependency retrieves one edge by its ID
func (r *DependencyRepo) GetDependency(ctx context.Context, id types.DependencyID) (*models.Dependency, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+dependencyColumns+` FROM task_dependencies d WHERE d.id = ?`,
		id.ToInt(),
	)
	dep, err := scanDependency(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("dependency %d: %w", id, models.ErrDependencyNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get dependency %d: %w", id, err)
	}
	return dep, nil
}

// GetDependencyEdges returns the edges a task owns (Outgoing) or the edges
// pointing at it (Incoming), ordered by id
func (r *DependencyRepo) GetDependencyEdges(ctx context.Context, id types.TaskID, dir models.Direction) ([]*models.Dependency, error) {
	column := "task_id"
	if dir == models.Incoming {
		column = "depends_on_id"
	}

	return r.queryDependencies(ctx,
		`SELECT `+dependencyColumns+` FROM task_dependencies d WHERE d.`+column+` = ? ORDER BY d.id`,
		id.ToInt(),
	)
}

// GetDependenciesByProject returns every edge between tasks of a project
func (r *DependencyRepo) GetDependenciesByProject(ctx context.Context, projectID types.ProjectID) ([]*models.Dependency, error) {
	return r.queryDependencies(ctx,
		`SELECT `+dependencyColumns+`
		 FROM task_dependencies d
		 JOIN tasks t ON t.id = d.task_id
		 WHERE t.project_id = ?
		 ORDER BY d.id`,
		projectID.ToInt(),
	)
}

// DeleteDependency removes one edge
func (r *DependencyRepo) DeleteDependency(ctx context.Context, id types.DependencyID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM task_dependencies WHERE id = ?`, id.ToInt())
	if err != nil {
		return fmt.Errorf("failed to delete dependency %d: %w", id, mapWriteError(err))
	}
	return requireAffected(result, fmt.Errorf("dependency %d: %w", id, models.ErrDependencyNotFound))
}

func (r *DependencyRepo) queryDependencies(ctx context.Context, query string, args ...any) ([]*models.Dependency, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query dependencies: %w", err)
	}
	defer closeRows(rows)

	deps := make([]*models.Dependency, 0)
	for rows.Next() {
		dep, err := scanDependency(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dependency row: %w", err)
		}
		deps = append(deps, dep)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dependency rows: %w", err)
	}
	return deps, nil
}
