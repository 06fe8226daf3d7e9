package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/thenoetrevino/plazo/internal/models"
	"github.com/thenoetrevino/plazo/internal/types"
)

// ProjectRepo handles all project-related database operations.
type ProjectRepo struct {
	db *sql.DB
}

const projectColumns = `id, name, description, created_at, updated_at`

// CreateProject inserts a new project
func (r *ProjectRepo) CreateProject(ctx context.Context, name, description string) (*models.Project, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO projects (name, description) VALUES (?, ?)`,
		name, description,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert project '%s': %w", name, mapWriteError(err))
	}

	projectID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get project ID after insert: %w", err)
	}

	return r.GetProjectByID(ctx, types.ProjectID(projectID))
}

// GetProjectByID retrieves a project by its ID
func (r *ProjectRepo) GetProjectByID(ctx context.Context, id types.ProjectID) (*models.Project, error) {
	project := &models.Project{}
	err := r.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = ?`,
		id.ToInt(),
	).Scan(&project.ID, &project.Name, &project.Description, &project.CreatedAt, &project.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("project %d: %w", id, models.ErrProjectNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project %d: %w", id, err)
	}
	return project, nil
}

// GetAllProjects retrieves all projects ordered by ID
func (r *ProjectRepo) GetAllProjects(ctx context.Context) ([]*models.Project, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query all projects: %w", err)
	}
	defer closeRows(rows)

	projects := make([]*models.Project, 0, 10)
	for rows.Next() {
		project := &models.Project{}
		if err := rows.Scan(&project.ID, &project.Name, &project.Description, &project.CreatedAt, &project.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project row: %w", err)
		}
		projects = append(projects, project)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}
	return projects, nil
}

// UpdateProject updates a project's name and description
func (r *ProjectRepo) UpdateProject(ctx context.Context, id types.ProjectID, name, description string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE projects SET name = ?, description = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		name, description, id.ToInt(),
	)
	if err != nil {
		return fmt.Errorf("failed to update project %d: %w", id, mapWriteError(err))
	}
	return requireAffected(result, fmt.Errorf("project %d: %w", id, models.ErrProjectNotFound))
}

// DeleteProject removes a project; its tasks and their edges go with it
func (r *ProjectRepo) DeleteProject(ctx context.Context, id types.ProjectID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id.ToInt())
	if err != nil {
		return fmt.Errorf("failed to delete project %d: %w", id, mapWriteError(err))
	}
	return requireAffected(result, fmt.Errorf("project %d: %w", id, models.ErrProjectNotFound))
}

// GetTaskCount returns the total number of tasks in a project
func (r *ProjectRepo) GetTaskCount(ctx context.Context, projectID types.ProjectID) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tasks WHERE project_id = ?`,
		projectID.ToInt(),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get task count for project %d: %w", projectID, err)
	}
	return count, nil
}

// requireAffected returns notFound when a write touched no rows
func requireAffected(result sql.Result, notFound error) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
