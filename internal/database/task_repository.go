package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/thenoetrevino/plazo/internal/models"
	"github.com/thenoetrevino/plazo/internal/types"
)

// TaskRepo handles all task-related database operations.
type TaskRepo struct {
	db *sql.DB
}

const taskColumns = `t.id, t.project_id, t.title, t.start_date, t.end_date, t.duration, t.is_locked, t.created_at, t.updated_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*models.Task, error) {
	task := &models.Task{}
	var start, end string
	if err := row.Scan(
		&task.ID, &task.ProjectID, &task.Title, &start, &end,
		&task.Duration, &task.IsLocked, &task.CreatedAt, &task.UpdatedAt,
	); err != nil {
		return nil, err
	}

	var err error
	if task.StartDate, err = parseDate(start); err != nil {
		return nil, err
	}
	if task.EndDate, err = parseDate(end); err != nil {
		return nil, err
	}
	return task, nil
}

func taskNotFound(id types.TaskID) error {
	return fmt.Errorf("task %d: %w", id, models.ErrTaskNotFound)
}

// CreateTask inserts a task and returns it with its id and timestamps
func (r *TaskRepo) CreateTask(ctx context.Context, task *models.Task) (*models.Task, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (project_id, title, start_date, end_date, duration, is_locked)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		task.ProjectID.ToInt(), task.Title,
		formatDate(task.StartDate), formatDate(task.EndDate),
		task.Duration, task.IsLocked,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert task '%s': %w", task.Title, mapWriteError(err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get task ID after insert: %w", err)
	}

	return r.GetTask(ctx, types.TaskID(id))
}

// GetTask retrieves a task by its ID
func (r *TaskRepo) GetTask(ctx context.Context, id types.TaskID) (*models.Task, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks t WHERE t.id = ?`,
		id.ToInt(),
	)
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, taskNotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task %d: %w", id, err)
	}
	return task, nil
}

// GetTasksByProject retrieves all tasks of a project ordered by start date
func (r *TaskRepo) GetTasksByProject(ctx context.Context, projectID types.ProjectID) ([]*models.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+taskColumns+`
		 FROM tasks t
		 WHERE t.project_id = ?
		 ORDER BY t.start_date, t.id`,
		projectID.ToInt(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks for project %d: %w", projectID, err)
	}
	defer closeRows(rows)

	tasks := make([]*models.Task, 0, 16)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task rows: %w", err)
	}
	return tasks, nil
}

// GetTaskDetail retrieves a task with its project name and the edges on
// both sides of it
func (r *TaskRepo) GetTaskDetail(ctx context.Context, id types.TaskID) (*models.TaskDetail, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+`, p.name
		 FROM tasks t
		 JOIN projects p ON p.id = t.project_id
		 WHERE t.id = ?`,
		id.ToInt(),
	)

	detail := &models.TaskDetail{}
	var start, end string
	err := row.Scan(
		&detail.ID, &detail.ProjectID, &detail.Title, &start, &end,
		&detail.Duration, &detail.IsLocked, &detail.CreatedAt, &detail.UpdatedAt,
		&detail.ProjectName,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, taskNotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task detail %d: %w", id, err)
	}
	if detail.StartDate, err = parseDate(start); err != nil {
		return nil, err
	}
	if detail.EndDate, err = parseDate(end); err != nil {
		return nil, err
	}

	if detail.Predecessors, err = r.getDependencyReferences(ctx, id, models.Outgoing); err != nil {
		return nil, err
	}
	if detail.Dependents, err = r.getDependencyReferences(ctx, id, models.Incoming); err != nil {
		return nil, err
	}
	return detail, nil
}

// getDependencyReferences lists the edges around a task together with the
// task on the far side of each edge
func (r *TaskRepo) getDependencyReferences(ctx context.Context, id types.TaskID, dir models.Direction) ([]*models.DependencyReference, error) {
	// Outgoing: far side is depends_on_id. Incoming: far side is task_id.
	query := `
		SELECT d.id, d.type, d.lag_days, o.id, o.title, o.start_date, o.end_date, o.is_locked
		FROM task_dependencies d
		JOIN tasks o ON o.id = d.depends_on_id
		WHERE d.task_id = ?
		ORDER BY d.id`
	if dir == models.Incoming {
		query = `
		SELECT d.id, d.type, d.lag_days, o.id, o.title, o.start_date, o.end_date, o.is_locked
		FROM task_dependencies d
		JOIN tasks o ON o.id = d.task_id
		WHERE d.depends_on_id = ?
		ORDER BY d.id`
	}

	rows, err := r.db.QueryContext(ctx, query, id.ToInt())
	if err != nil {
		return nil, fmt.Errorf("failed to query %s references for task %d: %w", dir, id, err)
	}
	defer closeRows(rows)

	refs := make([]*models.DependencyReference, 0)
	for rows.Next() {
		ref := &models.DependencyReference{}
		var start, end string
		if err := rows.Scan(
			&ref.DependencyID, &ref.Type, &ref.LagDays,
			&ref.Task.ID, &ref.Task.Title, &start, &end, &ref.Task.IsLocked,
		); err != nil {
			return nil, fmt.Errorf("failed to scan dependency reference: %w", err)
		}
		if ref.Task.StartDate, err = parseDate(start); err != nil {
			return nil, err
		}
		if ref.Task.EndDate, err = parseDate(end); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dependency references: %w", err)
	}
	return refs, nil
}

// UpdateTaskTitle renames a task
func (r *TaskRepo) UpdateTaskTitle(ctx context.Context, id types.TaskID, title string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET title = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		title, id.ToInt(),
	)
	if err != nil {
		return fmt.Errorf("failed to update task %d: %w", id, mapWriteError(err))
	}
	return requireAffected(result, taskNotFound(id))
}

// UpdateTaskDates writes a user-initiated date change, including the new
// duration
func (r *TaskRepo) UpdateTaskDates(ctx context.Context, id types.TaskID, start, end time.Time, duration int) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE tasks
		 SET start_date = ?, end_date = ?, duration = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		formatDate(start), formatDate(end), duration, id.ToInt(),
	)
	if err != nil {
		return fmt.Errorf("failed to update dates of task %d: %w", id, mapWriteError(err))
	}
	return requireAffected(result, taskNotFound(id))
}

// UpdateSchedule writes dates computed by propagation. Duration is left as
// stored. A missing task yields models.ErrTaskNotFound and a lock timeout
// yields models.ErrStoreWriteConflict.
func (r *TaskRepo) UpdateSchedule(ctx context.Context, id types.TaskID, start, end time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE tasks
		 SET start_date = ?, end_date = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		formatDate(start), formatDate(end), id.ToInt(),
	)
	if err != nil {
		return fmt.Errorf("failed to update schedule of task %d: %w", id, mapWriteError(err))
	}
	return requireAffected(result, taskNotFound(id))
}

// SetTaskLocked pins or releases a task
func (r *TaskRepo) SetTaskLocked(ctx context.Context, id types.TaskID, locked bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET is_locked = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		locked, id.ToInt(),
	)
	if err != nil {
		return fmt.Errorf("failed to set lock on task %d: %w", id, mapWriteError(err))
	}
	return requireAffected(result, taskNotFound(id))
}

// DeleteTask removes a task; its dependency edges are removed by cascade
func (r *TaskRepo) DeleteTask(ctx context.Context, id types.TaskID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id.ToInt())
	if err != nil {
		return fmt.Errorf("failed to delete task %d: %w", id, mapWriteError(err))
	}
	return requireAffected(result, taskNotFound(id))
}
