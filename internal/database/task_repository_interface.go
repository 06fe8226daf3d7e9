package database

import (
	"context"
	"time"

	"github.com/thenoetrevino/plazo/internal/models"
	"github.com/thenoetrevino/plazo/internal/types"
)

// TaskReader defines read operations for tasks.
type TaskReader interface {
	GetTask(ctx context.Context, id types.TaskID) (*models.Task, error)
	GetTasksByProject(ctx context.Context, projectID types.ProjectID) ([]*models.Task, error)
	GetTaskDetail(ctx context.Context, id types.TaskID) (*models.TaskDetail, error)
}

// TaskWriter defines write operations for tasks.
type TaskWriter interface {
	CreateTask(ctx context.Context, task *models.Task) (*models.Task, error)
	UpdateTaskTitle(ctx context.Context, id types.TaskID, title string) error
	UpdateTaskDates(ctx context.Context, id types.TaskID, start, end time.Time, duration int) error
	UpdateSchedule(ctx context.Context, id types.TaskID, start, end time.Time) error
	SetTaskLocked(ctx context.Context, id types.TaskID, locked bool) error
	DeleteTask(ctx context.Context, id types.TaskID) error
}

// TaskRepository combines all task-related operations.
type TaskRepository interface {
	TaskReader
	TaskWriter
}
