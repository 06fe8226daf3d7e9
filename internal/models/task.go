package models

import (
	"time"

	"github.com/thenoetrevino/plazo/internal/types"
)

// Task is a scheduled unit of work inside a project.
// StartDate and EndDate are calendar dates at UTC midnight; Duration counts
// working days and is never below 1.
type Task struct {
	ID        types.TaskID
	ProjectID types.ProjectID
	Title     string
	StartDate time.Time
	EndDate   time.Time
	Duration  int
	IsLocked  bool // Locked tasks are never written by propagation
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GetID lets the CLI formatter print the id in quiet mode
func (t *Task) GetID() int {
	return int(t.ID)
}

// TaskReference is a lightweight view of a predecessor or dependent task,
// used when listing the edges around a task
type TaskReference struct {
	ID        types.TaskID
	Title     string
	StartDate time.Time
	EndDate   time.Time
	IsLocked  bool
}

// TaskDetail is a DTO for the full task view
type TaskDetail struct {
	Task
	ProjectName  string
	Predecessors []*DependencyReference // Edges this task depends on
	Dependents   []*DependencyReference // Edges that depend on this task
}

// DependencyReference pairs an edge with the task on its far side
type DependencyReference struct {
	DependencyID types.DependencyID
	Type         DependencyType
	LagDays      int
	Task         TaskReference
}
