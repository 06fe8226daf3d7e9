package cli

import (
	"github.com/thenoetrevino/plazo/internal/models"
	"github.com/thenoetrevino/plazo/internal/schedule"
	"github.com/thenoetrevino/plazo/internal/types"
)

// JSON shapes of the domain types. Dates are plain YYYY-MM-DD strings.

// ProjectView is a project as printed by the CLI
type ProjectView struct {
	ID          types.ProjectID `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	TaskCount   int             `json:"task_count"`
}

func (v ProjectView) GetID() int { return int(v.ID) }

// NewProjectView converts a project
func NewProjectView(p *models.Project, taskCount int) ProjectView {
	return ProjectView{ID: p.ID, Name: p.Name, Description: p.Description, TaskCount: taskCount}
}

// TaskView is a task as printed by the CLI
type TaskView struct {
	ID        types.TaskID    `json:"id"`
	ProjectID types.ProjectID `json:"project_id"`
	Title     string          `json:"title"`
	Start     string          `json:"start"`
	End       string          `json:"end"`
	Duration  int             `json:"duration"`
	Locked    bool            `json:"locked"`
}

func (v TaskView) GetID() int { return int(v.ID) }

// NewTaskView converts a task
func NewTaskView(t *models.Task) TaskView {
	return TaskView{
		ID:        t.ID,
		ProjectID: t.ProjectID,
		Title:     t.Title,
		Start:     t.StartDate.Format(models.DateLayout),
		End:       t.EndDate.Format(models.DateLayout),
		Duration:  t.Duration,
		Locked:    t.IsLocked,
	}
}

// NewTaskViews converts a list of tasks
func NewTaskViews(tasks []*models.Task) []TaskView {
	views := make([]TaskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, NewTaskView(t))
	}
	return views
}

// DependencyView is an edge as printed by the CLI
type DependencyView struct {
	ID          types.DependencyID `json:"id"`
	TaskID      types.TaskID       `json:"task_id"`
	DependsOnID types.TaskID       `json:"depends_on_id"`
	Type        string             `json:"type"`
	LagDays     int                `json:"lag_days"`
}

func (v DependencyView) GetID() int { return int(v.ID) }

// NewDependencyView converts an edge
func NewDependencyView(d *models.Dependency) DependencyView {
	return DependencyView{
		ID:          d.ID,
		TaskID:      d.TaskID,
		DependsOnID: d.DependsOnID,
		Type:        string(d.Type),
		LagDays:     d.LagDays,
	}
}

// NewDependencyViews converts a list of edges
func NewDependencyViews(deps []*models.Dependency) []DependencyView {
	views := make([]DependencyView, 0, len(deps))
	for _, d := range deps {
		views = append(views, NewDependencyView(d))
	}
	return views
}

// ChangeView is one rescheduled task
type ChangeView struct {
	TaskID   types.TaskID `json:"task_id"`
	OldStart string       `json:"old_start"`
	OldEnd   string       `json:"old_end"`
	NewStart string       `json:"new_start"`
	NewEnd   string       `json:"new_end"`
}

// NewChangeView converts a schedule change
func NewChangeView(c schedule.Change) ChangeView {
	return ChangeView{
		TaskID:   c.TaskID,
		OldStart: c.OldStart.Format(models.DateLayout),
		OldEnd:   c.OldEnd.Format(models.DateLayout),
		NewStart: c.NewStart.Format(models.DateLayout),
		NewEnd:   c.NewEnd.Format(models.DateLayout),
	}
}

// PropagationView summarizes a propagation result
type PropagationView struct {
	Updated []ChangeView      `json:"updated"`
	Skipped []types.TaskID    `json:"skipped,omitempty"`
	Failed  map[string]string `json:"failed,omitempty"`
}

// NewPropagationView converts a result; nil stays nil
func NewPropagationView(r *schedule.Result) *PropagationView {
	if r == nil {
		return nil
	}
	v := &PropagationView{
		Updated: make([]ChangeView, 0, len(r.Updated)),
		Skipped: r.Skipped,
	}
	for _, c := range r.Updated {
		v.Updated = append(v.Updated, NewChangeView(c))
	}
	if len(r.Failed) > 0 {
		v.Failed = make(map[string]string, len(r.Failed))
		for id, err := range r.Failed {
			v.Failed[id.String()] = err.Error()
		}
	}
	return v
}
