package task

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/thenoetrevino/plazo/internal/database"
	"github.com/thenoetrevino/plazo/internal/events"
	"github.com/thenoetrevino/plazo/internal/models"
	"github.com/thenoetrevino/plazo/internal/schedule"
	"github.com/thenoetrevino/plazo/internal/types"
	"github.com/thenoetrevino/plazo/internal/workday"
)

// Service defines all task-related business operations
type Service interface {
	// Read operations
	GetTask(ctx context.Context, taskID types.TaskID) (*models.Task, error)
	GetTaskDetail(ctx context.Context, taskID types.TaskID) (*models.TaskDetail, error)
	ListTasks(ctx context.Context, projectID types.ProjectID) ([]*models.Task, error)

	// Write operations
	CreateTask(ctx context.Context, req CreateTaskRequest) (*models.Task, error)
	UpdateTask(ctx context.Context, req UpdateTaskRequest) error
	DeleteTask(ctx context.Context, taskID types.TaskID) error

	// Scheduling
	ApplyScheduleChange(ctx context.Context, req ApplyScheduleChangeRequest) (*ScheduleChangeResult, error)
	SetLocked(ctx context.Context, taskID types.TaskID, locked bool) (*models.Task, error)
	Reschedule(ctx context.Context, taskID types.TaskID) (*ScheduleChangeResult, error)
	PreviewSchedule(ctx context.Context, taskID types.TaskID) (*schedule.Change, error)
}

// CreateTaskRequest encapsulates all data needed to create a task.
// When End is set it fixes the duration; otherwise Duration is used and
// 0 means the minimum of one working day.
type CreateTaskRequest struct {
	ProjectID types.ProjectID
	Title     string
	Start     time.Time
	End       time.Time
	Duration  int
	Locked    bool
}

// UpdateTaskRequest encapsulates the editable non-schedule fields.
// Nil fields are left unchanged.
type UpdateTaskRequest struct {
	TaskID types.TaskID
	Title  *string
}

// ApplyScheduleChangeRequest is a user edit of a task's dates.
// A zero End keeps the stored duration and moves the task as a block.
type ApplyScheduleChangeRequest struct {
	TaskID types.TaskID
	Start  time.Time
	End    time.Time
}

// ScheduleChangeResult is the edited task together with the propagation it
// triggered. Propagation is nil when nothing had to be propagated.
type ScheduleChangeResult struct {
	Task        *models.Task
	Propagation *schedule.Result
}

// service implements Service interface
type service struct {
	repo     database.DataStore
	engine   *schedule.Engine
	notifier *events.Notifier
}

// NewService creates a new task service
func NewService(repo database.DataStore, engine *schedule.Engine, notifier *events.Notifier) Service {
	return &service{
		repo:     repo,
		engine:   engine,
		notifier: notifier,
	}
}

// GetTask retrieves a single task
func (s *service) GetTask(ctx context.Context, taskID types.TaskID) (*models.Task, error) {
	if !taskID.Valid() {
		return nil, ErrInvalidTaskID
	}
	return s.repo.GetTask(ctx, taskID)
}

// GetTaskDetail retrieves a task with the edges on both sides of it
func (s *service) GetTaskDetail(ctx context.Context, taskID types.TaskID) (*models.TaskDetail, error) {
	if !taskID.Valid() {
		return nil, ErrInvalidTaskID
	}
	return s.repo.GetTaskDetail(ctx, taskID)
}

// ListTasks retrieves the tasks of a project ordered by start date
func (s *service) ListTasks(ctx context.Context, projectID types.ProjectID) ([]*models.Task, error) {
	if !projectID.Valid() {
		return nil, ErrInvalidProjectID
	}
	if _, err := s.repo.GetProjectByID(ctx, projectID); err != nil {
		return nil, err
	}
	return s.repo.GetTasksByProject(ctx, projectID)
}

// CreateTask creates a new task with validation.
// The start is moved forward to a working day.
func (s *service) CreateTask(ctx context.Context, req CreateTaskRequest) (*models.Task, error) {
	title := strings.TrimSpace(req.Title)
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if !req.ProjectID.Valid() {
		return nil, ErrInvalidProjectID
	}
	if req.Start.IsZero() {
		return nil, ErrMissingStartDate
	}

	start := workday.NextWorkingDay(req.Start)
	var duration int
	if !req.End.IsZero() {
		d, err := spanDuration(req.Start, start, req.End)
		if err != nil {
			return nil, err
		}
		duration = d
	} else {
		if req.Duration < 0 || req.Duration > models.MaxDuration {
			return nil, ErrInvalidDuration
		}
		duration = workday.ClampDuration(req.Duration)
	}
	end := workday.EndDate(start, duration)
	if err := models.CheckScheduleBounds(start, end); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetProjectByID(ctx, req.ProjectID); err != nil {
		return nil, err
	}

	task, err := s.repo.CreateTask(ctx, &models.Task{
		ProjectID: req.ProjectID,
		Title:     title,
		StartDate: start,
		EndDate:   end,
		Duration:  duration,
		IsLocked:  req.Locked,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.notifier.Notify(ctx, events.EventTaskChanged, task.ProjectID, task.ID)
	return task, nil
}

// UpdateTask applies the non-nil fields of req
func (s *service) UpdateTask(ctx context.Context, req UpdateTaskRequest) error {
	if !req.TaskID.Valid() {
		return ErrInvalidTaskID
	}
	if req.Title == nil {
		return nil
	}

	title := strings.TrimSpace(*req.Title)
	if err := validateTitle(title); err != nil {
		return err
	}

	task, err := s.repo.GetTask(ctx, req.TaskID)
	if err != nil {
		return err
	}
	if err := s.repo.UpdateTaskTitle(ctx, req.TaskID, title); err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	s.notifier.Notify(ctx, events.EventTaskChanged, task.ProjectID, task.ID)
	return nil
}

// DeleteTask removes a task together with every edge touching it.
// Former dependents keep their dates.
func (s *service) DeleteTask(ctx context.Context, taskID types.TaskID) error {
	if !taskID.Valid() {
		return ErrInvalidTaskID
	}

	task, err := s.repo.GetTask(ctx, taskID)
	if err != nil {
		return err
	}

	unlock := s.engine.LockProject(task.ProjectID)
	err = s.repo.DeleteTask(ctx, taskID)
	unlock()
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.notifier.Notify(ctx, events.EventTaskChanged, task.ProjectID, task.ID)
	return nil
}

// ApplyScheduleChange stores a user edit of a task's dates and pushes the
// consequences to its dependents.
//
// The start is moved forward to a working day and the duration is derived
// from the working days in the new span. A locked task accepts the edit but
// never propagates. When the write succeeds but some dependents could not be
// rescheduled, the result is returned together with an error wrapping
// models.ErrPropagationIncomplete.
func (s *service) ApplyScheduleChange(ctx context.Context, req ApplyScheduleChangeRequest) (*ScheduleChangeResult, error) {
	if !req.TaskID.Valid() {
		return nil, ErrInvalidTaskID
	}
	if req.Start.IsZero() {
		return nil, ErrMissingStartDate
	}

	current, err := s.repo.GetTask(ctx, req.TaskID)
	if err != nil {
		return nil, err
	}

	start := workday.NextWorkingDay(req.Start)
	duration := current.Duration
	if !req.End.IsZero() {
		if duration, err = spanDuration(req.Start, start, req.End); err != nil {
			return nil, err
		}
	}
	end := workday.EndDate(start, duration)
	if err := models.CheckScheduleBounds(start, end); err != nil {
		return nil, err
	}

	if start.Equal(current.StartDate) && end.Equal(current.EndDate) && duration == current.Duration {
		return &ScheduleChangeResult{Task: current}, nil
	}

	unlock := s.engine.LockProject(current.ProjectID)
	err = s.repo.UpdateTaskDates(ctx, req.TaskID, start, end, duration)
	unlock()
	if err != nil {
		return nil, fmt.Errorf("failed to update task dates: %w", err)
	}

	updated, err := s.repo.GetTask(ctx, req.TaskID)
	if err != nil {
		return nil, err
	}
	s.notifier.Notify(ctx, events.EventTaskChanged, updated.ProjectID, updated.ID)

	result := &ScheduleChangeResult{Task: updated}
	if updated.IsLocked {
		return result, nil
	}

	result.Propagation, err = s.propagate(ctx, updated)
	return result, err
}

// SetLocked pins or releases a task. Unlocking does not move the task;
// Reschedule applies its constraints again.
func (s *service) SetLocked(ctx context.Context, taskID types.TaskID, locked bool) (*models.Task, error) {
	if !taskID.Valid() {
		return nil, ErrInvalidTaskID
	}

	if err := s.repo.SetTaskLocked(ctx, taskID, locked); err != nil {
		return nil, err
	}

	task, err := s.repo.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, events.EventTaskChanged, task.ProjectID, task.ID)
	return task, nil
}

// Reschedule brings an unlocked task in line with its predecessors and then
// re-runs propagation from it. A locked task stays put but its dependents
// are still rescheduled. Running it after a partial failure repairs
// the dependents that were left behind.
func (s *service) Reschedule(ctx context.Context, taskID types.TaskID) (*ScheduleChangeResult, error) {
	if !taskID.Valid() {
		return nil, ErrInvalidTaskID
	}

	task, err := s.repo.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.IsLocked {
		// the lock pins the task itself; its dependents still follow it
		result := &ScheduleChangeResult{Task: task}
		result.Propagation, err = s.propagate(ctx, task)
		return result, err
	}

	change, err := s.engine.Preview(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := models.CheckScheduleBounds(change.NewStart, change.NewEnd); err != nil {
		return nil, err
	}
	if change.Moved() {
		unlock := s.engine.LockProject(task.ProjectID)
		err = s.repo.UpdateSchedule(ctx, taskID, change.NewStart, change.NewEnd)
		unlock()
		if err != nil {
			return nil, fmt.Errorf("failed to reschedule task: %w", err)
		}
		if task, err = s.repo.GetTask(ctx, taskID); err != nil {
			return nil, err
		}
		s.notifier.Notify(ctx, events.EventTaskChanged, task.ProjectID, task.ID)
	}

	result := &ScheduleChangeResult{Task: task}
	result.Propagation, err = s.propagate(ctx, task)
	return result, err
}

// PreviewSchedule reports the dates a task's predecessors call for without
// writing anything
func (s *service) PreviewSchedule(ctx context.Context, taskID types.TaskID) (*schedule.Change, error) {
	if !taskID.Valid() {
		return nil, ErrInvalidTaskID
	}
	return s.engine.Preview(ctx, taskID)
}

// propagate runs the engine from task and announces whatever moved
func (s *service) propagate(ctx context.Context, task *models.Task) (*schedule.Result, error) {
	res, err := s.engine.RescheduleDependents(ctx, task.ID)
	if res != nil && len(res.Updated) > 0 {
		s.notifier.Notify(ctx, events.EventScheduleChanged, task.ProjectID, res.UpdatedIDs()...)
	}
	if err != nil {
		return res, fmt.Errorf("%w: %w", models.ErrPropagationIncomplete, err)
	}
	return res, nil
}

// spanDuration counts the working days from start to end. rawStart is the
// requested start before it was moved to a working day.
func spanDuration(rawStart, start, end time.Time) (int, error) {
	if workday.Truncate(end).Before(workday.Truncate(rawStart)) {
		return 0, ErrInvalidDateRange
	}
	if err := models.CheckScheduleBounds(start, end); err != nil {
		return 0, err
	}
	duration := workday.CountWorkingDays(start, end)
	if duration > models.MaxDuration {
		return 0, ErrInvalidDuration
	}
	return duration, nil
}

func validateTitle(title string) error {
	if title == "" {
		return ErrEmptyTitle
	}
	if len(title) > models.MaxTitleLength {
		return ErrTitleTooLong
	}
	return nil
}
