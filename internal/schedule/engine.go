// Package schedule propagates date changes through a project's dependency
// graph. When a task moves, every unlocked task that depends on it is
// recomputed from its predecessors and written back, then its own dependents
// are processed, until the graph settles or a locked task stops the walk.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/thenoetrevino/plazo/internal/models"
	"github.com/thenoetrevino/plazo/internal/types"
)

// DefaultMaxSteps bounds the number of tasks processed in one propagation.
// A valid DAG never gets close; it only trips on corrupted, cyclic edge data.
const DefaultMaxSteps = 100_000

// ErrStepLimit is returned when propagation exceeds its step budget
var ErrStepLimit = errors.New("propagation step limit exceeded")

// Store is the slice of the task store the engine reads and writes.
// Implementations must return an error wrapping models.ErrTaskNotFound for a
// missing task.
type Store interface {
	GetTask(ctx context.Context, id types.TaskID) (*models.Task, error)
	GetDependencyEdges(ctx context.Context, id types.TaskID, dir models.Direction) ([]*models.Dependency, error)
	UpdateSchedule(ctx context.Context, id types.TaskID, start, end time.Time) error
}

// Engine runs propagations. It is safe for concurrent use; propagations in
// the same project are serialized.
type Engine struct {
	store    Store
	logger   *slog.Logger
	maxSteps int

	mu    sync.Mutex
	locks map[types.ProjectID]*sync.Mutex
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the engine logger
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMaxSteps overrides DefaultMaxSteps
func WithMaxSteps(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxSteps = n
		}
	}
}

// NewEngine creates an engine over the given store
func NewEngine(store Store, opts ...Option) *Engine {
	e := &Engine{
		store:    store,
		logger:   slog.Default(),
		maxSteps: DefaultMaxSteps,
		locks:    make(map[types.ProjectID]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// LockProject acquires the propagation lock for a project and returns its
// release. Callers that validate and then write the graph hold it across both
// steps; it must be released before calling RescheduleDependents.
func (e *Engine) LockProject(projectID types.ProjectID) func() {
	e.mu.Lock()
	l, ok := e.locks[projectID]
	if !ok {
		l = &sync.Mutex{}
		e.locks[projectID] = l
	}
	e.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// RescheduleDependents recomputes every task downstream of changedTaskID.
//
// The walk uses an explicit FIFO work-list instead of recursion. Each
// dependent is recomputed from the current stored dates of all its
// predecessors at the moment it is reached, written, and then queued so its
// own dependents follow. Because the graph is acyclic and a new start is
// never earlier than the stored one, the final dates do not depend on
// visiting order and a second run changes nothing.
//
// A store error while handling one dependent abandons that dependent's
// subtree only. Updates already written elsewhere stay written; the failures
// come back joined in the returned error and itemized in Result.Failed.
// Re-running the propagation after the store recovers converges to the same
// dates a clean run would have produced.
func (e *Engine) RescheduleDependents(ctx context.Context, changedTaskID types.TaskID) (*Result, error) {
	result := newResult(changedTaskID)

	root, err := e.store.GetTask(ctx, changedTaskID)
	if err != nil {
		result.fail(changedTaskID, err)
		return result, result.Err()
	}
	result.ProjectID = root.ProjectID

	unlock := e.LockProject(root.ProjectID)
	defer unlock()

	log := e.logger.With("root_task_id", int(changedTaskID), "project_id", int(root.ProjectID))
	log.Debug("propagation started")

	queue := []types.TaskID{changedTaskID}
	queued := map[types.TaskID]bool{changedTaskID: true}
	steps := 0

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		queued[current] = false

		steps++
		if steps > e.maxSteps {
			result.fail(current, fmt.Errorf("%w after %d steps", ErrStepLimit, e.maxSteps))
			break
		}

		edges, err := e.store.GetDependencyEdges(ctx, current, models.Incoming)
		if err != nil {
			log.Warn("failed to load dependents", "task_id", int(current), "error", err)
			result.fail(current, fmt.Errorf("failed to load dependents of task %d: %w", current, err))
			continue
		}

		for _, edge := range edges {
			dependentID := edge.TaskID

			settled, err := e.reschedule(ctx, dependentID, result)
			if err != nil {
				log.Warn("propagation branch aborted", "task_id", int(dependentID), "error", err)
				result.fail(dependentID, err)
				continue
			}
			if !settled || queued[dependentID] {
				continue
			}
			queued[dependentID] = true
			queue = append(queue, dependentID)
		}
	}

	log.Debug("propagation finished",
		"updated", len(result.Updated),
		"skipped_locked", len(result.Skipped),
		"failed", len(result.Failed))

	return result, result.Err()
}

// reschedule recomputes one dependent task. It reports false, with no error,
// when the task is locked and must be left alone together with everything
// downstream of it.
func (e *Engine) reschedule(ctx context.Context, taskID types.TaskID, result *Result) (bool, error) {
	task, err := e.store.GetTask(ctx, taskID)
	if err != nil {
		return false, fmt.Errorf("failed to load task %d: %w", taskID, err)
	}

	if task.IsLocked {
		result.skip(taskID)
		e.logger.Debug("skipping locked task", "task_id", int(taskID))
		return false, nil
	}

	preds, err := e.loadPredecessors(ctx, taskID)
	if err != nil {
		return false, err
	}

	start, end := ComputeSchedule(task, preds)
	if start.Equal(task.StartDate) && end.Equal(task.EndDate) {
		return true, nil
	}
	if err := models.CheckScheduleBounds(start, end); err != nil {
		return false, fmt.Errorf("task %d: %w", taskID, err)
	}

	if err := e.store.UpdateSchedule(ctx, taskID, start, end); err != nil {
		return false, fmt.Errorf("failed to update schedule of task %d: %w", taskID, err)
	}

	result.record(Change{
		TaskID:   taskID,
		OldStart: task.StartDate,
		OldEnd:   task.EndDate,
		NewStart: start,
		NewEnd:   end,
	})
	e.logger.Debug("task rescheduled",
		"task_id", int(taskID),
		"start", start.Format(models.DateLayout),
		"end", end.Format(models.DateLayout))

	return true, nil
}

// Preview computes the dates a task would receive from its predecessors
// without writing anything
func (e *Engine) Preview(ctx context.Context, taskID types.TaskID) (*Change, error) {
	task, err := e.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to load task %d: %w", taskID, err)
	}

	preds, err := e.loadPredecessors(ctx, taskID)
	if err != nil {
		return nil, err
	}

	start, end := ComputeSchedule(task, preds)
	return &Change{
		TaskID:   taskID,
		OldStart: task.StartDate,
		OldEnd:   task.EndDate,
		NewStart: start,
		NewEnd:   end,
	}, nil
}

// loadPredecessors reads a task's own edges together with the current dates
// of every task they point at
func (e *Engine) loadPredecessors(ctx context.Context, taskID types.TaskID) ([]Predecessor, error) {
	edges, err := e.store.GetDependencyEdges(ctx, taskID, models.Outgoing)
	if err != nil {
		return nil, fmt.Errorf("failed to load predecessors of task %d: %w", taskID, err)
	}

	preds := make([]Predecessor, 0, len(edges))
	for _, edge := range edges {
		pred, err := e.store.GetTask(ctx, edge.DependsOnID)
		if err != nil {
			return nil, fmt.Errorf("failed to load predecessor %d of task %d: %w", edge.DependsOnID, taskID, err)
		}
		preds = append(preds, Predecessor{Edge: edge, Task: pred})
	}
	return preds, nil
}
