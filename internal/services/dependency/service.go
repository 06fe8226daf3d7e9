package dependency

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/thenoetrevino/plazo/internal/database"
	"github.com/thenoetrevino/plazo/internal/events"
	"github.com/thenoetrevino/plazo/internal/graph"
	"github.com/thenoetrevino/plazo/internal/models"
	"github.com/thenoetrevino/plazo/internal/schedule"
	"github.com/thenoetrevino/plazo/internal/types"
)

// Service defines the operations on dependency edges
type Service interface {
	// Read operations
	ListDependencies(ctx context.Context, taskID types.TaskID, dir models.Direction) ([]*models.Dependency, error)
	ListProjectDependencies(ctx context.Context, projectID types.ProjectID) ([]*models.Dependency, error)
	CheckCycle(ctx context.Context, taskID, dependsOnID types.TaskID) (*CycleCheck, error)

	// Write operations
	ProposeDependency(ctx context.Context, req ProposeDependencyRequest) (*LinkResult, error)
	RemoveDependency(ctx context.Context, id types.DependencyID) error
}

// ProposeDependencyRequest asks for "TaskID depends on DependsOnID".
// An empty Type means FINISH_TO_START; a negative LagDays is a lead.
type ProposeDependencyRequest struct {
	TaskID      types.TaskID
	DependsOnID types.TaskID
	Type        models.DependencyType
	LagDays     int
}

// LinkResult is the stored edge together with the propagation it triggered
type LinkResult struct {
	Dependency  *models.Dependency
	Propagation *schedule.Result
}

// CycleCheck answers whether an edge would close a cycle. Path is the
// existing depends-on chain from the proposed predecessor back to the task;
// the new edge would close it.
type CycleCheck struct {
	TaskID      types.TaskID
	DependsOnID types.TaskID
	WouldCycle  bool
	Path        []types.TaskID
}

// service implements Service interface
type service struct {
	repo     database.DataStore
	engine   *schedule.Engine
	notifier *events.Notifier
	logger   *slog.Logger
}

// NewService creates a new dependency service
func NewService(repo database.DataStore, engine *schedule.Engine, notifier *events.Notifier, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &service{
		repo:     repo,
		engine:   engine,
		notifier: notifier,
		logger:   logger,
	}
}

// ListDependencies lists the edges a task owns (Outgoing) or the edges that
// point at it (Incoming)
func (s *service) ListDependencies(ctx context.Context, taskID types.TaskID, dir models.Direction) ([]*models.Dependency, error) {
	if !taskID.Valid() {
		return nil, ErrInvalidTaskID
	}
	if _, err := s.repo.GetTask(ctx, taskID); err != nil {
		return nil, err
	}
	return s.repo.GetDependencyEdges(ctx, taskID, dir)
}

// ListProjectDependencies lists every edge inside a project
func (s *service) ListProjectDependencies(ctx context.Context, projectID types.ProjectID) ([]*models.Dependency, error) {
	if !projectID.Valid() {
		return nil, ErrInvalidProjectID
	}
	if _, err := s.repo.GetProjectByID(ctx, projectID); err != nil {
		return nil, err
	}
	return s.repo.GetDependenciesByProject(ctx, projectID)
}

// CheckCycle reports whether "taskID depends on dependsOnID" would close a
// cycle, without writing anything
func (s *service) CheckCycle(ctx context.Context, taskID, dependsOnID types.TaskID) (*CycleCheck, error) {
	task, _, err := s.loadEndpoints(ctx, taskID, dependsOnID)
	if err != nil {
		return nil, err
	}

	adj, err := s.adjacency(ctx, task.ProjectID)
	if err != nil {
		return nil, err
	}

	check := &CycleCheck{TaskID: taskID, DependsOnID: dependsOnID}
	if graph.WouldCreateCycle(adj, taskID, dependsOnID) {
		check.WouldCycle = true
		check.Path = graph.Path(adj, dependsOnID, taskID)
	}
	return check, nil
}

// ProposeDependency validates and stores a new edge, then reschedules
// everything downstream of the predecessor.
//
// Both tasks must exist and share a project. The cycle check and the insert
// run under the project's propagation lock so two concurrent proposals
// cannot together close a loop. A rejected edge writes nothing and comes
// back as a *models.CycleError. When the edge is stored but propagation
// fails part way, the result is returned with an error wrapping
// models.ErrPropagationIncomplete.
func (s *service) ProposeDependency(ctx context.Context, req ProposeDependencyRequest) (*LinkResult, error) {
	depType := req.Type
	if depType == "" {
		depType = models.FinishToStart
	}
	if !depType.IsValid() {
		return nil, ErrInvalidType
	}
	if req.LagDays > models.MaxLagDays || req.LagDays < -models.MaxLagDays {
		return nil, ErrLagOutOfRange
	}

	task, _, err := s.loadEndpoints(ctx, req.TaskID, req.DependsOnID)
	if err != nil {
		return nil, err
	}

	dep, err := s.insertChecked(ctx, task.ProjectID, &models.Dependency{
		TaskID:      req.TaskID,
		DependsOnID: req.DependsOnID,
		Type:        depType,
		LagDays:     req.LagDays,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("dependency created",
		"dependency_id", int(dep.ID),
		"task_id", int(dep.TaskID),
		"depends_on_id", int(dep.DependsOnID),
		"type", dep.Type.Short(),
		"lag_days", dep.LagDays)
	s.notifier.Notify(ctx, events.EventDependencyChanged, task.ProjectID, dep.TaskID, dep.DependsOnID)

	result := &LinkResult{Dependency: dep}
	result.Propagation, err = s.engine.RescheduleDependents(ctx, dep.DependsOnID)
	if result.Propagation != nil && len(result.Propagation.Updated) > 0 {
		s.notifier.Notify(ctx, events.EventScheduleChanged, task.ProjectID, result.Propagation.UpdatedIDs()...)
	}
	if err != nil {
		return result, fmt.Errorf("%w: %w", models.ErrPropagationIncomplete, err)
	}
	return result, nil
}

// insertChecked runs the cycle check and the insert as one step with
// respect to other writers of the same project
func (s *service) insertChecked(ctx context.Context, projectID types.ProjectID, dep *models.Dependency) (*models.Dependency, error) {
	unlock := s.engine.LockProject(projectID)
	defer unlock()

	adj, err := s.adjacency(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if graph.WouldCreateCycle(adj, dep.TaskID, dep.DependsOnID) {
		return nil, &models.CycleError{TaskID: dep.TaskID, DependsOnID: dep.DependsOnID}
	}

	created, err := s.repo.CreateDependency(ctx, dep)
	if err != nil {
		return nil, fmt.Errorf("failed to create dependency: %w", err)
	}
	return created, nil
}

// RemoveDependency deletes an edge. Dates are left as they are; removing a
// constraint never pulls a task earlier.
func (s *service) RemoveDependency(ctx context.Context, id types.DependencyID) error {
	if !id.Valid() {
		return ErrInvalidDependencyID
	}

	dep, err := s.repo.GetDependency(ctx, id)
	if err != nil {
		return err
	}
	task, err := s.repo.GetTask(ctx, dep.TaskID)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteDependency(ctx, id); err != nil {
		return fmt.Errorf("failed to delete dependency: %w", err)
	}

	s.notifier.Notify(ctx, events.EventDependencyChanged, task.ProjectID, dep.TaskID, dep.DependsOnID)
	return nil
}

// loadEndpoints validates and loads both ends of a proposed edge. The
// cross-project check comes first so it is never reported as a cycle.
func (s *service) loadEndpoints(ctx context.Context, taskID, dependsOnID types.TaskID) (*models.Task, *models.Task, error) {
	if !taskID.Valid() || !dependsOnID.Valid() {
		return nil, nil, ErrInvalidTaskID
	}

	task, err := s.repo.GetTask(ctx, taskID)
	if err != nil {
		return nil, nil, err
	}
	dependsOn, err := s.repo.GetTask(ctx, dependsOnID)
	if err != nil {
		return nil, nil, err
	}

	if task.ProjectID != dependsOn.ProjectID {
		return nil, nil, fmt.Errorf("task %d is in project %d, task %d is in project %d: %w",
			taskID, task.ProjectID, dependsOnID, dependsOn.ProjectID, models.ErrCrossProjectDependency)
	}
	return task, dependsOn, nil
}

func (s *service) adjacency(ctx context.Context, projectID types.ProjectID) (graph.Adjacency, error) {
	deps, err := s.repo.GetDependenciesByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load project graph: %w", err)
	}
	return graph.NewAdjacency(deps), nil
}
