package plan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"unicode"

	"github.com/thenoetrevino/plazo/internal/models"
	"github.com/thenoetrevino/plazo/internal/services/dependency"
	"github.com/thenoetrevino/plazo/internal/services/project"
	"github.com/thenoetrevino/plazo/internal/services/task"
	"github.com/thenoetrevino/plazo/internal/types"
)

// Service moves whole plans in and out of the store
type Service interface {
	Import(ctx context.Context, p *Plan) (*ImportResult, error)
	Export(ctx context.Context, projectID types.ProjectID) (*Plan, error)
}

// ImportResult describes a freshly imported project
type ImportResult struct {
	Project      *models.Project
	Tasks        map[string]types.TaskID // plan key -> stored id
	Dependencies int

	// Rescheduled counts tasks whose plan dates were moved to satisfy
	// their dependencies
	Rescheduled int
}

type service struct {
	projects project.Service
	tasks    task.Service
	deps     dependency.Service
	logger   *slog.Logger
}

// NewService builds the plan importer/exporter on top of the domain services
func NewService(projects project.Service, tasks task.Service, deps dependency.Service, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &service{
		projects: projects,
		tasks:    tasks,
		deps:     deps,
		logger:   logger,
	}
}

// Import validates p and creates its project, tasks and dependencies. Tasks
// are created with their plan dates; each edge then reschedules its
// dependents exactly as an interactive `dep add` would. On any failure the
// half-built project is deleted.
func (s *service) Import(ctx context.Context, p *Plan) (*ImportResult, error) {
	if err := Validate(p); err != nil {
		return nil, err
	}

	proj, err := s.projects.CreateProject(ctx, project.CreateProjectRequest{
		Name:        p.Project,
		Description: p.Description,
	})
	if err != nil {
		return nil, err
	}

	result, err := s.populate(ctx, proj, p)
	if err != nil {
		if delErr := s.projects.DeleteProject(ctx, proj.ID); delErr != nil {
			err = errors.Join(err, fmt.Errorf("failed to roll back project %d: %w", proj.ID, delErr))
		}
		return nil, err
	}

	s.logger.Info("plan imported",
		"project_id", proj.ID,
		"tasks", len(result.Tasks),
		"dependencies", result.Dependencies,
		"rescheduled", result.Rescheduled)
	return result, nil
}

func (s *service) populate(ctx context.Context, proj *models.Project, p *Plan) (*ImportResult, error) {
	result := &ImportResult{
		Project: proj,
		Tasks:   make(map[string]types.TaskID, len(p.Tasks)),
	}

	for _, spec := range p.Tasks {
		// Validate already proved the dates parse
		start, _ := parseDate(spec.Start)
		req := task.CreateTaskRequest{
			ProjectID: proj.ID,
			Title:     spec.Title,
			Start:     start,
			Duration:  spec.Duration,
			Locked:    spec.Locked,
		}
		if spec.End != "" {
			req.End, _ = parseDate(spec.End)
		}

		created, err := s.tasks.CreateTask(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("task %q: %w", spec.Key, err)
		}
		result.Tasks[spec.Key] = created.ID
	}

	moved := make(map[types.TaskID]bool)
	for _, spec := range p.Tasks {
		for _, edge := range spec.DependsOn {
			depType, err := models.ParseDependencyType(edge.Type)
			if err != nil {
				return nil, fmt.Errorf("task %q: %w", spec.Key, err)
			}

			link, err := s.deps.ProposeDependency(ctx, dependency.ProposeDependencyRequest{
				TaskID:      result.Tasks[spec.Key],
				DependsOnID: result.Tasks[edge.Task],
				Type:        depType,
				LagDays:     edge.Lag,
			})
			if err != nil {
				return nil, fmt.Errorf("task %q depends on %q: %w", spec.Key, edge.Task, err)
			}
			result.Dependencies++
			if link.Propagation != nil {
				for _, id := range link.Propagation.UpdatedIDs() {
					moved[id] = true
				}
			}
		}
	}
	result.Rescheduled = len(moved)

	return result, nil
}

// Export snapshots a project as a plan. Task keys are slugs of the titles;
// a clash gets the task id appended. Dates are written as start plus
// duration so a re-import lands on the same working days.
func (s *service) Export(ctx context.Context, projectID types.ProjectID) (*Plan, error) {
	proj, err := s.projects.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.ListTasks(ctx, projectID)
	if err != nil {
		return nil, err
	}
	deps, err := s.deps.ListProjectDependencies(ctx, projectID)
	if err != nil {
		return nil, err
	}

	keys := make(map[types.TaskID]string, len(tasks))
	used := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		base := slugify(t.Title)
		key := base
		if used[key] {
			key = base + "-" + strconv.Itoa(int(t.ID))
		}
		for n := 2; used[key]; n++ {
			key = fmt.Sprintf("%s-%d-%d", base, t.ID, n)
		}
		used[key] = true
		keys[t.ID] = key
	}

	edges := make(map[types.TaskID][]EdgeSpec)
	for _, d := range deps {
		edges[d.TaskID] = append(edges[d.TaskID], EdgeSpec{
			Task: keys[d.DependsOnID],
			Type: strings.ToLower(d.Type.Short()),
			Lag:  d.LagDays,
		})
	}

	p := &Plan{
		Project:     proj.Name,
		Description: proj.Description,
		Tasks:       make([]TaskSpec, 0, len(tasks)),
	}
	for _, t := range tasks {
		p.Tasks = append(p.Tasks, TaskSpec{
			Key:       keys[t.ID],
			Title:     t.Title,
			Start:     t.StartDate.Format(models.DateLayout),
			Duration:  t.Duration,
			Locked:    t.IsLocked,
			DependsOn: edges[t.ID],
		})
	}
	return p, nil
}

// slugify turns a title into a plan key: lowercase letters and digits
// separated by single dashes
func slugify(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	if b.Len() == 0 {
		return "task"
	}
	return b.String()
}
