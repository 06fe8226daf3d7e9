package project

import (
	"context"
	"fmt"
	"strings"

	"github.com/thenoetrevino/plazo/internal/database"
	"github.com/thenoetrevino/plazo/internal/events"
	"github.com/thenoetrevino/plazo/internal/models"
	"github.com/thenoetrevino/plazo/internal/types"
)

// Service defines all project-related business operations
type Service interface {
	// Read operations
	ListProjects(ctx context.Context) ([]*models.Project, error)
	GetProject(ctx context.Context, id types.ProjectID) (*models.Project, error)
	GetTaskCount(ctx context.Context, projectID types.ProjectID) (int, error)

	// Write operations
	CreateProject(ctx context.Context, req CreateProjectRequest) (*models.Project, error)
	UpdateProject(ctx context.Context, req UpdateProjectRequest) error
	DeleteProject(ctx context.Context, id types.ProjectID) error
}

// CreateProjectRequest encapsulates data for creating a project
type CreateProjectRequest struct {
	Name        string
	Description string
}

// UpdateProjectRequest encapsulates data for updating a project.
// Nil fields are left unchanged.
type UpdateProjectRequest struct {
	ID          types.ProjectID
	Name        *string
	Description *string
}

// service implements Service interface
type service struct {
	repo     database.ProjectRepository
	notifier *events.Notifier
}

// NewService creates a new project service
func NewService(repo database.ProjectRepository, notifier *events.Notifier) Service {
	return &service{
		repo:     repo,
		notifier: notifier,
	}
}

// ListProjects retrieves all projects
func (s *service) ListProjects(ctx context.Context) ([]*models.Project, error) {
	return s.repo.GetAllProjects(ctx)
}

// GetProject retrieves a specific project
func (s *service) GetProject(ctx context.Context, id types.ProjectID) (*models.Project, error) {
	if !id.Valid() {
		return nil, ErrInvalidProjectID
	}
	return s.repo.GetProjectByID(ctx, id)
}

// GetTaskCount returns the number of tasks in a project
func (s *service) GetTaskCount(ctx context.Context, projectID types.ProjectID) (int, error) {
	if !projectID.Valid() {
		return 0, ErrInvalidProjectID
	}
	if _, err := s.repo.GetProjectByID(ctx, projectID); err != nil {
		return 0, err
	}
	return s.repo.GetTaskCount(ctx, projectID)
}

// CreateProject creates a new project with validation
func (s *service) CreateProject(ctx context.Context, req CreateProjectRequest) (*models.Project, error) {
	name := strings.TrimSpace(req.Name)
	if err := validateName(name); err != nil {
		return nil, err
	}

	project, err := s.repo.CreateProject(ctx, name, strings.TrimSpace(req.Description))
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.notifier.Notify(ctx, events.EventProjectChanged, project.ID)
	return project, nil
}

// UpdateProject applies the non-nil fields of req
func (s *service) UpdateProject(ctx context.Context, req UpdateProjectRequest) error {
	if !req.ID.Valid() {
		return ErrInvalidProjectID
	}

	current, err := s.repo.GetProjectByID(ctx, req.ID)
	if err != nil {
		return err
	}

	name, description := current.Name, current.Description
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
		if err := validateName(name); err != nil {
			return err
		}
	}
	if req.Description != nil {
		description = strings.TrimSpace(*req.Description)
	}

	if err := s.repo.UpdateProject(ctx, req.ID, name, description); err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}

	s.notifier.Notify(ctx, events.EventProjectChanged, req.ID)
	return nil
}

// DeleteProject removes a project together with its tasks and dependencies
func (s *service) DeleteProject(ctx context.Context, id types.ProjectID) error {
	if !id.Valid() {
		return ErrInvalidProjectID
	}

	if err := s.repo.DeleteProject(ctx, id); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	s.notifier.Notify(ctx, events.EventProjectChanged, id)
	return nil
}

func validateName(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	if len(name) > maxNameLength {
		return ErrNameTooLong
	}
	return nil
}
