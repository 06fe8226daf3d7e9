package database

import (
	"context"

	"github.com/thenoetrevino/plazo/internal/models"
	"github.com/thenoetrevino/plazo/internal/types"
)

// ProjectReader defines read operations for projects.
type ProjectReader interface {
	GetAllProjects(ctx context.Context) ([]*models.Project, error)
	GetProjectByID(ctx context.Context, id types.ProjectID) (*models.Project, error)
	GetTaskCount(ctx context.Context, projectID types.ProjectID) (int, error)
}

// ProjectWriter defines write operations for projects.
type ProjectWriter interface {
	CreateProject(ctx context.Context, name, description string) (*models.Project, error)
	UpdateProject(ctx context.Context, id types.ProjectID, name, description string) error
	DeleteProject(ctx context.Context, id types.ProjectID) error
}

// ProjectRepository combines all project-related operations.
type ProjectRepository interface {
	ProjectReader
	ProjectWriter
}
