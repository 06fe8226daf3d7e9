package database

import (
	"context"

	"github.com/thenoetrevino/plazo/internal/models"
	"github.com/thenoetrevino/plazo/internal/types"
)

// DependencyReader defines read operations for dependency edges.
type DependencyReader interface {
	GetDependency(ctx context.Context, id types.DependencyID) (*models.Dependency, error)
	GetDependencyEdges(ctx context.Context, id types.TaskID, dir models.Direction) ([]*models.Dependency, error)
	GetDependenciesByProject(ctx context.Context, projectID types.ProjectID) ([]*models.Dependency, error)
}

// DependencyWriter defines write operations for dependency edges.
type DependencyWriter interface {
	CreateDependency(ctx context.Context, dep *models.Dependency) (*models.Dependency, error)
	DeleteDependency(ctx context.Context, id types.DependencyID) error
}

// DependencyRepository combines all dependency-related operations.
type DependencyRepository interface {
	DependencyReader
	DependencyWriter
}
