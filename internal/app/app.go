package app

import (
	"database/sql"
	"log/slog"

	"github.com/thenoetrevino/plazo/internal/database"
	"github.com/thenoetrevino/plazo/internal/events"
	"github.com/thenoetrevino/plazo/internal/plan"
	"github.com/thenoetrevino/plazo/internal/schedule"
	dependencyservice "github.com/thenoetrevino/plazo/internal/services/dependency"
	projectservice "github.com/thenoetrevino/plazo/internal/services/project"
	taskservice "github.com/thenoetrevino/plazo/internal/services/task"
)

const defaultMaxRetries = 3

// App holds all application services and provides dependency injection.
// Every service shares one repository and one scheduling engine, so the
// per-project locks cover all writers in the process.
type App struct {
	// Repository layer (direct database access)
	repo   *database.Repository
	engine *schedule.Engine

	// Event system for live updates
	eventClient events.EventPublisher

	// Service layer (business logic)
	ProjectService    projectservice.Service
	TaskService       taskservice.Service
	DependencyService dependencyservice.Service
	PlanService       plan.Service
}

// New creates a new App with all services initialized.
// This is the single entry point for creating the application container.
func New(db *sql.DB, opts ...Option) *App {
	cfg := &appConfig{maxRetries: defaultMaxRetries}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	repo := database.NewRepository(db)

	engineOpts := []schedule.Option{schedule.WithLogger(cfg.logger)}
	if cfg.maxSteps > 0 {
		engineOpts = append(engineOpts, schedule.WithMaxSteps(cfg.maxSteps))
	}
	engine := schedule.NewEngine(repo, engineOpts...)

	notifier := events.NewNotifier(cfg.eventClient, cfg.maxRetries)

	a := &App{
		repo:              repo,
		engine:            engine,
		eventClient:       cfg.eventClient,
		ProjectService:    projectservice.NewService(repo, notifier),
		TaskService:       taskservice.NewService(repo, engine, notifier),
		DependencyService: dependencyservice.NewService(repo, engine, notifier, cfg.logger),
	}
	a.PlanService = plan.NewService(a.ProjectService, a.TaskService, a.DependencyService, cfg.logger)
	return a
}

// Repo returns the underlying repository for direct database access
func (a *App) Repo() database.DataStore {
	return a.repo
}

// Engine returns the scheduling engine shared by the services
func (a *App) Engine() *schedule.Engine {
	return a.engine
}

// Close releases the event client, if any
func (a *App) Close() error {
	if a.eventClient == nil {
		return nil
	}
	return a.eventClient.Close()
}
