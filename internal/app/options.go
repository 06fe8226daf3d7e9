package app

import (
	"log/slog"

	"github.com/thenoetrevino/plazo/internal/events"
)

// Option is a functional option for configuring App initialization
type Option func(*appConfig)

// appConfig holds the configuration for App initialization
type appConfig struct {
	eventClient events.EventPublisher
	logger      *slog.Logger
	maxRetries  int
	maxSteps    int
}

// WithEventPublisher sets where change notifications go. Without one the
// app runs silently.
func WithEventPublisher(ec events.EventPublisher) Option {
	return func(cfg *appConfig) {
		cfg.eventClient = ec
	}
}

// WithLogger sets the logger for the application
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *appConfig) {
		cfg.logger = logger
	}
}

// WithMaxRetries bounds how often a notification is retried
func WithMaxRetries(n int) Option {
	return func(cfg *appConfig) {
		cfg.maxRetries = n
	}
}

// WithMaxSteps caps the work done by a single propagation; zero keeps the
// engine default
func WithMaxSteps(n int) Option {
	return func(cfg *appConfig) {
		cfg.maxSteps = n
	}
}
