package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/thenoetrevino/plazo/internal/app"
	"github.com/thenoetrevino/plazo/internal/config"
	"github.com/thenoetrevino/plazo/internal/database"
	"github.com/thenoetrevino/plazo/internal/events"
)

// connectTimeout bounds how long a command waits for the daemon socket
const connectTimeout = 200 * time.Millisecond

// CLI represents the CLI application context
type CLI struct {
	App    *app.App // Application container with services
	Config *config.Config

	db    *sql.DB // nil when the app was injected
	owned bool
}

// NewCLI opens the database named by cfg and, unless events are disabled,
// connects to the notification daemon. A daemon that is not running is not
// an error; commands simply run without notifications.
func NewCLI(ctx context.Context, cfg *config.Config) (*CLI, error) {
	db, err := database.InitDB(ctx, cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	opts := []app.Option{
		app.WithLogger(slog.Default()),
		app.WithMaxRetries(cfg.Events.MaxRetries),
	}
	if client := connectEvents(ctx, cfg); client != nil {
		opts = append(opts, app.WithEventPublisher(client))
	}

	return &CLI{
		App:    app.New(db, opts...),
		Config: cfg,
		db:     db,
		owned:  true,
	}, nil
}

func connectEvents(ctx context.Context, cfg *config.Config) *events.Client {
	if cfg.Events.Disabled {
		return nil
	}
	socketPath, err := cfg.SocketPath()
	if err != nil {
		return nil
	}

	client := events.NewClient(socketPath, events.WithClientLogger(slog.Default()))

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Connect(connectCtx); err != nil {
		slog.Debug("daemon not reachable, running without notifications", "socket_path", socketPath, "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

// Close releases the event client and the database. An injected app is
// left to its owner.
func (c *CLI) Close() error {
	if !c.owned {
		return nil
	}
	appErr := c.App.Close()
	if err := c.db.Close(); err != nil {
		return err
	}
	return appErr
}
