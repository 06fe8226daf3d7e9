package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/plazo/internal/app"
	"github.com/thenoetrevino/plazo/internal/config"
	"github.com/thenoetrevino/plazo/internal/testutil"
)

type contextKey string

const configKey contextKey = "config"

// WithConfig stores the loaded config for subcommands
func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// ConfigFromContext returns the config stored by the root command, loading
// it when a subcommand runs on its own
func ConfigFromContext(ctx context.Context) (*config.Config, error) {
	if ctx != nil {
		if cfg, ok := ctx.Value(configKey).(*config.Config); ok && cfg != nil {
			return cfg, nil
		}
	}
	return config.Load()
}

// GetCLIFromContext returns the CLI for a command. Tests inject an App
// under testutil.TestAppKey; otherwise a CLI is built from the config.
func GetCLIFromContext(ctx context.Context) (*CLI, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	if testApp, ok := ctx.Value(testutil.TestAppKey).(*app.App); ok && testApp != nil {
		return &CLI{App: testApp, Config: config.Default()}, nil
	}

	cfg, err := ConfigFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return NewCLI(ctx, cfg)
}

// Open returns the CLI for cmd and a function that closes it. Failures are
// reported in the command's output mode.
func Open(cmd *cobra.Command, formatter *OutputFormatter) (*CLI, func(), error) {
	cliInstance, err := GetCLIFromContext(cmd.Context())
	if err != nil {
		if fmtErr := formatter.Error("INITIALIZATION_ERROR", err.Error()); fmtErr != nil {
			slog.Error("Error formatting error message", "error", fmtErr)
		}
		return nil, nil, NewCommandError(ExitError, err)
	}

	closeCLI := func() {
		if err := cliInstance.Close(); err != nil {
			slog.Error("Error closing CLI", "error", err)
		}
	}
	return cliInstance, closeCLI, nil
}
