package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/plazo/internal/cli"
	configcmd "github.com/thenoetrevino/plazo/internal/cli/config"
	daemoncmd "github.com/thenoetrevino/plazo/internal/cli/daemon"
	"github.com/thenoetrevino/plazo/internal/cli/dep"
	"github.com/thenoetrevino/plazo/internal/cli/graph"
	plancmd "github.com/thenoetrevino/plazo/internal/cli/plan"
	"github.com/thenoetrevino/plazo/internal/cli/project"
	schedulecmd "github.com/thenoetrevino/plazo/internal/cli/schedule"
	"github.com/thenoetrevino/plazo/internal/cli/styles"
	"github.com/thenoetrevino/plazo/internal/cli/task"
	"github.com/thenoetrevino/plazo/internal/cli/use"
	"github.com/thenoetrevino/plazo/internal/config"
	"github.com/thenoetrevino/plazo/internal/logging"
)

// Version is set at build time with -ldflags "-X .../cmd.Version=..."
var Version = "dev"

// NewRootCmd builds the full command tree. The returned func closes the log
// file opened by the first command that runs.
func NewRootCmd() (*cobra.Command, func()) {
	var logFile *os.File

	root := &cobra.Command{
		Use:   "plazo",
		Short: "Plazo - task scheduling with dependencies",
		Long: `Plazo keeps a project's tasks on working days and in dependency order.

Tasks have a start date and a duration in working days. Dependencies
(finish-to-start, start-to-start, finish-to-finish, start-to-finish, with
optional lag) push dependent tasks later whenever a task moves. Locked
tasks are never moved.

Get started:
  eval $(plazo use project $(plazo project create --name "Launch" --quiet))
  plazo task create --title "Design" --start today --duration 3
  plazo dep add --task 2 --depends-on 1`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if dbPath, _ := cmd.Flags().GetString("db"); dbPath != "" {
				cfg.Database.Path = dbPath
			}

			logPath, err := cfg.LogPath()
			if err != nil {
				return fmt.Errorf("failed to resolve log path: %w", err)
			}
			if logFile, err = logging.Init(cfg.Logging.Level, logPath); err != nil {
				// logging is best effort; commands still run
				fmt.Fprintf(os.Stderr, "warning: failed to open log file %s: %v\n", logPath, err)
			}

			styles.Init(cfg.ColorScheme)
			cmd.SetContext(cli.WithConfig(cmd.Context(), cfg))

			slog.Debug("command starting", "command", cmd.CommandPath(), "args", args)
			return nil
		},
	}

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err: err, usage: cmd.UsageString()}
	})
	root.PersistentFlags().String("db", "", "Database file (overrides config and "+config.EnvDBPath+")")

	root.AddCommand(project.ProjectCmd())
	root.AddCommand(task.TaskCmd())
	root.AddCommand(dep.DepCmd())
	root.AddCommand(schedulecmd.ScheduleCmd())
	root.AddCommand(graph.GraphCmd())
	root.AddCommand(plancmd.PlanCmd())
	root.AddCommand(use.UseCmd())
	root.AddCommand(configcmd.ConfigCmd())
	root.AddCommand(daemoncmd.DaemonCmd())
	root.AddCommand(daemoncmd.WatchCmd())

	cleanup := func() {
		if logFile != nil {
			_ = logFile.Close()
		}
	}
	return root, cleanup
}

// usageError is a flag parsing failure; it is printed with the command's
// usage and exits with cli.ExitUsage
type usageError struct {
	err   error
	usage string
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// Execute runs the command line and returns the exit code for the process.
// Errors that were not already shown to the user are printed here.
func Execute() int {
	root, cleanup := NewRootCmd()
	defer cleanup()

	err := root.Execute()
	if err == nil {
		return cli.ExitSuccess
	}

	var usageErr *usageError
	if errors.As(err, &usageErr) {
		fmt.Fprintf(os.Stderr, "❌ Error: %v\n\n%s", usageErr.err, usageErr.usage)
		return cli.ExitUsage
	}

	// CommandErrors come from an OutputFormatter, which already wrote them
	var cmdErr *cli.CommandError
	if !errors.As(err, &cmdErr) {
		fmt.Fprintf(os.Stderr, "❌ Error: %v\n", err)
	}
	return cli.ExitCode(err)
}
