// Package daemon holds the cli commands for the change-notification hub:
// running it and watching the events it relays
package daemon

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/plazo/internal/cli"
	"github.com/thenoetrevino/plazo/internal/daemon"
)

// DaemonCmd returns the daemon command
func DaemonCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run the change-notification hub",
		Long: `Run the hub that relays schedule change events between plazo processes.

Every plazo command publishes what it changed to the hub when one is
running; 'plazo watch' prints them. Commands work the same without a hub.

The hub runs in the foreground until interrupted.`,
		Args: cobra.NoArgs,
		RunE: runDaemon,
	}

	cmd.Flags().String("socket", "", "Socket path (default from config)")

	return cmd
}

// socketPath returns --socket or the configured socket
func socketPath(cmd *cobra.Command) (string, error) {
	if path, _ := cmd.Flags().GetString("socket"); path != "" {
		return path, nil
	}
	cfg, err := cli.ConfigFromContext(cmd.Context())
	if err != nil {
		return "", err
	}
	return cfg.SocketPath()
}

func runDaemon(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(
		cmd.Context(),
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer cancel()

	path, err := socketPath(cmd)
	if err != nil {
		return fmt.Errorf("failed to resolve socket path: %w", err)
	}

	server, err := daemon.NewServer(path, daemon.WithLogger(slog.Default()))
	if err != nil {
		return fmt.Errorf("failed to create daemon: %w", err)
	}

	slog.Info("plazo daemon starting", "socket_path", path, "pid", os.Getpid())
	fmt.Fprintf(os.Stderr, "plazo daemon listening on %s\n", path)

	// blocks until ctx is done
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("daemon error: %w", err)
	}

	m := server.Metrics().Snapshot()
	slog.Info("plazo daemon shutting down gracefully",
		"events_received", m.EventsReceived,
		"events_sent", m.EventsSent,
		"events_dropped", m.EventsDropped)
	return nil
}
