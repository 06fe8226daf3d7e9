package daemon

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/plazo/internal/cli"
	"github.com/thenoetrevino/plazo/internal/cli/styles"
	"github.com/thenoetrevino/plazo/internal/events"
	"github.com/thenoetrevino/plazo/internal/types"
)

// WatchCmd returns the watch command
func WatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print schedule changes as they happen",
		Long: `Connect to the running hub and print every change event, one per line,
until interrupted. Start the hub with 'plazo daemon'.

Examples:
  plazo watch                 # every project
  plazo watch --project 3     # one project
  plazo watch --json | jq .   # JSON lines`,
		Args: cobra.NoArgs,
		RunE: runWatch,
	}

	cmd.Flags().Int("project", 0, "Only show events for this project")
	cmd.Flags().String("socket", "", "Socket path (default from config)")
	cmd.Flags().Bool("json", false, "Print events as JSON lines")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	jsonOut, _ := cmd.Flags().GetBool("json")
	projectID, _ := cmd.Flags().GetInt("project")
	formatter := &cli.OutputFormatter{JSON: jsonOut}

	path, err := socketPath(cmd)
	if err != nil {
		return formatter.Fail(fmt.Errorf("failed to resolve socket path: %w", err))
	}

	client := events.NewClient(path)
	defer func() {
		_ = client.Close()
	}()

	connectCtx, connectCancel := context.WithTimeout(ctx, 2*time.Second)
	defer connectCancel()
	if err := client.Connect(connectCtx); err != nil {
		return formatter.FailWithSuggestion(err, "Start the hub with: plazo daemon")
	}
	if err := client.Subscribe(types.ProjectID(projectID)); err != nil {
		return formatter.Fail(err)
	}

	ch, err := client.Listen(ctx)
	if err != nil {
		return formatter.Fail(err)
	}

	if !jsonOut {
		scope := "all projects"
		if projectID > 0 {
			scope = fmt.Sprintf("project %d", projectID)
		}
		fmt.Fprintf(os.Stderr, "Watching %s (Ctrl+C to stop)\n", scope)
	}

	return printEvents(ctx, cmd.OutOrStdout(), ch, jsonOut)
}

// printEvents writes each event until ctx is done or ch closes
func printEvents(ctx context.Context, w io.Writer, ch <-chan events.Event, jsonOut bool) error {
	enc := json.NewEncoder(w)
	for {
		select {
		case <-ctx.Done():
			return nil
		case e, ok := <-ch:
			if !ok {
				return nil
			}
			if jsonOut {
				if err := enc.Encode(e); err != nil {
					return err
				}
				continue
			}
			if _, err := fmt.Fprintln(w, formatEvent(e)); err != nil {
				return err
			}
		}
	}
}

// formatEvent renders "15:04:05 schedule_changed project 1 tasks 2, 3"
func formatEvent(e events.Event) string {
	var b strings.Builder
	b.WriteString(styles.SubtitleStyle.Render(e.Timestamp.Local().Format(time.TimeOnly)))
	b.WriteString(" ")
	b.WriteString(styles.TitleStyle.Render(string(e.Type)))
	if e.ProjectID == 0 {
		b.WriteString(" all projects")
	} else {
		fmt.Fprintf(&b, " project %d", e.ProjectID)
	}
	if len(e.TaskIDs) > 0 {
		ids := make([]string, len(e.TaskIDs))
		for i, id := range e.TaskIDs {
			ids[i] = id.String()
		}
		b.WriteString(" tasks " + strings.Join(ids, ", "))
	}
	return b.String()
}
