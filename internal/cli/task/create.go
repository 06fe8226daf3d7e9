package task

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/plazo/internal/cli"
	"github.com/thenoetrevino/plazo/internal/cli/styles"
	taskservice "github.com/thenoetrevino/plazo/internal/services/task"
)

// CreateCmd returns the task create subcommand
func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new task",
		Long: `Create a task with a start date and either a duration or an end date.
Dates on a weekend move to the following Monday; durations count working days.

Examples:
  # Three working days starting Monday
  plazo task create --title="Design" --project=1 --start=2024-01-01 --duration=3

  # Duration taken from the end date
  plazo task create --title="Build" --project=1 --start=2024-01-04 --end=2024-01-09

  # Quiet mode for bash capture
  TASK_ID=$(plazo task create --title="Docs" --project=1 --start=today --quiet)
`,
		RunE: runCreate,
	}

	// Required flags
	cmd.Flags().String("title", "", "Task title (required)")
	if err := cmd.MarkFlagRequired("title"); err != nil {
		slog.Error("Error marking flag as required", "error", err)
	}
	cmd.Flags().String("start", "", "Start date YYYY-MM-DD or today (required)")
	if err := cmd.MarkFlagRequired("start"); err != nil {
		slog.Error("Error marking flag as required", "error", err)
	}

	// Optional flags
	cmd.Flags().Int("project", 0, "Project ID (uses PLAZO_PROJECT env var if not specified)")
	cmd.Flags().String("end", "", "End date YYYY-MM-DD; sets the duration")
	cmd.Flags().Int("duration", 0, "Duration in working days (default 1)")
	cmd.Flags().Bool("locked", false, "Create the task locked")

	cli.AddOutputFlags(cmd)

	return cmd
}

func runCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.FormatterFor(cmd)

	title, _ := cmd.Flags().GetString("title")
	startFlag, _ := cmd.Flags().GetString("start")
	endFlag, _ := cmd.Flags().GetString("end")
	duration, _ := cmd.Flags().GetInt("duration")
	locked, _ := cmd.Flags().GetBool("locked")

	projectID, err := cli.GetProjectID(cmd)
	if err != nil {
		return formatter.FailWithSuggestion(err, "Set project with: eval $(plazo use project <project-id>)")
	}

	if set := cli.ChangedFlags(cmd.Flags(), "end", "duration"); len(set) > 1 {
		return formatter.Fail(cli.UsageError("%s are mutually exclusive", strings.Join(set, " and ")))
	}

	req := taskservice.CreateTaskRequest{
		ProjectID: projectID,
		Title:     title,
		Duration:  duration,
		Locked:    locked,
	}
	if req.Start, err = cli.ParseDate(startFlag); err != nil {
		return formatter.Fail(err)
	}
	if endFlag != "" {
		if req.End, err = cli.ParseDate(endFlag); err != nil {
			return formatter.Fail(err)
		}
	}

	cliInstance, closeCLI, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer closeCLI()

	task, err := cliInstance.App.TaskService.CreateTask(ctx, req)
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		fmt.Printf("%d\n", task.ID)
		return nil
	}

	if formatter.JSON {
		return formatter.JSONResult(map[string]any{"task": cli.NewTaskView(task)})
	}

	fmt.Printf("✓ Task %d created\n", task.ID)
	fmt.Println("  " + styles.RenderTaskLine(task))
	return nil
}
