package task

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/plazo/internal/cli"
	taskservice "github.com/thenoetrevino/plazo/internal/services/task"
	"github.com/thenoetrevino/plazo/internal/types"
)

// MoveCmd returns the task move subcommand
func MoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move <task-id>",
		Short: "Change a task's dates and reschedule its dependents",
		Long: `Move a task to new dates. Without --end the task keeps its duration and
moves as a block; with --end the duration becomes the working days in the
new span.

Every dependent whose constraints are no longer met is pushed later.
Locked dependents are left alone. Dependents are never pulled earlier.

Examples:
  plazo task move 3 --start=2024-01-15
  plazo task move 3 --start=2024-01-15 --end=2024-01-19
`,
		Args: cobra.ExactArgs(1),
		RunE: runMove,
	}

	cmd.Flags().String("start", "", "New start date YYYY-MM-DD or today (required)")
	if err := cmd.MarkFlagRequired("start"); err != nil {
		slog.Error("Error marking flag as required", "error", err)
	}
	cmd.Flags().String("end", "", "New end date YYYY-MM-DD")

	cli.AddOutputFlags(cmd)

	return cmd
}

func runMove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.FormatterFor(cmd)

	id, err := cli.ParseIDArg(args[0], "task")
	if err != nil {
		return formatter.Fail(err)
	}

	startFlag, _ := cmd.Flags().GetString("start")
	endFlag, _ := cmd.Flags().GetString("end")

	start, err := cli.ParseDate(startFlag)
	if err != nil {
		return formatter.Fail(err)
	}
	var end time.Time
	if endFlag != "" {
		if end, err = cli.ParseDate(endFlag); err != nil {
			return formatter.Fail(err)
		}
	}

	cliInstance, closeCLI, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer closeCLI()

	res, err := cliInstance.App.TaskService.ApplyScheduleChange(ctx, taskservice.ApplyScheduleChangeRequest{
		TaskID: types.TaskID(id),
		Start:  start,
		End:    end,
	})
	return reportScheduleChange(formatter, "moved", res, err)
}
