package schedule

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/plazo/internal/cli"
	"github.com/thenoetrevino/plazo/internal/cli/styles"
	"github.com/thenoetrevino/plazo/internal/types"
)

// PreviewCmd returns the schedule preview subcommand
func PreviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview <task-id>",
		Short: "Show the dates a task's dependencies call for",
		Long: `Compute the dates a task would get from its predecessors without writing
anything. A task is only ever pushed later, so a task that already satisfies
its constraints keeps its dates.`,
		Args: cobra.ExactArgs(1),
		RunE: runPreview,
	}

	cli.AddOutputFlags(cmd)

	return cmd
}

func runPreview(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.FormatterFor(cmd)

	id, err := cli.ParseIDArg(args[0], "task")
	if err != nil {
		return formatter.Fail(err)
	}

	cliInstance, closeCLI, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer closeCLI()

	taskID := types.TaskID(id)
	task, err := cliInstance.App.TaskService.GetTask(ctx, taskID)
	if err != nil {
		return formatter.Fail(err)
	}
	change, err := cliInstance.App.TaskService.PreviewSchedule(ctx, taskID)
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		fmt.Println(change.Moved())
		return nil
	}

	if formatter.JSON {
		return formatter.JSONResult(map[string]any{
			"change": cli.NewChangeView(*change),
			"moved":  change.Moved(),
			"locked": task.IsLocked,
		})
	}

	switch {
	case !change.Moved():
		fmt.Printf("✓ Task %d already satisfies its dependencies\n", taskID)
	case task.IsLocked:
		fmt.Printf("%s Task %d is locked; its dependencies call for:\n", styles.LockedBadge(), taskID)
		fmt.Println("  " + styles.RenderChange(*change))
	default:
		fmt.Printf("Task %d would move:\n", taskID)
		fmt.Println("  " + styles.RenderChange(*change))
		fmt.Printf("Run 'plazo task reschedule %d' to apply\n", taskID)
	}
	return nil
}
