package task

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/plazo/internal/cli"
	"github.com/thenoetrevino/plazo/internal/types"
)

// DeleteCmd returns the task delete subcommand
func DeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <task-id>",
		Short: "Delete a task and its dependencies",
		Long: `Delete a task together with every dependency that touches it.
Tasks that depended on it keep their current dates.`,
		Args: cobra.ExactArgs(1),
		RunE: runDelete,
	}

	cmd.Flags().Bool("force", false, "Skip confirmation")
	cli.AddOutputFlags(cmd)

	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.FormatterFor(cmd)
	force, _ := cmd.Flags().GetBool("force")

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

	if !force && !formatter.Quiet && !formatter.JSON {
		if !cli.Confirm(fmt.Sprintf("Delete task %d (%s) and its dependencies?", task.ID, task.Title)) {
			fmt.Println("Cancelled")
			return nil
		}
	}

	if err := cliInstance.App.TaskService.DeleteTask(ctx, taskID); err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		return nil
	}

	if formatter.JSON {
		return formatter.JSONResult(map[string]any{"task_id": taskID})
	}

	fmt.Printf("✓ Task %d deleted\n", task.ID)
	return nil
}
