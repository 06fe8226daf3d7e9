package task

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/plazo/internal/cli"
	taskservice "github.com/thenoetrevino/plazo/internal/services/task"
	"github.com/thenoetrevino/plazo/internal/types"
)

// UpdateCmd returns the task update subcommand
func UpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <task-id>",
		Short: "Update a task's title",
		Long: `Update the fields of a task that do not affect the schedule.
Use 'plazo task move' to change dates.`,
		Args: cobra.ExactArgs(1),
		RunE: runUpdate,
	}

	cmd.Flags().String("title", "", "New task title")

	cli.AddOutputFlags(cmd)

	return cmd
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.FormatterFor(cmd)

	id, err := cli.ParseIDArg(args[0], "task")
	if err != nil {
		return formatter.Fail(err)
	}

	if !cmd.Flags().Changed("title") {
		return formatter.Fail(cli.UsageError("at least one of --title must be specified"))
	}
	title, _ := cmd.Flags().GetString("title")

	cliInstance, closeCLI, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer closeCLI()

	taskID := types.TaskID(id)
	err = cliInstance.App.TaskService.UpdateTask(ctx, taskservice.UpdateTaskRequest{
		TaskID: taskID,
		Title:  &title,
	})
	if err != nil {
		return formatter.Fail(err)
	}

	task, err := cliInstance.App.TaskService.GetTask(ctx, taskID)
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

	fmt.Printf("✓ Task %d updated\n", task.ID)
	return nil
}
