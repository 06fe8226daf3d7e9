package task

import (
	"github.com/spf13/cobra"

	"github.com/thenoetrevino/plazo/internal/cli"
	"github.com/thenoetrevino/plazo/internal/types"
)

// RescheduleCmd returns the task reschedule subcommand
func RescheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reschedule <task-id>",
		Short: "Apply a task's dependencies and propagate again",
		Long: `Move an unlocked task to satisfy its predecessors, then reschedule its
dependents. Use it after unlocking a task or after a propagation that did
not finish.`,
		Args: cobra.ExactArgs(1),
		RunE: runReschedule,
	}

	cli.AddOutputFlags(cmd)

	return cmd
}

func runReschedule(cmd *cobra.Command, args []string) error {
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

	res, err := cliInstance.App.TaskService.Reschedule(cmd.Context(), types.TaskID(id))
	return reportScheduleChange(formatter, "rescheduled", res, err)
}
