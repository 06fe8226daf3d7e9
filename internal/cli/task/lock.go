package task

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/plazo/internal/cli"
	"github.com/thenoetrevino/plazo/internal/cli/styles"
	"github.com/thenoetrevino/plazo/internal/types"
)

// LockCmd returns the task lock subcommand
func LockCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lock <task-id>",
		Short: "Pin a task so propagation never moves it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetLocked(cmd, args, true)
		},
	}
	cli.AddOutputFlags(cmd)
	return cmd
}

// UnlockCmd returns the task unlock subcommand
func UnlockCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unlock <task-id>",
		Short: "Release a pinned task",
		Long: `Release a pinned task. The task keeps its dates; run
'plazo task reschedule' to apply its dependencies again.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetLocked(cmd, args, false)
		},
	}
	cli.AddOutputFlags(cmd)
	return cmd
}

func runSetLocked(cmd *cobra.Command, args []string, locked bool) error {
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

	task, err := cliInstance.App.TaskService.SetLocked(ctx, types.TaskID(id), locked)
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

	if locked {
		fmt.Printf("✓ Task %d locked %s\n", task.ID, styles.LockedBadge())
	} else {
		fmt.Printf("✓ Task %d unlocked\n", task.ID)
	}
	return nil
}
