// Package task holds all cli commands related to tasks
//
// e.g., plazo task ...
package task

import (
	"github.com/spf13/cobra"
)

// TaskCmd returns the task parent command
func TaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks and their dates",
	}

	cmd.AddCommand(CreateCmd())
	cmd.AddCommand(ListCmd())
	cmd.AddCommand(ShowCmd())
	cmd.AddCommand(UpdateCmd())
	cmd.AddCommand(MoveCmd())
	cmd.AddCommand(LockCmd())
	cmd.AddCommand(UnlockCmd())
	cmd.AddCommand(RescheduleCmd())
	cmd.AddCommand(DeleteCmd())

	return cmd
}
