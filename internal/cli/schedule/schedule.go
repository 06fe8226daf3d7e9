// Package schedule holds the cli commands that read or repair a project's
// schedule as a whole
package schedule

import (
	"github.com/spf13/cobra"
)

// ScheduleCmd returns the schedule parent command
func ScheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Report, preview and repair project schedules",
	}

	cmd.AddCommand(ReportCmd())
	cmd.AddCommand(PreviewCmd())
	cmd.AddCommand(PropagateCmd())

	return cmd
}
