// Package plan holds the cli commands that move whole project plans in and
// out of plazo
package plan

import (
	"github.com/spf13/cobra"
)

// PlanCmd returns the plan parent command
func PlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Import and export project plans",
		Long: `A plan is a project with its tasks and dependencies in one file, with
tasks referenced by short keys instead of ids. Plans can be written in YAML,
JSON, TOML or HCL; the format follows the file extension.`,
	}

	cmd.AddCommand(ImportCmd())
	cmd.AddCommand(ExportCmd())
	cmd.AddCommand(ValidateCmd())

	return cmd
}
