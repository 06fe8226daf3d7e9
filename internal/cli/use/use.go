// Package use holds all cli commands related to setting contextual information
// e.g., plazo use ...
package use

import (
	"github.com/spf13/cobra"
)

// UseCmd returns the use parent command
func UseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "use",
		Short: "Manage contextual settings for the current shell",
		Long: `Set context for the current shell session so later commands do not need
the same flags again.

Examples:
  eval $(plazo use project 3)       # Use project 3
  eval $(plazo use project --clear) # Clear project context
  plazo use project --show          # Show current project`,
	}

	cmd.AddCommand(ProjectCmd())

	return cmd
}
