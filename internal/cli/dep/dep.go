// Package dep holds the cli commands for dependency edges
//
// e.g., plazo dep add --task 4 --depends-on 2
package dep

import (
	"github.com/spf13/cobra"
)

// DepCmd returns the dep parent command
func DepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dep",
		Aliases: []string{"dependency"},
		Short:   "Manage dependencies between tasks",
	}

	cmd.AddCommand(AddCmd())
	cmd.AddCommand(RemoveCmd())
	cmd.AddCommand(ListCmd())

	return cmd
}
