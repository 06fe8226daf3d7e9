// Package graph holds the cli commands that inspect the dependency graph
package graph

import (
	"github.com/spf13/cobra"
)

// GraphCmd returns the graph parent command
func GraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Inspect the dependency graph",
	}

	cmd.AddCommand(CheckCmd())

	return cmd
}
