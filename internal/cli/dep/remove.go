package dep

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/plazo/internal/cli"
	"github.com/thenoetrevino/plazo/internal/types"
)

// RemoveCmd returns the dep remove subcommand
func RemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "remove <dependency-id>",
		Aliases: []string{"rm"},
		Short:   "Remove a dependency",
		Long: `Remove a dependency edge. Task dates are left as they are; removing a
constraint never pulls a task earlier.`,
		Args: cobra.ExactArgs(1),
		RunE: runRemove,
	}

	cli.AddOutputFlags(cmd)

	return cmd
}

func runRemove(cmd *cobra.Command, args []string) error {
	formatter := cli.FormatterFor(cmd)

	id, err := cli.ParseIDArg(args[0], "dependency")
	if err != nil {
		return formatter.Fail(err)
	}

	cliInstance, closeCLI, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer closeCLI()

	depID := types.DependencyID(id)
	if err := cliInstance.App.DependencyService.RemoveDependency(cmd.Context(), depID); err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		return nil
	}

	if formatter.JSON {
		return formatter.JSONResult(map[string]any{"dependency_id": depID})
	}

	fmt.Printf("✓ Dependency %d removed\n", depID)
	return nil
}
