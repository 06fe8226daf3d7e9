package graph

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/plazo/internal/cli"
	"github.com/thenoetrevino/plazo/internal/cli/styles"
	"github.com/thenoetrevino/plazo/internal/types"
)

// CheckCmd returns the graph check subcommand
func CheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check whether a dependency would create a cycle",
		Long: `Answer whether "--task depends on --depends-on" would close a cycle,
without writing anything. When it would, the existing chain of dependencies
that the new edge would close is printed.

The exit code is 0 either way; read "would_cycle" in --json mode.`,
		RunE: runCheck,
	}

	cmd.Flags().Int("task", 0, "Dependent task ID (required)")
	if err := cmd.MarkFlagRequired("task"); err != nil {
		slog.Error("Error marking flag as required", "error", err)
	}
	cmd.Flags().Int("depends-on", 0, "Predecessor task ID (required)")
	if err := cmd.MarkFlagRequired("depends-on"); err != nil {
		slog.Error("Error marking flag as required", "error", err)
	}

	cli.AddOutputFlags(cmd)

	return cmd
}

func formatPath(path []types.TaskID) string {
	parts := make([]string, len(path))
	for i, id := range path {
		parts[i] = id.String()
	}
	return strings.Join(parts, " → ")
}

func runCheck(cmd *cobra.Command, args []string) error {
	formatter := cli.FormatterFor(cmd)

	taskID, _ := cmd.Flags().GetInt("task")
	dependsOnID, _ := cmd.Flags().GetInt("depends-on")

	cliInstance, closeCLI, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer closeCLI()

	check, err := cliInstance.App.DependencyService.CheckCycle(cmd.Context(), types.TaskID(taskID), types.TaskID(dependsOnID))
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		fmt.Println(check.WouldCycle)
		return nil
	}

	if formatter.JSON {
		fields := map[string]any{
			"task_id":       check.TaskID,
			"depends_on_id": check.DependsOnID,
			"would_cycle":   check.WouldCycle,
		}
		if check.WouldCycle {
			fields["path"] = check.Path
		}
		return formatter.JSONResult(fields)
	}

	if !check.WouldCycle {
		fmt.Println(styles.SuccessStyle.Render("✓") +
			fmt.Sprintf(" Task %d can depend on task %d", check.TaskID, check.DependsOnID))
		return nil
	}

	fmt.Println(styles.ErrorStyle.Render("✗") +
		fmt.Sprintf(" Task %d depending on task %d would create a cycle", check.TaskID, check.DependsOnID))
	if check.TaskID != check.DependsOnID {
		fmt.Printf("  Existing chain: %s\n", formatPath(check.Path))
		fmt.Printf("  The new edge would close it: %d → %d\n", check.TaskID, check.DependsOnID)
	}
	return nil
}
