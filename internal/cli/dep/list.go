package dep

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/plazo/internal/cli"
	"github.com/thenoetrevino/plazo/internal/models"
	"github.com/thenoetrevino/plazo/internal/types"
)

// ListCmd returns the dep list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List dependencies of a task or a whole project",
		Long: `List dependency edges.

With --task, --direction picks the edges the task owns (out, the default)
or the edges pointing at it (in). Without --task every edge of the project
is listed.`,
		RunE: runList,
	}

	cmd.Flags().Int("task", 0, "Task ID")
	cmd.Flags().String("direction", "out", "With --task: out (depends on) or in (dependents)")
	cmd.Flags().Int("project", 0, "Project ID (uses PLAZO_PROJECT env var if not specified)")

	cli.AddOutputFlags(cmd)

	return cmd
}

func parseDirection(s string) (models.Direction, error) {
	switch strings.ToLower(s) {
	case "out", "outgoing":
		return models.Outgoing, nil
	case "in", "incoming":
		return models.Incoming, nil
	}
	return 0, cli.UsageError("invalid direction '%s' (must be: in, out)", s)
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.FormatterFor(cmd)

	var (
		deps []*models.Dependency
		err  error
	)

	if cmd.Flags().Changed("task") {
		taskID, _ := cmd.Flags().GetInt("task")
		directionFlag, _ := cmd.Flags().GetString("direction")
		dir, dirErr := parseDirection(directionFlag)
		if dirErr != nil {
			return formatter.Fail(dirErr)
		}

		cliInstance, closeCLI, openErr := cli.Open(cmd, formatter)
		if openErr != nil {
			return openErr
		}
		defer closeCLI()
		deps, err = cliInstance.App.DependencyService.ListDependencies(ctx, types.TaskID(taskID), dir)
	} else {
		projectID, idErr := cli.GetProjectID(cmd)
		if idErr != nil {
			return formatter.FailWithSuggestion(idErr, "Pass --task, --project or set PLAZO_PROJECT")
		}

		cliInstance, closeCLI, openErr := cli.Open(cmd, formatter)
		if openErr != nil {
			return openErr
		}
		defer closeCLI()
		if _, err = cliInstance.App.ProjectService.GetProject(ctx, projectID); err == nil {
			deps, err = cliInstance.App.DependencyService.ListProjectDependencies(ctx, projectID)
		}
	}
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		for _, d := range deps {
			fmt.Printf("%d\n", d.ID)
		}
		return nil
	}

	if formatter.JSON {
		return formatter.JSONResult(map[string]any{"dependencies": cli.NewDependencyViews(deps)})
	}

	if len(deps) == 0 {
		fmt.Println("No dependencies found")
		return nil
	}

	fmt.Printf("Found %d dependencies:\n\n", len(deps))
	for _, d := range deps {
		line := fmt.Sprintf("  [%d] task %d depends on task %d  %s", d.ID, d.TaskID, d.DependsOnID, d.Type.Short())
		if d.LagDays != 0 {
			line += fmt.Sprintf("%+d", d.LagDays)
		}
		fmt.Println(line)
	}
	return nil
}
