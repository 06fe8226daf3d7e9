package schedule

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/plazo/internal/cli"
	"github.com/thenoetrevino/plazo/internal/models"
	"github.com/thenoetrevino/plazo/internal/schedule"
	"github.com/thenoetrevino/plazo/internal/types"
)

// PropagateCmd returns the schedule propagate subcommand
func PropagateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "propagate",
		Short: "Re-apply every dependency in a project",
		Long: `Walk a project from its root tasks (tasks that depend on nothing) and
push every task whose dependencies are not met. Locked tasks are skipped.

Use it to repair a project after a propagation that did not finish or after
tasks were unlocked.`,
		RunE: runPropagate,
	}

	cmd.Flags().Int("project", 0, "Project ID (uses PLAZO_PROJECT env var if not specified)")
	cli.AddOutputFlags(cmd)

	return cmd
}

// roots returns the tasks that own no dependency edge, in list order
func roots(tasks []*models.Task, deps []*models.Dependency) []types.TaskID {
	hasPred := make(map[types.TaskID]bool, len(deps))
	for _, d := range deps {
		hasPred[d.TaskID] = true
	}
	var ids []types.TaskID
	for _, t := range tasks {
		if !hasPred[t.ID] {
			ids = append(ids, t.ID)
		}
	}
	return ids
}

func runPropagate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.FormatterFor(cmd)

	projectID, err := cli.GetProjectID(cmd)
	if err != nil {
		return formatter.FailWithSuggestion(err, "Set project with: eval $(plazo use project <project-id>)")
	}

	cliInstance, closeCLI, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer closeCLI()

	if _, err := cliInstance.App.ProjectService.GetProject(ctx, projectID); err != nil {
		return formatter.Fail(err)
	}
	tasks, err := cliInstance.App.TaskService.ListTasks(ctx, projectID)
	if err != nil {
		return formatter.Fail(err)
	}
	deps, err := cliInstance.App.DependencyService.ListProjectDependencies(ctx, projectID)
	if err != nil {
		return formatter.Fail(err)
	}

	total := &schedule.Result{ProjectID: projectID}
	rootIDs := roots(tasks, deps)
	var errs []error
	for _, id := range rootIDs {
		res, err := cliInstance.App.TaskService.Reschedule(ctx, id)
		if res != nil {
			total.Merge(res.Propagation)
		}
		if err != nil {
			if !errors.Is(err, models.ErrPropagationIncomplete) {
				return formatter.Fail(err)
			}
			errs = append(errs, err)
		}
	}
	err = errors.Join(errs...)

	fields := map[string]any{"propagation": cli.NewPropagationView(total)}
	switch {
	case formatter.JSON:
		if err != nil {
			return formatter.FailWithResult(err, fields, "")
		}
		return formatter.JSONResult(fields)
	case formatter.Quiet:
		for _, id := range total.UpdatedIDs() {
			fmt.Printf("%d\n", id)
		}
	default:
		fmt.Printf("✓ Propagated project %d from %d root task(s)\n", projectID, len(rootIDs))
		cli.PrintPropagation(total)
	}

	if err != nil {
		return formatter.Fail(err)
	}
	return nil
}
