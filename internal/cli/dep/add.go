package dep

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/plazo/internal/cli"
	"github.com/thenoetrevino/plazo/internal/models"
	dependencyservice "github.com/thenoetrevino/plazo/internal/services/dependency"
	"github.com/thenoetrevino/plazo/internal/types"
)

// AddCmd returns the dep add subcommand
func AddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Make a task depend on another",
		Long: `Make --task depend on --depends-on, then reschedule everything downstream.

Types:
  fs  finish-to-start (default): starts after the predecessor finishes
  ss  start-to-start:  starts when the predecessor starts
  ff  finish-to-finish: finishes when the predecessor finishes
  sf  start-to-finish: finishes when the predecessor starts

--lag shifts the constraint by working days; a negative lag is a lead.
An edge that would close a cycle is rejected and nothing is written.

Examples:
  plazo dep add --task 4 --depends-on 2
  plazo dep add --task 5 --depends-on 2 --type ss --lag 2
`,
		RunE: runAdd,
	}

	cmd.Flags().Int("task", 0, "Dependent task ID (required)")
	if err := cmd.MarkFlagRequired("task"); err != nil {
		slog.Error("Error marking flag as required", "error", err)
	}
	cmd.Flags().Int("depends-on", 0, "Predecessor task ID (required)")
	if err := cmd.MarkFlagRequired("depends-on"); err != nil {
		slog.Error("Error marking flag as required", "error", err)
	}
	cmd.Flags().String("type", "fs", "Dependency type: fs, ss, ff, sf")
	cmd.Flags().Int("lag", 0, "Lag in working days (negative for lead)")

	cli.AddOutputFlags(cmd)

	return cmd
}

func runAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.FormatterFor(cmd)

	taskID, _ := cmd.Flags().GetInt("task")
	dependsOnID, _ := cmd.Flags().GetInt("depends-on")
	typeFlag, _ := cmd.Flags().GetString("type")
	lag, _ := cmd.Flags().GetInt("lag")

	depType, err := models.ParseDependencyType(typeFlag)
	if err != nil {
		return formatter.Fail(fmt.Errorf("%w (got '%s')", dependencyservice.ErrInvalidType, typeFlag))
	}

	cliInstance, closeCLI, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer closeCLI()

	res, err := cliInstance.App.DependencyService.ProposeDependency(ctx, dependencyservice.ProposeDependencyRequest{
		TaskID:      types.TaskID(taskID),
		DependsOnID: types.TaskID(dependsOnID),
		Type:        depType,
		LagDays:     lag,
	})
	if err != nil && (res == nil || !errors.Is(err, models.ErrPropagationIncomplete)) {
		var cycleErr *models.CycleError
		if errors.As(err, &cycleErr) {
			return formatter.FailWithSuggestion(err,
				fmt.Sprintf("Run 'plazo graph check --task %d --depends-on %d' to see the existing path", taskID, dependsOnID))
		}
		return formatter.Fail(err)
	}

	fields := map[string]any{
		"dependency":  cli.NewDependencyView(res.Dependency),
		"propagation": cli.NewPropagationView(res.Propagation),
	}
	suggestion := fmt.Sprintf("Fix the failing tasks, then run: plazo task reschedule %d", dependsOnID)

	switch {
	case formatter.JSON:
		if err != nil {
			return formatter.FailWithResult(err, fields, suggestion)
		}
		return formatter.JSONResult(fields)
	case formatter.Quiet:
		fmt.Printf("%d\n", res.Dependency.ID)
	default:
		d := res.Dependency
		fmt.Printf("✓ Dependency %d created: task %d depends on task %d (%s", d.ID, d.TaskID, d.DependsOnID, d.Type.Short())
		if d.LagDays != 0 {
			fmt.Printf("%+d", d.LagDays)
		}
		fmt.Println(")")
		cli.PrintPropagation(res.Propagation)
	}

	if err != nil {
		return formatter.FailWithSuggestion(err, suggestion)
	}
	return nil
}
