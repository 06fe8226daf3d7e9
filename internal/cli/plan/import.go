package plan

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/plazo/internal/cli"
	planpkg "github.com/thenoetrevino/plazo/internal/plan"
	"github.com/thenoetrevino/plazo/internal/types"
)

// ImportCmd returns the plan import subcommand
func ImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Create a project from a plan file",
		Long: `Create a new project with every task and dependency of a plan file.

Tasks are created with the dates in the file; each dependency then pushes
its dependents later exactly as 'plazo dep add' would. When anything fails
the new project is removed again.

HCL plans may use the variable 'today' and the function
add_workdays(date, n):

  task "build" {
    title = "Build"
    start = add_workdays(today, 3)
    depends_on "design" {}
  }

Examples:
  plazo plan import launch.yaml
  PROJECT_ID=$(plazo plan import launch.hcl --today 2024-01-01 --quiet)
`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	cmd.Flags().String("today", "today", "Value of 'today' in HCL plans (YYYY-MM-DD)")
	cli.AddOutputFlags(cmd)

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	formatter := cli.FormatterFor(cmd)

	todayFlag, _ := cmd.Flags().GetString("today")
	today, err := cli.ParseDate(todayFlag)
	if err != nil {
		return formatter.Fail(err)
	}

	p, err := planpkg.Load(args[0], today)
	if err != nil {
		return formatter.Fail(err)
	}

	cliInstance, closeCLI, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer closeCLI()

	res, err := cliInstance.App.PlanService.Import(cmd.Context(), p)
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		fmt.Printf("%d\n", res.Project.ID)
		return nil
	}

	if formatter.JSON {
		return formatter.JSONResult(map[string]any{
			"project":      cli.NewProjectView(res.Project, len(res.Tasks)),
			"tasks":        res.Tasks,
			"dependencies": res.Dependencies,
			"rescheduled":  res.Rescheduled,
		})
	}

	fmt.Printf("✓ Imported project '%s' (ID: %d)\n", res.Project.Name, res.Project.ID)
	fmt.Printf("  %d tasks, %d dependencies", len(res.Tasks), res.Dependencies)
	if res.Rescheduled > 0 {
		fmt.Printf(", %d tasks moved to satisfy dependencies", res.Rescheduled)
	}
	fmt.Println()
	for _, key := range sortedKeys(res.Tasks) {
		fmt.Printf("    %-20s → %d\n", key, res.Tasks[key])
	}
	return nil
}

// sortedKeys orders plan keys by the ids they were given, which is file order
func sortedKeys(ids map[string]types.TaskID) []string {
	return slices.SortedFunc(maps.Keys(ids), func(a, b string) int {
		return int(ids[a]) - int(ids[b])
	})
}
