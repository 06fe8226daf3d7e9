package task

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/plazo/internal/cli"
	"github.com/thenoetrevino/plazo/internal/cli/styles"
)

// ListCmd returns the task list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Long:  "List all tasks in a project, ordered by start date.",
		RunE:  runList,
	}

	cmd.Flags().Int("project", 0, "Project ID (uses PLAZO_PROJECT env var if not specified)")

	cli.AddOutputFlags(cmd)

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
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

	if formatter.Quiet {
		for _, t := range tasks {
			fmt.Printf("%d\n", t.ID)
		}
		return nil
	}

	if formatter.JSON {
		return formatter.JSONResult(map[string]any{"tasks": cli.NewTaskViews(tasks)})
	}

	if len(tasks) == 0 {
		fmt.Println("No tasks found")
		return nil
	}

	fmt.Printf("Found %d tasks:\n\n", len(tasks))
	for _, t := range tasks {
		fmt.Println("  " + styles.RenderTaskLine(t))
	}

	return nil
}
