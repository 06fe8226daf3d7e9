package project

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/plazo/internal/cli"
	"github.com/thenoetrevino/plazo/internal/cli/styles"
	"github.com/thenoetrevino/plazo/internal/models"
	"github.com/thenoetrevino/plazo/internal/types"
)

// ShowCmd returns the project show subcommand
func ShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <project-id>",
		Short: "Show a project and its tasks",
		Args:  cobra.ExactArgs(1),
		RunE:  runShow,
	}

	cli.AddOutputFlags(cmd)

	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.FormatterFor(cmd)

	id, err := cli.ParseIDArg(args[0], "project")
	if err != nil {
		return formatter.Fail(err)
	}
	projectID := types.ProjectID(id)

	cliInstance, closeCLI, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer closeCLI()

	project, err := cliInstance.App.ProjectService.GetProject(ctx, projectID)
	if err != nil {
		return formatter.Fail(err)
	}
	tasks, err := cliInstance.App.TaskService.ListTasks(ctx, projectID)
	if err != nil {
		return formatter.Fail(err)
	}

	view := cli.NewProjectView(project, len(tasks))

	if formatter.Quiet {
		fmt.Printf("%d\n", project.ID)
		return nil
	}

	if formatter.JSON {
		return formatter.JSONResult(map[string]any{
			"project": view,
			"tasks":   cli.NewTaskViews(tasks),
		})
	}

	lines := []string{styles.TitleStyle.Render(fmt.Sprintf("#%d %s", project.ID, project.Name))}
	if project.Description != "" {
		lines = append(lines, styles.SubtitleStyle.Render(project.Description))
	}
	lines = append(lines, "", styles.RenderField("Tasks", fmt.Sprintf("%d", len(tasks))))
	if len(tasks) > 0 {
		lines = append(lines,
			styles.RenderField("Starts", tasks[0].StartDate.Format(models.DateLayout)),
			styles.RenderField("Finishes", latestEnd(tasks)))
	}
	fmt.Println(styles.RenderCard(lines...))

	for _, t := range tasks {
		fmt.Println("  " + styles.RenderTaskLine(t))
	}

	return nil
}

// latestEnd is the project's finish date: the last end among its tasks
func latestEnd(tasks []*models.Task) string {
	end := tasks[0].EndDate
	for _, t := range tasks[1:] {
		if t.EndDate.After(end) {
			end = t.EndDate
		}
	}
	return end.Format(models.DateLayout)
}
