package project

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/plazo/internal/cli"
	"github.com/thenoetrevino/plazo/internal/cli/styles"
)

// ListCmd returns the project list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all projects",
		Long:  "List all projects with their task counts.",
		RunE:  runList,
	}

	cli.AddOutputFlags(cmd)

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.FormatterFor(cmd)

	cliInstance, closeCLI, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer closeCLI()

	projects, err := cliInstance.App.ProjectService.ListProjects(ctx)
	if err != nil {
		return formatter.Fail(err)
	}

	views := make([]cli.ProjectView, 0, len(projects))
	for _, p := range projects {
		count, err := cliInstance.App.ProjectService.GetTaskCount(ctx, p.ID)
		if err != nil {
			return formatter.Fail(err)
		}
		views = append(views, cli.NewProjectView(p, count))
	}

	if formatter.Quiet {
		for _, v := range views {
			fmt.Printf("%d\n", v.ID)
		}
		return nil
	}

	if formatter.JSON {
		return formatter.JSONResult(map[string]any{"projects": views})
	}

	if len(views) == 0 {
		fmt.Println("No projects found")
		return nil
	}

	fmt.Printf("Found %d projects:\n\n", len(views))
	for _, v := range views {
		fmt.Printf("  %s %s %s\n",
			styles.SubtitleStyle.Render(fmt.Sprintf("[%d]", v.ID)),
			styles.TitleStyle.Render(v.Name),
			styles.SubtitleStyle.Render(fmt.Sprintf("(%d tasks)", v.TaskCount)))
	}

	return nil
}
