package project

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/plazo/internal/cli"
	projectservice "github.com/thenoetrevino/plazo/internal/services/project"
	"github.com/thenoetrevino/plazo/internal/types"
)

// UpdateCmd returns the project update subcommand
func UpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <project-id>",
		Short: "Rename a project or change its description",
		Args:  cobra.ExactArgs(1),
		RunE:  runUpdate,
	}

	cmd.Flags().String("name", "", "New project name")
	cmd.Flags().String("description", "", "New project description")

	cli.AddOutputFlags(cmd)

	return cmd
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.FormatterFor(cmd)

	id, err := cli.ParseIDArg(args[0], "project")
	if err != nil {
		return formatter.Fail(err)
	}

	req := projectservice.UpdateProjectRequest{ID: types.ProjectID(id)}
	if cmd.Flags().Changed("name") {
		name, _ := cmd.Flags().GetString("name")
		req.Name = &name
	}
	if cmd.Flags().Changed("description") {
		description, _ := cmd.Flags().GetString("description")
		req.Description = &description
	}
	if req.Name == nil && req.Description == nil {
		return formatter.Fail(cli.UsageError("nothing to update: pass --name or --description"))
	}

	cliInstance, closeCLI, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer closeCLI()

	if err := cliInstance.App.ProjectService.UpdateProject(ctx, req); err != nil {
		return formatter.Fail(err)
	}

	project, err := cliInstance.App.ProjectService.GetProject(ctx, req.ID)
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		fmt.Printf("%d\n", project.ID)
		return nil
	}

	if formatter.JSON {
		return formatter.JSONResult(map[string]any{"project": cli.NewProjectView(project, 0)})
	}

	fmt.Printf("✓ Project %d updated: %s\n", project.ID, project.Name)
	return nil
}
