package project

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/plazo/internal/cli"
	"github.com/thenoetrevino/plazo/internal/types"
)

// DeleteCmd returns the project delete subcommand
func DeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <project-id>",
		Short: "Delete a project",
		Long:  "Delete a project with all its tasks and dependencies (requires confirmation unless --force or --quiet).",
		Args:  cobra.ExactArgs(1),
		RunE:  runDelete,
	}

	// Optional flags
	cmd.Flags().Bool("force", false, "Skip confirmation")

	cli.AddOutputFlags(cmd)

	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.FormatterFor(cmd)
	force, _ := cmd.Flags().GetBool("force")

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

	// Get project details for confirmation
	project, err := cliInstance.App.ProjectService.GetProject(ctx, projectID)
	if err != nil {
		return formatter.Fail(err)
	}
	count, err := cliInstance.App.ProjectService.GetTaskCount(ctx, projectID)
	if err != nil {
		return formatter.Fail(err)
	}

	// Ask for confirmation unless force, quiet or JSON mode
	if !force && !formatter.Quiet && !formatter.JSON {
		if !cli.Confirm(fmt.Sprintf("Delete project #%d '%s' and its %d task(s)?", projectID, project.Name, count)) {
			fmt.Println("Cancelled")
			return nil
		}
	}

	if err := cliInstance.App.ProjectService.DeleteProject(ctx, projectID); err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		return nil
	}

	if formatter.JSON {
		return formatter.JSONResult(map[string]any{"project_id": projectID})
	}

	fmt.Printf("✓ Project %d deleted successfully\n", projectID)
	return nil
}
