package project

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/plazo/internal/cli"
	projectservice "github.com/thenoetrevino/plazo/internal/services/project"
)

// CreateCmd returns the project create subcommand
func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new project",
		Long: `Create a new project. Tasks and dependencies always belong to one project.

Examples:
  # Simple project (human-readable output)
  plazo project create --name="Launch"

  # JSON output for agents
  plazo project create --name="Launch" --json

  # Quiet mode for bash capture
  PROJECT_ID=$(plazo project create --name="Launch" --quiet)
`,
		RunE: runCreate,
	}

	// Required flags
	cmd.Flags().String("name", "", "Project name (required)")
	if err := cmd.MarkFlagRequired("name"); err != nil {
		slog.Error("Error marking flag as required", "error", err)
	}

	// Optional flags
	cmd.Flags().String("description", "", "Project description")

	cli.AddOutputFlags(cmd)

	return cmd
}

func runCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.FormatterFor(cmd)

	name, _ := cmd.Flags().GetString("name")
	description, _ := cmd.Flags().GetString("description")

	cliInstance, closeCLI, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer closeCLI()

	project, err := cliInstance.App.ProjectService.CreateProject(ctx, projectservice.CreateProjectRequest{
		Name:        name,
		Description: description,
	})
	if err != nil {
		return formatter.Fail(err)
	}

	// Output based on mode (JSON/Quiet/Human)
	if formatter.Quiet {
		fmt.Printf("%d\n", project.ID)
		return nil
	}

	if formatter.JSON {
		return formatter.JSONResult(map[string]any{
			"project": cli.NewProjectView(project, 0),
		})
	}

	fmt.Printf("✓ Project '%s' created successfully (ID: %d)\n", project.Name, project.ID)
	if project.Description != "" {
		fmt.Printf("  Description: %s\n", project.Description)
	}

	return nil
}
