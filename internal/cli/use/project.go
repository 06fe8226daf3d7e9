package use

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/plazo/internal/cli"
	"github.com/thenoetrevino/plazo/internal/types"
)

// ProjectCmd returns the use project subcommand
func ProjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project [project-id]",
		Short: "Set project context for current shell session",
		Long: `Set the current project context using environment variables.
This command outputs shell commands that should be evaluated:

  eval $(plazo use project 3)              # Use project 3
  eval $(plazo use project --clear)        # Clear project context
  plazo use project --show                 # Show current project

The PLAZO_PROJECT environment variable will be set in your current shell
session only. The --project flag on other commands takes precedence over
this environment variable.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runUseProject,
	}

	cmd.Flags().Bool("clear", false, "Clear the current project context")
	cmd.Flags().Bool("show", false, "Show the current project context")
	cmd.Flags().Bool("dry-run", false, "Show what would be exported without outputting shell commands")

	return cmd
}

func runUseProject(cmd *cobra.Command, args []string) error {
	formatter := &cli.OutputFormatter{}

	clearFlag, _ := cmd.Flags().GetBool("clear")
	showFlag, _ := cmd.Flags().GetBool("show")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	if showFlag {
		return showCurrentProject(cmd)
	}

	if clearFlag {
		if dryRun {
			fmt.Fprintf(os.Stderr, "Would clear %s\n", cli.EnvProject)
			return nil
		}
		fmt.Printf("unset %s\n", cli.EnvProject)
		fmt.Fprintf(os.Stderr, "Cleared project context\n")
		return nil
	}

	if len(args) == 0 {
		return formatter.FailWithSuggestion(cli.UsageError("project ID required"),
			"Usage: eval $(plazo use project <project-id>)")
	}

	id, err := cli.ParseIDArg(args[0], "project")
	if err != nil {
		return formatter.Fail(err)
	}

	cliInstance, closeCLI, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer closeCLI()

	project, err := cliInstance.App.ProjectService.GetProject(cmd.Context(), types.ProjectID(id))
	if err != nil {
		return formatter.Fail(err)
	}

	if dryRun {
		fmt.Fprintf(os.Stderr, "Would set %s=%d (%s)\n", cli.EnvProject, project.ID, project.Name)
		return nil
	}

	// stdout is for eval
	fmt.Printf("export %s=%d\n", cli.EnvProject, project.ID)
	fmt.Fprintf(os.Stderr, "Now using project %d: %s\n", project.ID, project.Name)

	return nil
}

func showCurrentProject(cmd *cobra.Command) error {
	current := os.Getenv(cli.EnvProject)
	if current == "" {
		fmt.Println("No project context set")
		fmt.Println("Use 'eval $(plazo use project <project-id>)' to set one")
		return nil
	}

	id, err := cli.ParseIDArg(current, "project")
	if err != nil {
		fmt.Printf("Invalid project context: %s\n", current)
		return nil
	}

	cliInstance, closeCLI, err := cli.Open(cmd, &cli.OutputFormatter{})
	if err != nil {
		return err
	}
	defer closeCLI()

	project, err := cliInstance.App.ProjectService.GetProject(cmd.Context(), types.ProjectID(id))
	if err != nil {
		fmt.Printf("Current project: %s (project not found)\n", current)
		return nil
	}

	fmt.Printf("Current project: %d (%s)\n", project.ID, project.Name)
	return nil
}
