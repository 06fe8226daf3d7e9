package plan

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/plazo/internal/cli"
	planpkg "github.com/thenoetrevino/plazo/internal/plan"
)

// ExportCmd returns the plan export subcommand
func ExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a project as a plan file",
		Long: `Write a project, its tasks and dependencies as a plan. Task keys are made
from the titles. Importing the output again recreates the same schedule.

Without --output the plan goes to stdout. The format defaults to the
extension of --output, or yaml.

Examples:
  plazo plan export --project 1 > launch.yaml
  plazo plan export --project 1 --output launch.hcl
  plazo plan export --project 1 --format toml
`,
		RunE: runExport,
	}

	cmd.Flags().Int("project", 0, "Project ID (uses PLAZO_PROJECT env var if not specified)")
	cmd.Flags().String("format", "", "yaml, json, toml or hcl")
	cmd.Flags().StringP("output", "o", "", "Write to a file instead of stdout")

	return cmd
}

func exportFormat(formatFlag, output string) (planpkg.Format, error) {
	switch {
	case formatFlag != "":
		return planpkg.ParseFormat(formatFlag)
	case output != "":
		return planpkg.FormatFromPath(output)
	}
	return planpkg.FormatYAML, nil
}

func runExport(cmd *cobra.Command, args []string) error {
	// the plan itself is the output, so errors are reported as text
	formatter := &cli.OutputFormatter{}

	formatFlag, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	projectID, err := cli.GetProjectID(cmd)
	if err != nil {
		return formatter.FailWithSuggestion(err, "Set project with: eval $(plazo use project <project-id>)")
	}

	format, err := exportFormat(formatFlag, output)
	if err != nil {
		return formatter.Fail(err)
	}

	cliInstance, closeCLI, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer closeCLI()

	p, err := cliInstance.App.PlanService.Export(cmd.Context(), projectID)
	if err != nil {
		return formatter.Fail(err)
	}

	data, err := planpkg.Encode(p, format)
	if err != nil {
		return formatter.Fail(err)
	}

	if output == "" {
		_, err = os.Stdout.Write(data)
		return err
	}

	if err := os.WriteFile(output, data, 0o644); err != nil {
		return formatter.Fail(fmt.Errorf("failed to write plan: %w", err))
	}
	fmt.Fprintf(os.Stderr, "✓ Wrote %d tasks to %s\n", len(p.Tasks), output)
	return nil
}
