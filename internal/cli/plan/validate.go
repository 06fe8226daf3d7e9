package plan

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/plazo/internal/cli"
	planpkg "github.com/thenoetrevino/plazo/internal/plan"
)

// ValidateCmd returns the plan validate subcommand
func ValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a plan file without importing it",
		Long: `Decode and validate a plan file. Every problem is reported at once,
including unknown task references and dependency cycles. Nothing is
written to the database.`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}

	cmd.Flags().String("today", "today", "Value of 'today' in HCL plans (YYYY-MM-DD)")
	cli.AddOutputFlags(cmd)

	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
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

	if formatter.Quiet {
		return nil
	}

	if formatter.JSON {
		return formatter.JSONResult(map[string]any{
			"project":      p.Project,
			"tasks":        len(p.Tasks),
			"dependencies": p.EdgeCount(),
		})
	}

	fmt.Printf("✓ %s is a valid plan: project '%s', %d tasks, %d dependencies\n",
		args[0], p.Project, len(p.Tasks), p.EdgeCount())
	return nil
}
