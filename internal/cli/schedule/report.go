package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/plazo/internal/cli"
	"github.com/thenoetrevino/plazo/internal/cli/styles"
	"github.com/thenoetrevino/plazo/internal/models"
	"github.com/thenoetrevino/plazo/internal/types"
	"github.com/thenoetrevino/plazo/internal/workday"
)

// ReportCmd returns the schedule report subcommand
func ReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print a project's schedule as a table",
		Long: `Print every task of a project in start order with its dates and
dependencies, followed by the project's overall span.

The report is markdown; --raw prints it without terminal styling so it can
be pasted into docs or tickets.`,
		RunE: runReport,
	}

	cmd.Flags().Int("project", 0, "Project ID (uses PLAZO_PROJECT env var if not specified)")
	cmd.Flags().Bool("raw", false, "Print plain markdown")
	cmd.Flags().Int("width", 100, "Wrap width for styled output")

	cli.AddOutputFlags(cmd)

	return cmd
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.FormatterFor(cmd)
	raw, _ := cmd.Flags().GetBool("raw")
	width, _ := cmd.Flags().GetInt("width")

	projectID, err := cli.GetProjectID(cmd)
	if err != nil {
		return formatter.FailWithSuggestion(err, "Set project with: eval $(plazo use project <project-id>)")
	}

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
	deps, err := cliInstance.App.DependencyService.ListProjectDependencies(ctx, projectID)
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.JSON {
		start, end, days := span(tasks)
		fields := map[string]any{
			"project":      cli.NewProjectView(project, len(tasks)),
			"tasks":        cli.NewTaskViews(tasks),
			"dependencies": cli.NewDependencyViews(deps),
			"working_days": days,
		}
		if days > 0 {
			fields["start"] = start.Format(models.DateLayout)
			fields["end"] = end.Format(models.DateLayout)
		}
		return formatter.JSONResult(fields)
	}

	md := buildReport(project, tasks, deps)
	if raw || formatter.Quiet {
		fmt.Print(md)
		return nil
	}
	fmt.Println(styles.RenderMarkdown(md, width))
	return nil
}

// span returns the first start, the last end and the working days between
func span(tasks []*models.Task) (start, end time.Time, days int) {
	for i, t := range tasks {
		if i == 0 || t.StartDate.Before(start) {
			start = t.StartDate
		}
		if i == 0 || t.EndDate.After(end) {
			end = t.EndDate
		}
	}
	if len(tasks) == 0 {
		return start, end, 0
	}
	return start, end, workday.CountWorkingDays(start, end)
}

// buildReport renders the schedule as a markdown document
func buildReport(project *models.Project, tasks []*models.Task, deps []*models.Dependency) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", project.Name)
	if project.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", project.Description)
	}

	if len(tasks) == 0 {
		b.WriteString("_No tasks yet._\n")
		return b.String()
	}

	preds := make(map[types.TaskID][]string)
	for _, d := range deps {
		ref := fmt.Sprintf("#%d %s", d.DependsOnID, d.Type.Short())
		if d.LagDays != 0 {
			ref += fmt.Sprintf("%+d", d.LagDays)
		}
		preds[d.TaskID] = append(preds[d.TaskID], ref)
	}

	b.WriteString("| # | Task | Start | End | Days | Depends on |\n")
	b.WriteString("|---|------|-------|-----|-----:|------------|\n")
	for _, t := range tasks {
		title := escapeCell(t.Title)
		if t.IsLocked {
			title += " 🔒"
		}
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s |\n",
			t.ID,
			title,
			t.StartDate.Format(models.DateLayout),
			t.EndDate.Format(models.DateLayout),
			strconv.Itoa(t.Duration),
			strings.Join(preds[t.ID], ", "))
	}

	start, end, days := span(tasks)
	fmt.Fprintf(&b, "\n**Span:** %s → %s (%d working days)\n",
		start.Format(models.DateLayout), end.Format(models.DateLayout), days)
	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
