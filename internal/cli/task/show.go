package task

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/plazo/internal/cli"
	"github.com/thenoetrevino/plazo/internal/cli/styles"
	"github.com/thenoetrevino/plazo/internal/models"
	"github.com/thenoetrevino/plazo/internal/types"
)

// ShowCmd returns the task show subcommand
func ShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <task-id>",
		Short: "Show a task with its predecessors and dependents",
		Args:  cobra.ExactArgs(1),
		RunE:  runShow,
	}

	cli.AddOutputFlags(cmd)

	return cmd
}

type edgeView struct {
	DependencyID types.DependencyID `json:"dependency_id"`
	Type         string             `json:"type"`
	LagDays      int                `json:"lag_days"`
	Task         cli.TaskView       `json:"task"`
}

func newEdgeViews(refs []*models.DependencyReference, projectID types.ProjectID) []edgeView {
	views := make([]edgeView, 0, len(refs))
	for _, r := range refs {
		views = append(views, edgeView{
			DependencyID: r.DependencyID,
			Type:         string(r.Type),
			LagDays:      r.LagDays,
			Task: cli.TaskView{
				ID:        r.Task.ID,
				ProjectID: projectID,
				Title:     r.Task.Title,
				Start:     r.Task.StartDate.Format(models.DateLayout),
				End:       r.Task.EndDate.Format(models.DateLayout),
				Locked:    r.Task.IsLocked,
			},
		})
	}
	return views
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.FormatterFor(cmd)

	id, err := cli.ParseIDArg(args[0], "task")
	if err != nil {
		return formatter.Fail(err)
	}

	cliInstance, closeCLI, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer closeCLI()

	detail, err := cliInstance.App.TaskService.GetTaskDetail(ctx, types.TaskID(id))
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		fmt.Printf("%d\n", detail.ID)
		return nil
	}

	if formatter.JSON {
		return formatter.JSONResult(map[string]any{
			"task":         cli.NewTaskView(&detail.Task),
			"project":      detail.ProjectName,
			"predecessors": newEdgeViews(detail.Predecessors, detail.ProjectID),
			"dependents":   newEdgeViews(detail.Dependents, detail.ProjectID),
		})
	}

	header := styles.TitleStyle.Render(fmt.Sprintf("#%d %s", detail.ID, detail.Title))
	if detail.IsLocked {
		header += " " + styles.LockedBadge()
	}
	lines := []string{
		header,
		styles.SubtitleStyle.Render(detail.ProjectName),
		"",
		styles.RenderField("Start", detail.StartDate.Format(models.DateLayout)),
		styles.RenderField("End", detail.EndDate.Format(models.DateLayout)),
		styles.RenderField("Duration", strconv.Itoa(detail.Duration)+" working days"),
	}
	lines = appendEdges(lines, "Depends on", detail.Predecessors)
	lines = appendEdges(lines, "Dependents", detail.Dependents)

	fmt.Println(styles.RenderCard(lines...))
	return nil
}

func appendEdges(lines []string, section string, refs []*models.DependencyReference) []string {
	if len(refs) == 0 {
		return lines
	}
	lines = append(lines, styles.SectionStyle.Render(section))
	for _, r := range refs {
		line := fmt.Sprintf("• [%d] %s  %s", r.Task.ID, r.Task.Title, r.Type.Short())
		if r.LagDays != 0 {
			line += fmt.Sprintf("%+d", r.LagDays)
		}
		line += "  " + styles.SubtitleStyle.Render(styles.DateRange(
			r.Task.StartDate.Format(models.DateLayout), r.Task.EndDate.Format(models.DateLayout)))
		if r.Task.IsLocked {
			line += " " + styles.LockedBadge()
		}
		lines = append(lines, line)
	}
	return lines
}
