package task

import (
	"errors"
	"fmt"

	"github.com/thenoetrevino/plazo/internal/cli"
	"github.com/thenoetrevino/plazo/internal/cli/styles"
	"github.com/thenoetrevino/plazo/internal/models"
	taskservice "github.com/thenoetrevino/plazo/internal/services/task"
)

// reportScheduleChange prints the outcome of a date-changing command.
// A partial propagation still reports what did move before failing.
func reportScheduleChange(formatter *cli.OutputFormatter, verb string, res *taskservice.ScheduleChangeResult, err error) error {
	if err != nil && (res == nil || !errors.Is(err, models.ErrPropagationIncomplete)) {
		return formatter.Fail(err)
	}

	fields := map[string]any{
		"task":        cli.NewTaskView(res.Task),
		"propagation": cli.NewPropagationView(res.Propagation),
	}
	suggestion := fmt.Sprintf("Fix the failing tasks, then run: plazo task reschedule %d", res.Task.ID)

	switch {
	case formatter.JSON:
		if err != nil {
			return formatter.FailWithResult(err, fields, suggestion)
		}
		return formatter.JSONResult(fields)
	case formatter.Quiet:
		fmt.Printf("%d\n", res.Task.ID)
	default:
		fmt.Printf("✓ Task %d %s\n", res.Task.ID, verb)
		fmt.Println("  " + styles.RenderTaskLine(res.Task))
		if res.Task.IsLocked && res.Propagation == nil {
			fmt.Println(styles.SubtitleStyle.Render("  Locked tasks do not propagate"))
		} else {
			cli.PrintPropagation(res.Propagation)
		}
	}

	if err != nil {
		return formatter.FailWithSuggestion(err, suggestion)
	}
	return nil
}
