package cli

import (
	"fmt"
	"slices"

	"github.com/thenoetrevino/plazo/internal/cli/styles"
	"github.com/thenoetrevino/plazo/internal/schedule"
	"github.com/thenoetrevino/plazo/internal/types"
)

// PrintPropagation writes the human-readable summary of a propagation
func PrintPropagation(r *schedule.Result) {
	if r == nil || (len(r.Updated) == 0 && len(r.Skipped) == 0 && len(r.Failed) == 0) {
		fmt.Println(styles.SubtitleStyle.Render("  No dependent tasks moved"))
		return
	}

	if len(r.Updated) > 0 {
		fmt.Printf("  Rescheduled %d dependent task(s):\n", len(r.Updated))
		for _, c := range r.Updated {
			fmt.Println("    " + styles.RenderChange(c))
		}
	}

	if len(r.Skipped) > 0 {
		fmt.Printf("  %s skipped locked task(s): %v\n", styles.LockedBadge(), r.Skipped)
	}

	if len(r.Failed) > 0 {
		ids := make([]types.TaskID, 0, len(r.Failed))
		for id := range r.Failed {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		fmt.Println("  " + styles.ErrorStyle.Render(fmt.Sprintf("%d task(s) could not be rescheduled:", len(ids))))
		for _, id := range ids {
			fmt.Printf("    [%d] %v\n", id, r.Failed[id])
		}
	}
}
