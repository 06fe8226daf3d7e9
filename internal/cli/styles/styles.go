// Package styles renders CLI output with the configured color scheme
package styles

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/thenoetrevino/plazo/internal/config"
	"github.com/thenoetrevino/plazo/internal/models"
	"github.com/thenoetrevino/plazo/internal/schedule"
)

var (
	// Card styles
	CardStyle lipgloss.Style
	CardWidth = 72

	// Text styles
	TitleStyle    lipgloss.Style
	SubtitleStyle lipgloss.Style
	LabelStyle    lipgloss.Style // For field labels like "Start:", "Duration:"
	ValueStyle    lipgloss.Style // For field values
	SectionStyle  lipgloss.Style // For section headers like "Depends on"

	// Schedule styles
	MovedStyle  lipgloss.Style
	LockedStyle lipgloss.Style

	// Status styles
	SuccessStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	WarningStyle lipgloss.Style
)

// Init initializes all CLI styles with the given color scheme
func Init(colors config.ColorScheme) {
	CardStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(colors.Border)).
		Padding(0, 1).
		Width(CardWidth)

	TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colors.Title))

	SubtitleStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colors.Subtle))

	LabelStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colors.Accent))

	ValueStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colors.Normal))

	SectionStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colors.Accent)).
		Bold(true).
		MarginTop(1)

	MovedStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colors.Moved))

	LockedStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colors.Locked))

	SuccessStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colors.Success))

	ErrorStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colors.Error))

	WarningStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colors.Warning))
}

// ═══════════════════════════════════════════════════════════════════
// HELPER FUNCTIONS
// ═══════════════════════════════════════════════════════════════════

// LockedBadge marks a task that propagation never moves
func LockedBadge() string {
	return LockedStyle.Render("[locked]")
}

// DateRange renders "start → end"
func DateRange(start, end string) string {
	return start + " → " + end
}

// RenderTaskLine renders a task as one list line
// Format: "[12] Title  2024-01-01 → 2024-01-03 (3d) [locked]"
func RenderTaskLine(t *models.Task) string {
	line := fmt.Sprintf("%s %s  %s %s",
		SubtitleStyle.Render(fmt.Sprintf("[%d]", t.ID)),
		TitleStyle.Render(t.Title),
		ValueStyle.Render(DateRange(t.StartDate.Format(models.DateLayout), t.EndDate.Format(models.DateLayout))),
		SubtitleStyle.Render(fmt.Sprintf("(%dd)", t.Duration)))
	if t.IsLocked {
		line += " " + LockedBadge()
	}
	return line
}

// RenderChange renders one rescheduled task
// Format: "[12] 2024-01-01 → 2024-01-03  ⇒  2024-01-04 → 2024-01-08"
func RenderChange(c schedule.Change) string {
	return fmt.Sprintf("%s %s  ⇒  %s",
		SubtitleStyle.Render(fmt.Sprintf("[%d]", c.TaskID)),
		SubtitleStyle.Render(DateRange(c.OldStart.Format(models.DateLayout), c.OldEnd.Format(models.DateLayout))),
		MovedStyle.Render(DateRange(c.NewStart.Format(models.DateLayout), c.NewEnd.Format(models.DateLayout))))
}

// RenderField renders "Label: value"
func RenderField(label, value string) string {
	return LabelStyle.Render(label+":") + " " + ValueStyle.Render(value)
}

// RenderCard wraps content in a styled card border
func RenderCard(lines ...string) string {
	return CardStyle.Render(strings.Join(lines, "\n"))
}
