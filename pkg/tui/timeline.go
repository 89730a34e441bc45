package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/plancanvas/plancanvas/pkg/plan"
)

const timelineLabelWidth = 22

// renderTimeline draws one Gantt-style row per dated topic, scaled so the
// full date range fits the terminal width.
func (m Model) renderTimeline(width, height int) string {
	bars, start, totalDays := plan.TimelineBars(m.canvas.Plan.Topics, time.Now())

	gridWidth := width - timelineLabelWidth - 1
	if gridWidth < 14 {
		gridWidth = 14
	}

	var lines []string

	if len(bars) == 0 {
		lines = append(lines, "")
		lines = append(lines, FooterStyle.Render("  No topics with dates yet. Edit a topic (e) and set its start and end date."))
	}

	for _, bar := range bars {
		label := fmt.Sprintf("%-*s", timelineLabelWidth, truncate(bar.Title, timelineLabelWidth-2))
		if bar.TopicID == m.canvas.Selected {
			label = lipgloss.NewStyle().Bold(true).Foreground(ColorPurple).Render(label)
		} else {
			label = lipgloss.NewStyle().Foreground(ColorOffWhite).Render(label)
		}

		offset := bar.OffsetDays * gridWidth / totalDays
		length := bar.DurationDays * gridWidth / totalDays
		if length < 1 {
			length = 1
		}
		if offset+length > gridWidth {
			length = gridWidth - offset
		}

		row := strings.Repeat("·", offset) +
			StatusStyle(bar.Status).Render(strings.Repeat("█", length)) +
			strings.Repeat("·", gridWidth-offset-length)
		lines = append(lines, label+" "+lipgloss.NewStyle().Foreground(ColorGrayDim).Render(row))
	}

	// Today marker and date axis
	today := int(time.Now().Sub(start) / (24 * time.Hour))
	if today >= 0 && today < totalDays {
		col := today * gridWidth / totalDays
		marker := strings.Repeat(" ", timelineLabelWidth+1+col) +
			lipgloss.NewStyle().Foreground(ColorCyan).Render("▲ today")
		lines = append(lines, marker)
	}

	axis := fmt.Sprintf("%-*s %s%*s", timelineLabelWidth, "",
		start.Format("Jan 2"),
		gridWidth-len(start.Format("Jan 2")),
		start.AddDate(0, 0, totalDays).Format("Jan 2"))
	lines = append(lines, "")
	lines = append(lines, FooterStyle.Render(axis))

	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines[:height], "\n")
}
