package tui

import (
	"fmt"
	"strings"

	"github.com/plancanvas/plancanvas/pkg/plan"
)

// renderDashboard summarizes the plan: goal card, overall and per-topic
// progress, and the incomplete tasks grouped by topic.
func (m Model) renderDashboard(width, height int) string {
	p := m.canvas.Plan
	var lines []string

	if card := m.renderGoalCard(width); card != "" {
		lines = append(lines, strings.Split(card, "\n")...)
	}

	overall := plan.OverallProgress(p)
	barWidth := width - 30
	if barWidth < 10 {
		barWidth = 10
	}
	lines = append(lines,
		HeaderStyle.Render("Overall Progress"),
		fmt.Sprintf("  %s %d%%", progressBar(overall, barWidth), overall),
		"")

	if len(p.Topics) > 0 {
		lines = append(lines, HeaderStyle.Render("Topics"))
		for _, t := range p.Topics {
			icon := StatusStyle(t.Status).Render(StatusIcon(t.Status))
			lines = append(lines, fmt.Sprintf("  %s %-24s %s %3d%%",
				icon, truncate(t.Title, 24), progressBar(t.Progress, 20), t.Progress))
		}
		lines = append(lines, "")
	}

	upcoming := plan.UpcomingTasks(p)
	lines = append(lines, HeaderStyle.Render("Upcoming Tasks"))
	if len(upcoming) == 0 {
		lines = append(lines, FooterStyle.Render("  All caught up."))
	}
	for _, u := range upcoming {
		icon := StatusStyle(u.Task.Status).Render(StatusIcon(u.Task.Status))
		due := ""
		if !u.Task.DueDate.IsZero() {
			due = FooterStyle.Render("due " + u.Task.DueDate.Format("Jan 2"))
		}
		lines = append(lines, fmt.Sprintf("  %s %-30s %-20s %s",
			icon, u.Task.Title, FooterStyle.Render(u.TopicTitle), due))
	}

	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines[:height], "\n")
}

// renderGoalCard renders the goal and description through glamour, falling
// back to plain text when the renderer is unavailable.
func (m Model) renderGoalCard(width int) string {
	p := m.canvas.Plan
	var md strings.Builder
	if p.Goal.Objective != "" {
		md.WriteString("**Goal:** " + p.Goal.Objective + "\n\n")
	}
	if p.Goal.Motivation != "" {
		md.WriteString("*" + p.Goal.Motivation + "*\n\n")
	}
	if p.Description != "" {
		md.WriteString(p.Description + "\n")
	}
	if md.Len() == 0 {
		return ""
	}

	r := m.getGlamourRenderer(width)
	if r == nil {
		return md.String()
	}
	out, err := r.Render(md.String())
	if err != nil {
		return md.String()
	}
	return strings.TrimRight(out, "\n") + "\n"
}
