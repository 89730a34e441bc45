package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/plancanvas/plancanvas/pkg/plan"
)

// Color palette
var (
	ColorPurple      = lipgloss.Color("#7D56F4")
	ColorGreen       = lipgloss.Color("#25A065")
	ColorBlue        = lipgloss.Color("#4285F4")
	ColorRed         = lipgloss.Color("#E05252")
	ColorYellow      = lipgloss.Color("#E5C07B")
	ColorGray        = lipgloss.Color("#626262")
	ColorGrayDim     = lipgloss.Color("#404040")
	ColorWhite       = lipgloss.Color("#FFFFFF")
	ColorOffWhite    = lipgloss.Color("#D0D0D0")
	ColorCyan        = lipgloss.Color("#56B6C2")
	ColorSelectionBg = lipgloss.Color("#2D3B4D")
)

// Header styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPurple)

	HeaderCountStyle = lipgloss.NewStyle().
				Foreground(ColorGray)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorGray)
)

// View tab styles
var (
	ActiveTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWhite).
			Background(ColorPurple).
			Padding(0, 1)

	InactiveTabStyle = lipgloss.NewStyle().
				Foreground(ColorGray).
				Padding(0, 1)
)

// Save indicator styles
var (
	SaveIdleStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	SaveSavingStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)

	SaveSuccessStyle = lipgloss.NewStyle().
				Foreground(ColorGreen)

	SaveErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed)
)

// Status styles
var (
	CompletedStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	InProgressStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)

	NotStartedStyle = lipgloss.NewStyle().
			Foreground(ColorOffWhite)
)

// Modal styles
var (
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPurple).
			Padding(1, 2)

	ModalTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPurple)
)

// Input styles
var (
	InputPromptStyle = lipgloss.NewStyle().
				Foreground(ColorPurple).
				Bold(true)

	FieldLabelStyle = lipgloss.NewStyle().
			Foreground(ColorGray).
			Width(12)

	FieldActiveLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorPurple).
				Width(12)
)

// Status icons
const (
	IconCompleted  = "✓"
	IconInProgress = "◐"
	IconNotStarted = "○"
	IconSaving     = "⋯"
	IconSaveError  = "✗"
	IconAutoOff    = "⏸"
)

// StatusIcon returns the icon for a status, unstyled.
func StatusIcon(s plan.Status) string {
	switch s {
	case plan.StatusCompleted:
		return IconCompleted
	case plan.StatusInProgress:
		return IconInProgress
	}
	return IconNotStarted
}

// StatusStyle returns the lipgloss style for a status.
func StatusStyle(s plan.Status) lipgloss.Style {
	switch s {
	case plan.StatusCompleted:
		return CompletedStyle
	case plan.StatusInProgress:
		return InProgressStyle
	}
	return NotStartedStyle
}
