package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/plancanvas/plancanvas/pkg/persist"
	"github.com/plancanvas/plancanvas/pkg/plan"
)

const minWidth = 40
const minHeight = 10

// View implements tea.Model.
func (m Model) View() string {
	w := m.width
	h := m.height
	if w < minWidth {
		w = minWidth
	}
	if h < minHeight {
		h = minHeight
	}

	if m.showHelpModal {
		return placeOverlay(m.renderHelpModal(), w, h)
	}
	if m.showDeleteConfirm {
		return placeOverlay(m.renderDeleteModal(), w, h)
	}

	var b strings.Builder

	b.WriteString(m.renderHeader(w))
	b.WriteString("\n")
	b.WriteString(m.renderViewTabs())
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", w))
	b.WriteString("\n")

	footerLines := 2
	contentHeight := h - canvasTop - footerLines

	var content string
	switch m.view {
	case viewCanvas:
		content = m.renderCanvas(w, contentHeight)
	case viewTimeline:
		content = m.renderTimeline(w, contentHeight)
	case viewDashboard:
		content = m.renderDashboard(w, contentHeight)
	}
	b.WriteString(content)
	b.WriteString("\n")

	b.WriteString(strings.Repeat("─", w))
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

func (m Model) renderHeader(width int) string {
	title := m.canvas.Plan.Title
	if title == "" {
		title = "Untitled Learning Plan"
	}
	left := HeaderStyle.Render(title)

	// Status message
	status := ""
	if m.statusMsg != "" && time.Now().Before(m.statusTimeout) {
		status = lipgloss.NewStyle().Foreground(ColorCyan).Render(m.statusMsg) + "  "
	}

	save := m.renderSaveIndicator()
	progress := HeaderCountStyle.Render(fmt.Sprintf("%d%% overall", plan.OverallProgress(m.canvas.Plan)))
	right := status + save + "  " + progress

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

// renderSaveIndicator shows the scheduler state: idle, saving, saved, or
// the error message.
func (m Model) renderSaveIndicator() string {
	if !m.scheduler.Enabled() {
		return SaveIdleStyle.Render(IconAutoOff + " auto-save off")
	}
	switch m.saveStatus.State {
	case persist.StateSaving:
		return SaveSavingStyle.Render(IconSaving + " saving")
	case persist.StateSuccess:
		return SaveSuccessStyle.Render(IconCompleted + " saved")
	case persist.StateError:
		return SaveErrorStyle.Render(IconSaveError + " " + truncate(m.saveStatus.Err, 40))
	}
	return SaveIdleStyle.Render("")
}

func (m Model) renderViewTabs() string {
	names := []string{"Canvas", "Timeline", "Dashboard"}
	var tabs []string
	for i, name := range names {
		if viewMode(i) == m.view {
			tabs = append(tabs, ActiveTabStyle.Render(name))
		} else {
			tabs = append(tabs, InactiveTabStyle.Render(name))
		}
	}
	return strings.Join(tabs, "")
}

// renderCanvas paints the element cards into a cell grid, back to front.
// While the field editor is open the right edge is given to the properties
// panel.
func (m Model) renderCanvas(width, height int) string {
	canvasWidth := width
	var panel string
	if m.isEditing {
		panelWidth := width / 3
		if panelWidth < 30 {
			panelWidth = 30
		}
		canvasWidth = width - panelWidth - 1
		panel = m.renderPropertiesPanel(panelWidth, height)
	}

	buf := newCellBuffer(canvasWidth, height)

	for _, e := range sortedByZ(m.canvas.Elements) {
		m.paintElement(buf, e)
	}

	if len(m.canvas.Elements) == 0 {
		buf.drawText(2, 1, "Empty canvas. Press 'a' to add an element.", string(ColorGray), false, canvasWidth-4)
	}
	if m.isPicking {
		buf.drawText(2, height-1, "Add: "+paletteHint()+"  (esc cancel)", string(ColorPurple), true, canvasWidth-4)
	}

	if !m.isEditing {
		return buf.String()
	}

	// Join canvas and panel side by side with a thin divider
	sep := lipgloss.NewStyle().Foreground(ColorPurple).Render("│")
	canvasBlock := buf.String()
	var b strings.Builder
	for i := 0; i < height; i++ {
		b.WriteString(getLine(canvasBlock, i, canvasWidth))
		b.WriteString(sep)
		b.WriteString(getLine(panel, i, width-canvasWidth-1))
		if i < height-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// paintElement draws one card: border in the element's color, title, status
// and progress for the types that carry them.
func (m Model) paintElement(buf *cellBuffer, e *plan.CanvasElement) {
	x := int(e.X / cellPxX)
	y := int(e.Y / cellPxY)
	w := int(e.Width / cellPxX)
	h := int(e.Height / cellPxY)
	if w < 8 {
		w = 8
	}
	if h < 3 {
		h = 3
	}

	selected := e.ID == m.canvas.Selected
	buf.drawBox(x, y, w, h, e.Color, selected)

	inner := w - 4
	title := e.Title
	if selected {
		title = "▸ " + title
	}
	buf.drawText(x+2, y+1, title, e.Color, selected, inner)

	row := y + 2
	if e.HasStatus() && row < y+h-1 {
		icon := StatusIcon(e.Status)
		buf.drawText(x+2, row, icon+" "+plan.StatusDisplayName(e.Status), statusHex(e.Status), false, inner)
		row++
	}
	if e.Type == plan.TypeTopic || e.Type == plan.TypeSubtopic {
		if row < y+h-1 {
			buf.drawText(x+2, row, progressBar(e.Progress, inner-5)+fmt.Sprintf(" %d%%", e.Progress), e.Color, false, inner)
			row++
		}
		if len(e.Tasks) > 0 && row < y+h-1 {
			buf.drawText(x+2, row, fmt.Sprintf("%d tasks", len(e.Tasks)), string(ColorGray), false, inner)
		}
	}
	if e.DueDate != nil && row < y+h-1 {
		buf.drawText(x+2, row, "due "+e.DueDate.Format("Jan 2"), string(ColorGray), false, inner)
	}
}

// renderPropertiesPanel shows the field editor, either for the selected
// element or for the plan itself.
func (m Model) renderPropertiesPanel(width, height int) string {
	var header string
	var valueOf func(field string) string
	if m.editingPlan {
		header = " Plan"
		valueOf = m.planFieldValue
	} else {
		e := m.canvas.SelectedElement()
		if e == nil {
			return FooterStyle.Render(" nothing selected")
		}
		info, _ := plan.TypeInfoFor(e.Type)
		header = " " + info.Icon + " " + info.DisplayName
		valueOf = func(field string) string { return m.fieldValue(e, field) }
	}

	var lines []string
	lines = append(lines, ModalTitleStyle.Render(header))
	lines = append(lines, "")

	for i, field := range m.editFields {
		label := FieldLabelStyle.Render(field)
		if i == m.editIndex {
			label = FieldActiveLabelStyle.Render(field)
			lines = append(lines, " "+label+m.fieldInput.View())
			continue
		}
		value := valueOf(field)
		if value == "" {
			value = FooterStyle.Render("—")
		}
		lines = append(lines, " "+label+value)
	}

	lines = append(lines, "")
	lines = append(lines, FooterStyle.Render(" tab next field  enter apply  esc close"))

	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines[:height], "\n")
}

func (m Model) fieldValue(e *plan.CanvasElement, field string) string {
	switch field {
	case "title":
		return e.Title
	case "description":
		return e.Description
	case "url":
		return e.URL
	case "startDate":
		return formatDate(e.StartDate)
	case "endDate":
		return formatDate(e.EndDate)
	case "dueDate":
		return formatDate(e.DueDate)
	}
	return ""
}

func (m Model) renderFooter() string {
	help := m.keys.ShortHelp()
	if m.isEditing {
		help = "tab next field  shift+tab prev  enter apply  esc close"
	} else if m.isPicking {
		help = "1-8 pick a type  esc cancel"
	}
	return FooterStyle.Render(help)
}

func (m Model) renderHelpModal() string {
	var b strings.Builder

	b.WriteString(ModalTitleStyle.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")

	keyStyle := lipgloss.NewStyle().Foreground(ColorBlue).Width(16)
	descStyle := lipgloss.NewStyle().Foreground(ColorWhite)

	for _, binding := range m.keys.FullHelp() {
		b.WriteString(keyStyle.Render(binding[0]))
		b.WriteString(descStyle.Render(binding[1]))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(FooterStyle.Render("Press Esc or ? to close"))

	return ModalStyle.Render(b.String())
}

func (m Model) renderDeleteModal() string {
	var b strings.Builder

	target := m.deleteTarget
	if e := m.canvas.Element(target); e != nil && e.Title != "" {
		target = e.Title
	}

	b.WriteString(ModalTitleStyle.Render("Delete Element"))
	b.WriteString("\n\n")
	if e := m.canvas.Element(m.deleteTarget); e != nil && e.Type == plan.TypeTopic {
		b.WriteString(fmt.Sprintf("Delete '%s' and all its tasks?\n\n", target))
	} else {
		b.WriteString(fmt.Sprintf("Delete '%s'?\n\n", target))
	}
	b.WriteString(lipgloss.NewStyle().Foreground(ColorGreen).Render("[y]") + " Yes  ")
	b.WriteString(lipgloss.NewStyle().Foreground(ColorRed).Render("[n]") + " No")

	return ModalStyle.Render(b.String())
}

// Helper functions

func sortedByZ(elements []*plan.CanvasElement) []*plan.CanvasElement {
	out := append([]*plan.CanvasElement(nil), elements...)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].ZIndex > out[j].ZIndex; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

func statusHex(s plan.Status) string {
	switch s {
	case plan.StatusCompleted:
		return string(ColorGreen)
	case plan.StatusInProgress:
		return string(ColorYellow)
	}
	return string(ColorOffWhite)
}

// truncate shortens a string to at most max columns, ending with an
// ellipsis. Trimming by rune keeps multibyte titles valid UTF-8.
func truncate(s string, max int) string {
	if lipgloss.Width(s) <= max {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > max {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}

// progressBar renders a fixed-width bar like "████░░░░".
func progressBar(pct, width int) string {
	if width < 2 {
		width = 2
	}
	filled := width * pct / 100
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func getLine(block string, idx int, width int) string {
	lines := strings.Split(block, "\n")
	if idx < len(lines) {
		line := lines[idx]
		lineWidth := lipgloss.Width(line)
		if lineWidth < width {
			return line + strings.Repeat(" ", width-lineWidth)
		}
		return line
	}
	return strings.Repeat(" ", width)
}

func placeOverlay(modal string, width, height int) string {
	modalLines := strings.Split(modal, "\n")

	topPadding := (height - len(modalLines)) / 2
	if topPadding < 0 {
		topPadding = 0
	}

	leftPadding := (width - lipgloss.Width(modalLines[0])) / 2
	if leftPadding < 0 {
		leftPadding = 0
	}

	var result strings.Builder
	for i := 0; i < topPadding; i++ {
		result.WriteString("\n")
	}

	for _, line := range modalLines {
		result.WriteString(strings.Repeat(" ", leftPadding))
		result.WriteString(line)
		result.WriteString("\n")
	}

	return result.String()
}
