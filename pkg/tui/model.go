package tui

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/plancanvas/plancanvas/pkg/export"
	"github.com/plancanvas/plancanvas/pkg/persist"
	"github.com/plancanvas/plancanvas/pkg/plan"
	"github.com/plancanvas/plancanvas/pkg/store"
)

// FileChangedMsg is sent when the file watcher detects changes to plan.md.
type FileChangedMsg struct{}

// SaveStatusMsg is sent whenever the auto-save scheduler changes state.
type SaveStatusMsg struct {
	Status persist.Status
}

// PlanCreatedMsg carries the id the backend assigned on the first save of a
// new plan.
type PlanCreatedMsg struct {
	ID string
}

// ExportDoneMsg is sent when a PNG export finishes.
type ExportDoneMsg struct {
	Path string
	Err  error
}

// viewMode selects which projection of the canvas is on screen.
type viewMode int

const (
	viewCanvas viewMode = iota
	viewTimeline
	viewDashboard
)

// Pixels represented by one terminal cell. Canvas coordinates are kept in
// the original pixel space so positions survive round trips through the
// service; the TUI only scales at the edges.
const (
	cellPxX = 10.0
	cellPxY = 20.0
)

// Rows above the canvas surface: header, view tabs, separator.
const canvasTop = 3

// Model is the Bubble Tea model for the plan canvas editor.
type Model struct {
	store     *store.Store
	canvas    *plan.Canvas
	scheduler *persist.Scheduler
	keys      KeyMap
	width     int
	height    int

	view viewMode
	drag plan.Drag

	saveStatus persist.Status

	// Palette mode (after 'a'): the next 1-8 keypress picks a type
	isPicking bool

	// Delete confirmation
	showDeleteConfirm bool
	deleteTarget      string

	// Field edit mode. editingPlan switches the panel from the selected
	// element's fields to the plan-level title/goal/timeline.
	isEditing   bool
	editingPlan bool
	editFields  []string
	editIndex   int
	fieldInput  textinput.Model

	showHelpModal bool

	// Status message
	statusMsg     string
	statusTimeout time.Time

	// Cached glamour renderer (expensive to create)
	glamourRenderer *glamour.TermRenderer
	glamourWidth    int
}

// NewModel creates a new TUI model and wires the canvas's mutation hook to
// the local store and the auto-save scheduler.
func NewModel(s *store.Store, c *plan.Canvas, sched *persist.Scheduler) Model {
	ti := textinput.New()
	ti.CharLimit = 256

	c.OnMutate = func() {
		// The local file is the working copy; every mutation lands there
		// immediately. The remote save is debounced.
		_ = s.Save(c.Snapshot(), c.Elements)
		sched.Trigger()
	}

	return Model{
		store:      s,
		canvas:     c,
		scheduler:  sched,
		keys:       DefaultKeyMap(),
		fieldInput: ti,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.WindowSize()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.getGlamourRenderer(m.contentWidth())
		return m, tea.ClearScreen

	case FileChangedMsg:
		m.reload()
		return m, nil

	case SaveStatusMsg:
		m.saveStatus = msg.Status
		return m, nil

	case PlanCreatedMsg:
		// Keep the assigned id: future saves replace instead of creating.
		m.canvas.Plan.ID = msg.ID
		_ = m.store.Save(m.canvas.Snapshot(), m.canvas.Elements)
		return m, nil

	case ExportDoneMsg:
		if msg.Err != nil {
			m.setStatus("Export failed: " + msg.Err.Error())
		} else {
			m.setStatus("Exported " + msg.Path)
		}
		return m, nil

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	if m.isEditing {
		var cmd tea.Cmd
		m.fieldInput, cmd = m.fieldInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

// handleMouseMsg drives the drag gesture. Pointer cells are scaled to
// canvas pixels before the drag controller sees them, so the offset math
// happens in one coordinate space.
func (m Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.view != viewCanvas || m.isEditing || m.showDeleteConfirm || m.showHelpModal {
		return m, nil
	}

	px := float64(msg.X) * cellPxX
	py := float64(msg.Y-canvasTop) * cellPxY

	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if msg.Y < canvasTop {
			return m, nil
		}
		if e := m.hitTest(px, py); e != nil {
			m.canvas.Select(e.ID)
			m.drag.Start(e.ID, px, py, e.X, e.Y)
		} else {
			m.canvas.Select("")
		}

	case msg.Action == tea.MouseActionMotion:
		if x, y, ok := m.drag.Move(px, py); ok {
			if err := m.canvas.MoveElement(m.drag.ElementID(), x, y); err != nil {
				m.drag.End()
			}
		}

	case msg.Action == tea.MouseActionRelease:
		if m.drag.End() {
			m.persistMove()
		}
	}

	return m, nil
}

// hitTest returns the topmost element containing the canvas-pixel point.
func (m Model) hitTest(px, py float64) *plan.CanvasElement {
	var hit *plan.CanvasElement
	for _, e := range m.canvas.Elements {
		if px >= e.X && px < e.X+e.Width && py >= e.Y && py < e.Y+e.Height {
			if hit == nil || e.ZIndex > hit.ZIndex {
				hit = e
			}
		}
	}
	return hit
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Field edit mode
	if m.isEditing {
		return m.handleEditMode(msg)
	}

	// Palette mode: next key picks an element type
	if m.isPicking {
		m.isPicking = false
		if msg.Type == tea.KeyEsc {
			return m, nil
		}
		types := plan.Types()
		s := msg.String()
		if len(s) == 1 && s[0] >= '1' && s[0] <= '0'+byte(len(types)) {
			info := types[s[0]-'1']
			e, err := m.canvas.AddElement(info.Type)
			if err != nil {
				m.setStatus("Error: " + err.Error())
			} else {
				m.setStatus("Added " + info.DisplayName + " " + e.ID)
			}
		}
		return m, nil
	}

	// Help modal
	if m.showHelpModal {
		switch msg.String() {
		case "esc", "enter", "?", "q":
			m.showHelpModal = false
		}
		return m, nil
	}

	// Delete confirmation
	if m.showDeleteConfirm {
		switch msg.String() {
		case "y", "Y":
			if err := m.canvas.DeleteElement(m.deleteTarget); err != nil {
				m.setStatus("Delete failed: " + err.Error())
			} else {
				m.setStatus("Deleted " + m.deleteTarget)
			}
			m.showDeleteConfirm = false
		case "n", "N", "esc":
			m.showDeleteConfirm = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.scheduler.SaveNow()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Tab):
		m.view = (m.view + 1) % 3

	case key.Matches(msg, m.keys.Up):
		m.nudgeSelected(0, -cellPxY)
	case key.Matches(msg, m.keys.Down):
		m.nudgeSelected(0, cellPxY)
	case key.Matches(msg, m.keys.Left):
		m.nudgeSelected(-cellPxX, 0)
	case key.Matches(msg, m.keys.Right):
		m.nudgeSelected(cellPxX, 0)

	case key.Matches(msg, m.keys.Next):
		m.selectAdjacent(1)
	case key.Matches(msg, m.keys.Prev):
		m.selectAdjacent(-1)

	case key.Matches(msg, m.keys.Add):
		m.isPicking = true

	case key.Matches(msg, m.keys.AddTask):
		sel := m.canvas.SelectedElement()
		if sel == nil {
			m.setStatus("Select a topic first")
			break
		}
		task, err := m.canvas.AddTaskToTopic(sel.ID)
		if err != nil {
			m.setStatus("Error: " + err.Error())
		} else {
			m.setStatus("Added " + task.ID + " to " + sel.Title)
		}

	case key.Matches(msg, m.keys.Delete):
		if sel := m.canvas.SelectedElement(); sel != nil {
			m.deleteTarget = sel.ID
			m.showDeleteConfirm = true
		}

	case key.Matches(msg, m.keys.Edit):
		if sel := m.canvas.SelectedElement(); sel != nil {
			m.enterEditMode(sel)
			return m, textinput.Blink
		}

	case key.Matches(msg, m.keys.PlanEdit):
		// The panel lives in the canvas view
		m.view = viewCanvas
		m.enterPlanEditMode()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Status):
		m.cycleStatus()

	case key.Matches(msg, m.keys.SaveNow):
		m.scheduler.SaveNow()

	case key.Matches(msg, m.keys.AutoSave):
		m.scheduler.SetEnabled(!m.scheduler.Enabled())
		if m.scheduler.Enabled() {
			m.setStatus("Auto-save on")
		} else {
			m.setStatus("Auto-save off")
		}

	case key.Matches(msg, m.keys.Yank):
		data, err := json.MarshalIndent(m.canvas.Snapshot(), "", "  ")
		if err == nil {
			err = clipboard.WriteAll(string(data))
		}
		if err != nil {
			m.setStatus("Copy failed: " + err.Error())
		} else {
			m.setStatus("Plan JSON copied")
		}

	case key.Matches(msg, m.keys.Export):
		return m, m.doExport()

	case key.Matches(msg, m.keys.Reload):
		m.reload()
		m.setStatus("Reloaded")

	case key.Matches(msg, m.keys.Help):
		m.showHelpModal = !m.showHelpModal
	}

	return m, nil
}

// handleEditMode handles keys while the field editor is open.
func (m Model) handleEditMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.commitField()
		m.isEditing = false
		m.editingPlan = false
		m.fieldInput.Blur()
		return m, nil

	case tea.KeyEnter:
		m.commitField()
		return m, nil

	case tea.KeyTab:
		m.commitField()
		m.editIndex = (m.editIndex + 1) % len(m.editFields)
		m.loadField()
		return m, nil

	case tea.KeyShiftTab:
		m.commitField()
		m.editIndex = (m.editIndex - 1 + len(m.editFields)) % len(m.editFields)
		m.loadField()
		return m, nil

	default:
		var cmd tea.Cmd
		m.fieldInput, cmd = m.fieldInput.Update(msg)
		return m, cmd
	}
}

// editableFields returns the fields the editor offers for an element type.
func editableFields(e *plan.CanvasElement) []string {
	fields := []string{"title", "description"}
	switch e.Type {
	case plan.TypeTopic, plan.TypeSubtopic, plan.TypeProject, plan.TypeTimeframe:
		fields = append(fields, "startDate", "endDate")
	case plan.TypeTask:
		fields = append(fields, "dueDate")
	case plan.TypeResource:
		fields = append(fields, "url")
	}
	return fields
}

func (m *Model) enterEditMode(e *plan.CanvasElement) {
	m.isEditing = true
	m.editingPlan = false
	m.editFields = editableFields(e)
	m.editIndex = 0
	m.loadField()
	m.fieldInput.Focus()
}

// enterPlanEditMode opens the field editor on the document itself: title,
// description, goal, and the overall timeline.
func (m *Model) enterPlanEditMode() {
	m.isEditing = true
	m.editingPlan = true
	m.editFields = []string{"title", "description", "goal", "motivation", "startDate", "endDate"}
	m.editIndex = 0
	m.loadField()
	m.fieldInput.Focus()
}

// loadField fills the input with the current value of the active field.
func (m *Model) loadField() {
	if m.editingPlan {
		m.fieldInput.SetValue(m.planFieldValue(m.editFields[m.editIndex]))
		m.fieldInput.CursorEnd()
		m.fieldInput.Placeholder = m.editFields[m.editIndex]
		return
	}
	e := m.canvas.SelectedElement()
	if e == nil {
		return
	}
	var value string
	switch m.editFields[m.editIndex] {
	case "title":
		value = e.Title
	case "description":
		value = e.Description
	case "url":
		value = e.URL
	case "startDate":
		value = formatDate(e.StartDate)
	case "endDate":
		value = formatDate(e.EndDate)
	case "dueDate":
		value = formatDate(e.DueDate)
	}
	m.fieldInput.SetValue(value)
	m.fieldInput.CursorEnd()
	m.fieldInput.Placeholder = m.editFields[m.editIndex]
}

// commitField applies the input to the active field.
func (m *Model) commitField() {
	if m.editingPlan {
		m.commitPlanField()
		return
	}
	e := m.canvas.SelectedElement()
	if e == nil {
		return
	}
	field := m.editFields[m.editIndex]
	if err := m.canvas.UpdateElementContent(e.ID, field, m.fieldInput.Value()); err != nil {
		m.setStatus("Error: " + err.Error())
	}
}

// planFieldValue reads the current value of a plan-level field.
func (m Model) planFieldValue(field string) string {
	p := m.canvas.Plan
	switch field {
	case "title":
		return p.Title
	case "description":
		return p.Description
	case "goal":
		return p.Goal.Objective
	case "motivation":
		return p.Goal.Motivation
	case "startDate":
		return formatDate(p.Timeline.StartDate)
	case "endDate":
		return formatDate(p.Timeline.EndDate)
	}
	return ""
}

func (m *Model) commitPlanField() {
	p := m.canvas.Plan
	value := m.fieldInput.Value()
	switch m.editFields[m.editIndex] {
	case "title":
		m.canvas.SetTitle(value)
	case "description":
		m.canvas.SetDescription(value)
	case "goal":
		m.canvas.SetGoal(value, p.Goal.Motivation)
	case "motivation":
		m.canvas.SetGoal(p.Goal.Objective, value)
	case "startDate":
		m.canvas.SetTimeline(parseDateInput(value), p.Timeline.EndDate)
	case "endDate":
		m.canvas.SetTimeline(p.Timeline.StartDate, parseDateInput(value))
	}
}

// parseDateInput accepts YYYY-MM-DD; anything else clears the date.
func parseDateInput(s string) *time.Time {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &t
}

// cycleStatus advances the selected element through the status cycle.
func (m *Model) cycleStatus() {
	e := m.canvas.SelectedElement()
	if e == nil || !e.HasStatus() {
		return
	}
	var next plan.Status
	switch e.Status {
	case plan.StatusNotStarted:
		next = plan.StatusInProgress
	case plan.StatusInProgress:
		next = plan.StatusCompleted
	default:
		next = plan.StatusNotStarted
	}
	if err := m.canvas.UpdateElementStatus(e.ID, next); err != nil {
		m.setStatus("Error: " + err.Error())
		return
	}
	m.setStatus(e.Title + " → " + plan.StatusDisplayName(next))
}

// nudgeSelected moves the selected element by a keyboard step.
func (m *Model) nudgeSelected(dx, dy float64) {
	e := m.canvas.SelectedElement()
	if e == nil {
		return
	}
	x, y := e.X+dx, e.Y+dy
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	if err := m.canvas.MoveElement(e.ID, x, y); err != nil {
		m.setStatus("Error: " + err.Error())
		return
	}
	m.persistMove()
}

// persistMove saves positions after a completed move gesture. MoveElement
// itself stays silent so mid-drag motion does not spam the scheduler.
func (m *Model) persistMove() {
	_ = m.store.Save(m.canvas.Snapshot(), m.canvas.Elements)
	m.scheduler.Trigger()
}

// selectAdjacent steps the selection through the elements in z-order.
func (m *Model) selectAdjacent(delta int) {
	elems := append([]*plan.CanvasElement(nil), m.canvas.Elements...)
	if len(elems) == 0 {
		return
	}
	sort.SliceStable(elems, func(i, j int) bool { return elems[i].ZIndex < elems[j].ZIndex })

	cur := -1
	for i, e := range elems {
		if e.ID == m.canvas.Selected {
			cur = i
			break
		}
	}
	next := (cur + delta + len(elems)) % len(elems)
	m.canvas.Select(elems[next].ID)
}

func (m *Model) reload() {
	p, elements, err := m.store.Load()
	if err != nil {
		m.setStatus("Load error: " + err.Error())
		return
	}
	// Swap contents in place: the scheduler's snapshot closure holds this
	// canvas pointer.
	m.canvas.Plan = p
	m.canvas.Elements = elements
	if m.canvas.Selected != "" && m.canvas.Element(m.canvas.Selected) == nil {
		m.canvas.Select("")
	}
}

func (m Model) doExport() tea.Cmd {
	elements := append([]*plan.CanvasElement(nil), m.canvas.Elements...)
	path := m.store.Root + "/canvas-" + time.Now().Format("20060102-150405") + ".png"
	return func() tea.Msg {
		return ExportDoneMsg{Path: path, Err: export.PNG(path, elements)}
	}
}

// getGlamourRenderer returns a cached glamour renderer, creating one if
// needed or if the width changed.
func (m *Model) getGlamourRenderer(width int) *glamour.TermRenderer {
	if m.glamourRenderer != nil && m.glamourWidth == width {
		return m.glamourRenderer
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	m.glamourRenderer = r
	m.glamourWidth = width
	return r
}

func (m *Model) setStatus(msg string) {
	m.statusMsg = msg
	m.statusTimeout = time.Now().Add(3 * time.Second)
}

func (m Model) contentWidth() int {
	w := m.width
	if w < minWidth {
		w = minWidth
	}
	return w
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

// paletteHint lists the types for the palette prompt line.
func paletteHint() string {
	var parts []string
	for i, info := range plan.Types() {
		parts = append(parts, fmt.Sprintf("%d %s", i+1, info.DisplayName))
	}
	return strings.Join(parts, "  ")
}
