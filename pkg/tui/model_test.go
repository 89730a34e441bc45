package tui

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plancanvas/plancanvas/pkg/persist"
	"github.com/plancanvas/plancanvas/pkg/plan"
	"github.com/plancanvas/plancanvas/pkg/store"
)

type nopSaver struct{}

func (nopSaver) Save(context.Context, *plan.LearningPlan) error { return nil }

func setupTestModel(t *testing.T) (Model, *plan.Canvas) {
	t.Helper()
	s, err := store.NewStore(t.TempDir())
	require.NoError(t, err)
	c := plan.NewCanvas()
	sched := persist.NewScheduler(nopSaver{}, c.Snapshot, zerolog.Nop())
	t.Cleanup(sched.Close)
	m := NewModel(s, c, sched)
	m.width, m.height = 100, 30
	return m, c
}

func pressRune(m Model, r rune) Model {
	return press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

func press(m Model, msg tea.KeyMsg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestPlanCreatedMsgPersistsID(t *testing.T) {
	m, c := setupTestModel(t)

	next, _ := m.Update(PlanCreatedMsg{ID: "plan-9"})
	m = next.(Model)

	assert.Equal(t, "plan-9", c.Plan.ID)

	// The id also lands in the plan file, so a restarted session replaces
	// instead of creating a second plan
	p, _, err := m.store.Load()
	require.NoError(t, err)
	assert.Equal(t, "plan-9", p.ID)
}

func TestPlanEditKeyOpensPlanPanel(t *testing.T) {
	m, _ := setupTestModel(t)

	m = pressRune(m, 'g')

	assert.True(t, m.isEditing)
	assert.True(t, m.editingPlan)
	assert.Equal(t, []string{"title", "description", "goal", "motivation", "startDate", "endDate"}, m.editFields)
	assert.Equal(t, viewCanvas, m.view)
}

func TestPlanEditCommitsTitleAndGoal(t *testing.T) {
	m, c := setupTestModel(t)

	m = pressRune(m, 'g')
	m.fieldInput.SetValue("Learn Go")
	m = press(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "Learn Go", c.Plan.Title)

	// Advance past description to the goal field
	m = press(m, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, "goal", m.editFields[m.editIndex])
	m.fieldInput.SetValue("Ship a TUI")
	m = press(m, tea.KeyMsg{Type: tea.KeyEsc})

	assert.Equal(t, "Ship a TUI", c.Plan.Goal.Objective)
	assert.False(t, m.isEditing)
	assert.False(t, m.editingPlan)
}

func TestPlanEditTimelineDates(t *testing.T) {
	m, c := setupTestModel(t)

	m = pressRune(m, 'g')
	m.editIndex = 4 // startDate
	m.fieldInput.SetValue("2026-09-01")
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, c.Plan.Timeline.StartDate)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), *c.Plan.Timeline.StartDate)

	// An unparseable date clears the field
	m.fieldInput.SetValue("soonish")
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, c.Plan.Timeline.StartDate)
}

func TestTruncateKeepsValidUTF8(t *testing.T) {
	s := truncate("日本語のトピック名が長い場合", 8)

	assert.True(t, utf8.ValidString(s))
	assert.LessOrEqual(t, lipgloss.Width(s), 8)
	assert.True(t, strings.HasSuffix(s, "…"))

	assert.Equal(t, "short", truncate("short", 8))
}

func TestTimelineRendersMultibyteTitles(t *testing.T) {
	m, c := setupTestModel(t)

	e, err := c.AddElement(plan.TypeTopic)
	require.NoError(t, err)
	require.NoError(t, c.UpdateElementContent(e.ID, "title", "データベース設計をマスターするための長期計画"))

	out := m.renderTimeline(80, 20)
	assert.True(t, utf8.ValidString(out))
	assert.Contains(t, out, "…")
}

func TestDashboardRendersMultibyteTitles(t *testing.T) {
	m, c := setupTestModel(t)

	e, err := c.AddElement(plan.TypeTopic)
	require.NoError(t, err)
	require.NoError(t, c.UpdateElementContent(e.ID, "title", "機械学習の基礎から応用までを学ぶ計画"))

	out := m.renderDashboard(80, 24)
	assert.True(t, utf8.ValidString(out))
}
