package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plancanvas/plancanvas/pkg/plan"
)

func TestParsePlanFile(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		check   func(t *testing.T, p *plan.LearningPlan, elements []*plan.CanvasElement)
	}{
		{
			name: "full frontmatter with body",
			input: `---
title: "Learn Go"
goal:
  objective: "Ship a TUI"
  motivation: "career growth"
topics:
  - id: element-1
    title: "Basics"
    status: in-progress
    progress: 50
    position:
      x: 120
      y: 80
      width: 200
      height: 150
    tasks:
      - id: task-1
        title: "Read the spec"
        status: completed
    resources:
      - id: res-1
        title: "Tour of Go"
        url: "https://go.dev/tour"
projects: []
timeline:
  start_date: 2026-03-01T00:00:00Z
elements:
  - id: element-1
    type: topic
    title: "Basics"
    x: 120
    y: 80
    width: 200
    height: 150
    color: "#3B82F6"
    z_index: 0
---

A study plan for practical Go.
`,
			check: func(t *testing.T, p *plan.LearningPlan, elements []*plan.CanvasElement) {
				assert.Equal(t, "Learn Go", p.Title)
				assert.Equal(t, "Ship a TUI", p.Goal.Objective)
				require.Len(t, p.Topics, 1)
				assert.Equal(t, plan.StatusInProgress, p.Topics[0].Status)
				assert.Equal(t, 50, p.Topics[0].Progress)
				assert.Equal(t, 120.0, p.Topics[0].Position.X)
				require.Len(t, p.Topics[0].Tasks, 1)
				assert.Equal(t, plan.StatusCompleted, p.Topics[0].Tasks[0].Status)
				assert.Equal(t, "https://go.dev/tour", p.Topics[0].Resources[0].URL)
				require.NotNil(t, p.Timeline.StartDate)

				require.Len(t, elements, 1)
				assert.Equal(t, plan.TypeTopic, elements[0].Type)
				assert.Equal(t, "#3B82F6", elements[0].Color)

				assert.Equal(t, "A study plan for practical Go.", p.Description)
			},
		},
		{
			name:  "no frontmatter",
			input: "Just a description without frontmatter.",
			check: func(t *testing.T, p *plan.LearningPlan, elements []*plan.CanvasElement) {
				assert.Equal(t, "Untitled Learning Plan", p.Title)
				assert.Equal(t, "Just a description without frontmatter.", p.Description)
				assert.Empty(t, elements)
			},
		},
		{
			name:    "unclosed frontmatter",
			input:   "---\ntitle: broken\n",
			wantErr: true,
		},
		{
			name:    "malformed yaml",
			input:   "---\ntitle: [unbalanced\n---\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, elements, err := ParsePlanFile(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, p, elements)
		})
	}
}

func TestSerializePlanFile(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	p := &plan.LearningPlan{
		Title:       "Learn Go",
		Description: "A study plan.\n",
		Goal:        plan.Goal{Objective: "Ship a TUI"},
		Topics: []plan.Topic{{
			ID:        "element-1",
			Title:     "Basics",
			StartDate: start,
			EndDate:   start.AddDate(0, 0, 14),
			Status:    plan.StatusNotStarted,
			Position:  plan.Position{X: 100, Y: 100, Width: 200, Height: 150},
			Tasks:     []plan.Task{{ID: "task-1", Title: "Read", Status: plan.StatusNotStarted}},
		}},
		Timeline: plan.Timeline{StartDate: &start},
	}
	elements := []*plan.CanvasElement{{
		ID: "element-1", Type: plan.TypeTopic, Title: "Basics",
		X: 100, Y: 100, Width: 200, Height: 150, Color: "#3B82F6",
	}}

	content, err := SerializePlanFile(p, elements)
	require.NoError(t, err)

	// Round-trip: parse back
	parsed, parsedElements, err := ParsePlanFile(content)
	require.NoError(t, err)
	assert.Equal(t, p.Title, parsed.Title)
	assert.Equal(t, p.Goal.Objective, parsed.Goal.Objective)
	require.Len(t, parsed.Topics, 1)
	assert.Equal(t, p.Topics[0].Tasks, parsed.Topics[0].Tasks)
	assert.Equal(t, p.Topics[0].Position, parsed.Topics[0].Position)
	require.NotNil(t, parsed.Timeline.StartDate)
	assert.True(t, start.Equal(*parsed.Timeline.StartDate))
	require.Len(t, parsedElements, 1)
	assert.Equal(t, elements[0].ID, parsedElements[0].ID)
	assert.Equal(t, "A study plan.", parsed.Description)
}

func TestSerializePlanFileBodyIsDescriptionOnly(t *testing.T) {
	p := plan.NewLearningPlan()
	p.Description = "body text"

	content, err := SerializePlanFile(p, nil)
	require.NoError(t, err)
	assert.NotContains(t, content, "description:")
	assert.Contains(t, content, "\n\nbody text\n")
}
