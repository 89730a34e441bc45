package history_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plancanvas/plancanvas/pkg/history"
	"github.com/plancanvas/plancanvas/pkg/plan"
)

func openTestLog(t *testing.T) *history.Log {
	t.Helper()
	l, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

func samplePlan() *plan.LearningPlan {
	return &plan.LearningPlan{
		Title: "Learn Go",
		Topics: []plan.Topic{
			{ID: "element-1", Status: plan.StatusCompleted, Tasks: []plan.Task{
				{ID: "task-1", Status: plan.StatusCompleted},
				{ID: "task-2", Status: plan.StatusCompleted},
			}},
			{ID: "element-2", Status: plan.StatusInProgress, Tasks: []plan.Task{
				{ID: "task-3", Status: plan.StatusNotStarted},
			}},
		},
	}
}

func TestOpenBadPath(t *testing.T) {
	l, err := history.Open("/nonexistent-dir/history.db")
	assert.Nil(t, l)
	assert.Error(t, err)
}

func TestOpenIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	l, err := history.Open(path)
	require.NoError(t, err)
	require.NoError(t, l.Record(samplePlan(), "remote", time.Now()))
	require.NoError(t, l.Close())

	// Reopening keeps existing rows
	l, err = history.Open(path)
	require.NoError(t, err)
	defer l.Close()
	entries, err := l.Recent(10)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRecordAndRecent(t *testing.T) {
	l := openTestLog(t)
	savedAt := time.Date(2026, 3, 10, 12, 30, 0, 0, time.UTC)

	require.NoError(t, l.Record(samplePlan(), "https://api.example.com", savedAt))

	entries, err := l.Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, "Learn Go", e.PlanTitle)
	assert.Equal(t, "https://api.example.com", e.Destination)
	assert.Equal(t, 2, e.TopicCount)
	assert.Equal(t, 3, e.TaskCount)
	assert.Equal(t, 75, e.OverallProgress)
	assert.True(t, savedAt.Equal(e.SavedAt))
}

func TestRecentOrderAndLimit(t *testing.T) {
	l := openTestLog(t)
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		p := samplePlan()
		p.Title = string(rune('a' + i))
		require.NoError(t, l.Record(p, "local", base.Add(time.Duration(i)*time.Minute)))
	}

	entries, err := l.Recent(3)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	// Newest first
	assert.Equal(t, "e", entries[0].PlanTitle)
	assert.Equal(t, "d", entries[1].PlanTitle)
	assert.Equal(t, "c", entries[2].PlanTitle)
}

func TestRecentEmpty(t *testing.T) {
	l := openTestLog(t)
	entries, err := l.Recent(10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
