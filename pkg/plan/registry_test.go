package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeInfoFor(t *testing.T) {
	info, err := TypeInfoFor(TypeTopic)
	require.NoError(t, err)
	assert.Equal(t, "Topic", info.DisplayName)
	assert.Equal(t, "#3B82F6", info.Color)
	assert.Equal(t, 200.0, info.Width)
	assert.Equal(t, 150.0, info.Height)

	info, err = TypeInfoFor(TypeSection)
	require.NoError(t, err)
	assert.Equal(t, 300.0, info.Width)
	assert.Equal(t, 300.0, info.Height)

	_, err = TypeInfoFor(ElementType("widget"))
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestTypesPalette(t *testing.T) {
	types := Types()
	require.Len(t, types, 8)
	assert.Equal(t, TypeTopic, types[0].Type)
	assert.Equal(t, TypeSection, types[7].Type)

	for _, info := range types {
		assert.NotEmpty(t, info.DisplayName)
		assert.NotEmpty(t, info.Icon)
		assert.Regexp(t, `^#[0-9A-F]{6}$`, info.Color)
		assert.Positive(t, info.Width)
		assert.Positive(t, info.Height)
	}

	// Callers cannot mutate the registry through the returned slice
	types[0].Color = "#000000"
	fresh, err := TypeInfoFor(TypeTopic)
	require.NoError(t, err)
	assert.Equal(t, "#3B82F6", fresh.Color)
}

func TestStatusDisplayName(t *testing.T) {
	assert.Equal(t, "Not Started", StatusDisplayName(StatusNotStarted))
	assert.Equal(t, "In Progress", StatusDisplayName(StatusInProgress))
	assert.Equal(t, "Completed", StatusDisplayName(StatusCompleted))
	assert.Equal(t, "archived", StatusDisplayName(Status("archived")))
}
