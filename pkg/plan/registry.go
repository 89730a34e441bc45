package plan

import "errors"

// ElementType identifies what kind of canvas element a card is.
type ElementType string

const (
	TypeTopic     ElementType = "topic"
	TypeSubtopic  ElementType = "subtopic"
	TypeResource  ElementType = "resource"
	TypeMilestone ElementType = "milestone"
	TypeTask      ElementType = "task"
	TypeProject   ElementType = "project"
	TypeTimeframe ElementType = "timeframe"
	TypeSection   ElementType = "section"
)

// ErrUnknownType is returned when an element type is not in the registry.
var ErrUnknownType = errors.New("unknown element type")

// TypeInfo is the registry entry for an element type: rendering metadata
// plus the default card size used when the element is created.
type TypeInfo struct {
	Type        ElementType
	DisplayName string
	Icon        string
	Color       string
	Width       float64
	Height      float64
}

// elementTypes is the closed palette of placeable types, in display order.
var elementTypes = []TypeInfo{
	{TypeTopic, "Topic", "▤", "#3B82F6", 200, 150},
	{TypeSubtopic, "Subtopic", "▥", "#6366F1", 200, 150},
	{TypeResource, "Resource", "◈", "#10B981", 200, 150},
	{TypeMilestone, "Milestone", "◆", "#F59E0B", 200, 150},
	{TypeTask, "Task", "☐", "#EF4444", 200, 150},
	{TypeProject, "Project", "▣", "#8B5CF6", 200, 150},
	{TypeTimeframe, "Timeframe", "◷", "#EC4899", 200, 150},
	{TypeSection, "Section", "▢", "#6B7280", 300, 300},
}

// Types returns the registry entries in display order.
func Types() []TypeInfo {
	out := make([]TypeInfo, len(elementTypes))
	copy(out, elementTypes)
	return out
}

// TypeInfoFor looks up the registry entry for a type.
func TypeInfoFor(t ElementType) (TypeInfo, error) {
	for _, info := range elementTypes {
		if info.Type == t {
			return info, nil
		}
	}
	return TypeInfo{}, ErrUnknownType
}

// StatusDisplayName returns the human label for a status.
func StatusDisplayName(s Status) string {
	switch s {
	case StatusNotStarted:
		return "Not Started"
	case StatusInProgress:
		return "In Progress"
	case StatusCompleted:
		return "Completed"
	}
	return string(s)
}
