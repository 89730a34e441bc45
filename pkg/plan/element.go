package plan

import "time"

// CanvasElement is a placed, typed, visual unit on the editing surface.
// Type-specific fields are only populated for the types that use them.
type CanvasElement struct {
	ID          string      `yaml:"id" json:"id"`
	Type        ElementType `yaml:"type" json:"type"`
	Title       string      `yaml:"title" json:"title"`
	Description string      `yaml:"description,omitempty" json:"description"`

	X      float64 `yaml:"x" json:"x"`
	Y      float64 `yaml:"y" json:"y"`
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
	Color  string  `yaml:"color" json:"color"`
	ZIndex int     `yaml:"z_index" json:"zIndex"`

	// topic, subtopic, project
	StartDate *time.Time `yaml:"start_date,omitempty" json:"startDate,omitempty"`
	EndDate   *time.Time `yaml:"end_date,omitempty" json:"endDate,omitempty"`

	// topic, subtopic, task, project
	Status Status `yaml:"status,omitempty" json:"status,omitempty"`

	// topic, subtopic: derived completion percentage and owned task element ids
	Progress int      `yaml:"progress,omitempty" json:"progress,omitempty"`
	Tasks    []string `yaml:"tasks,omitempty" json:"tasks,omitempty"`

	// task
	DueDate       *time.Time `yaml:"due_date,omitempty" json:"dueDate,omitempty"`
	ParentTopicID string     `yaml:"parent_topic_id,omitempty" json:"parentTopicId,omitempty"`

	// project
	RelatedTopics []string `yaml:"related_topics,omitempty" json:"relatedTopics,omitempty"`

	// resource
	URL string `yaml:"url,omitempty" json:"url,omitempty"`
}

// HasDates reports whether both the start and end date are set.
func (e *CanvasElement) HasDates() bool {
	return e.StartDate != nil && e.EndDate != nil
}

// HasStatus reports whether this element type carries a status field.
func (e *CanvasElement) HasStatus() bool {
	switch e.Type {
	case TypeTopic, TypeSubtopic, TypeTask, TypeProject:
		return true
	}
	return false
}
