package plan

import "time"

// Status represents the completion state of a topic, task, or project.
type Status string

const (
	StatusNotStarted Status = "not-started"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// Position holds canvas coordinates and size in pixels.
type Position struct {
	X      float64 `yaml:"x" json:"x"`
	Y      float64 `yaml:"y" json:"y"`
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

// Goal describes what the plan is for and why it matters.
type Goal struct {
	Objective  string `yaml:"objective,omitempty" json:"objective"`
	Motivation string `yaml:"motivation,omitempty" json:"motivation"`
}

// Timeline is the overall date range of the plan.
type Timeline struct {
	StartDate *time.Time `yaml:"start_date,omitempty" json:"startDate,omitempty"`
	EndDate   *time.Time `yaml:"end_date,omitempty" json:"endDate,omitempty"`
}

// Task is a unit of work owned by a topic.
type Task struct {
	ID          string    `yaml:"id" json:"id"`
	Title       string    `yaml:"title" json:"title"`
	Description string    `yaml:"description,omitempty" json:"description"`
	DueDate     time.Time `yaml:"due_date,omitempty" json:"dueDate"`
	Status      Status    `yaml:"status" json:"status"`
}

// Resource is a link attached to a topic.
type Resource struct {
	ID    string `yaml:"id" json:"id"`
	Title string `yaml:"title" json:"title"`
	URL   string `yaml:"url,omitempty" json:"url"`
}

// Topic mirrors a topic canvas element and owns its tasks and resources.
type Topic struct {
	ID          string     `yaml:"id" json:"id"`
	Title       string     `yaml:"title" json:"title"`
	Description string     `yaml:"description,omitempty" json:"description"`
	StartDate   time.Time  `yaml:"start_date,omitempty" json:"startDate"`
	EndDate     time.Time  `yaml:"end_date,omitempty" json:"endDate"`
	Status      Status     `yaml:"status" json:"status"`
	Progress    int        `yaml:"progress" json:"progress"`
	Position    Position   `yaml:"position" json:"position"`
	Tasks       []Task     `yaml:"tasks" json:"tasks"`
	Resources   []Resource `yaml:"resources" json:"resources"`
}

// Project mirrors a project canvas element.
type Project struct {
	ID            string    `yaml:"id" json:"id"`
	Title         string    `yaml:"title" json:"title"`
	Description   string    `yaml:"description,omitempty" json:"description"`
	StartDate     time.Time `yaml:"start_date,omitempty" json:"startDate"`
	EndDate       time.Time `yaml:"end_date,omitempty" json:"endDate"`
	Status        Status    `yaml:"status" json:"status"`
	RelatedTopics []string  `yaml:"related_topics,omitempty" json:"relatedTopics"`
}

// LearningPlan is the persisted document: goal, topics, projects, timeline.
type LearningPlan struct {
	ID          string    `yaml:"plan_id,omitempty" json:"id,omitempty"`
	Title       string    `yaml:"title" json:"title"`
	Description string    `yaml:"-" json:"description"`
	Goal        Goal      `yaml:"goal" json:"goal"`
	Topics      []Topic   `yaml:"topics" json:"topics"`
	Projects    []Project `yaml:"projects" json:"projects"`
	Timeline    Timeline  `yaml:"timeline" json:"timeline"`
}

// NewLearningPlan returns an empty plan with the default title.
func NewLearningPlan() *LearningPlan {
	return &LearningPlan{Title: "Untitled Learning Plan"}
}

// Topic returns the topic with the given id, or nil.
func (p *LearningPlan) Topic(id string) *Topic {
	for i := range p.Topics {
		if p.Topics[i].ID == id {
			return &p.Topics[i]
		}
	}
	return nil
}

// Project returns the project with the given id, or nil.
func (p *LearningPlan) Project(id string) *Project {
	for i := range p.Projects {
		if p.Projects[i].ID == id {
			return &p.Projects[i]
		}
	}
	return nil
}

// TopicOwningTask returns the topic whose task list contains taskID, or nil.
func (p *LearningPlan) TopicOwningTask(taskID string) *Topic {
	for i := range p.Topics {
		for _, t := range p.Topics[i].Tasks {
			if t.ID == taskID {
				return &p.Topics[i]
			}
		}
	}
	return nil
}

// Clone returns a deep copy of the plan.
func (p *LearningPlan) Clone() *LearningPlan {
	c := *p
	c.Topics = make([]Topic, len(p.Topics))
	for i, t := range p.Topics {
		c.Topics[i] = t
		c.Topics[i].Tasks = append([]Task(nil), t.Tasks...)
		c.Topics[i].Resources = append([]Resource(nil), t.Resources...)
	}
	c.Projects = make([]Project, len(p.Projects))
	for i, pr := range p.Projects {
		c.Projects[i] = pr
		c.Projects[i].RelatedTopics = append([]string(nil), pr.RelatedTopics...)
	}
	if p.Timeline.StartDate != nil {
		d := *p.Timeline.StartDate
		c.Timeline.StartDate = &d
	}
	if p.Timeline.EndDate != nil {
		d := *p.Timeline.EndDate
		c.Timeline.EndDate = &d
	}
	return &c
}
