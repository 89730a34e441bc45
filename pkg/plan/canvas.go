package plan

import (
	"errors"
	"fmt"
	"time"
)

// Default date windows applied when an element is created.
const (
	defaultTopicWindow   = 14 * 24 * time.Hour
	defaultTaskDue       = 7 * 24 * time.Hour
	defaultProjectWindow = 30 * 24 * time.Hour
)

var (
	// ErrElementNotFound is returned when an id does not name a canvas element.
	ErrElementNotFound = errors.New("element not found")
	// ErrTopicNotFound is returned when an operation needs an existing topic
	// element and the given id does not name one.
	ErrTopicNotFound = errors.New("topic not found")
	// ErrUnknownField is returned by UpdateElementContent for fields that are
	// not editable on any element type.
	ErrUnknownField = errors.New("unknown field")
)

// Canvas owns the element list and the mirrored LearningPlan document for a
// single editing session. Every mutating method updates both representations
// before returning, so the mirror invariant (one plan entry per topic/project
// element, same id) holds after every call.
//
// Canvas is not safe for concurrent use; the editor session drives it from a
// single event loop.
type Canvas struct {
	Elements []*CanvasElement
	Plan     *LearningPlan
	Selected string

	// OnMutate, if set, is called after every successful mutation except
	// MoveElement — drag gestures notify once, when the gesture ends.
	OnMutate func()

	nextID int
	now    func() time.Time
}

// NewCanvas creates an empty editing session with a fresh plan.
func NewCanvas() *Canvas {
	return &Canvas{Plan: NewLearningPlan(), now: time.Now}
}

// NewCanvasFrom restores a session from previously stored elements and plan.
func NewCanvasFrom(p *LearningPlan, elements []*CanvasElement) *Canvas {
	if p == nil {
		p = NewLearningPlan()
	}
	return &Canvas{Plan: p, Elements: elements, now: time.Now}
}

// SetClock overrides the session clock. Used by tests to pin default dates.
func (c *Canvas) SetClock(now func() time.Time) {
	c.now = now
}

// Element returns the element with the given id, or nil.
func (c *Canvas) Element(id string) *CanvasElement {
	for _, e := range c.Elements {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// SelectedElement returns the currently selected element, or nil.
func (c *Canvas) SelectedElement() *CanvasElement {
	if c.Selected == "" {
		return nil
	}
	return c.Element(c.Selected)
}

// Select marks an element as selected. An empty id clears the selection.
func (c *Canvas) Select(id string) {
	c.Selected = id
}

// allocID hands out a session-unique id with the given prefix. Restored
// sessions may already contain ids from earlier counters, so collisions are
// skipped rather than assumed away.
func (c *Canvas) allocID(prefix string) string {
	for {
		c.nextID++
		id := fmt.Sprintf("%s-%d", prefix, c.nextID)
		if c.Element(id) == nil {
			return id
		}
	}
}

func (c *Canvas) notify() {
	if c.OnMutate != nil {
		c.OnMutate()
	}
}

// AddElement places a new element of the given type at the default position
// (100,100), applies the type's default fields, selects it, and mirrors
// topics and projects into the plan document.
func (c *Canvas) AddElement(t ElementType) (*CanvasElement, error) {
	info, err := TypeInfoFor(t)
	if err != nil {
		return nil, err
	}

	now := c.now()
	e := &CanvasElement{
		ID:     c.allocID("element"),
		Type:   t,
		Title:  "New " + info.DisplayName,
		X:      100,
		Y:      100,
		Width:  info.Width,
		Height: info.Height,
		Color:  info.Color,
		ZIndex: len(c.Elements),
	}

	switch t {
	case TypeTopic, TypeSubtopic:
		start, end := now, now.Add(defaultTopicWindow)
		e.StartDate, e.EndDate = &start, &end
		e.Status = StatusNotStarted
		e.Tasks = []string{}
	case TypeTask:
		due := now.Add(defaultTaskDue)
		e.DueDate = &due
		e.Status = StatusNotStarted
	case TypeProject:
		start, end := now, now.Add(defaultProjectWindow)
		e.StartDate, e.EndDate = &start, &end
		e.Status = StatusNotStarted
		e.RelatedTopics = []string{}
	}

	c.Elements = append(c.Elements, e)
	c.Selected = e.ID

	switch t {
	case TypeTopic:
		c.Plan.Topics = append(c.Plan.Topics, Topic{
			ID:        e.ID,
			Title:     e.Title,
			StartDate: *e.StartDate,
			EndDate:   *e.EndDate,
			Status:    e.Status,
			Position:  Position{X: e.X, Y: e.Y, Width: e.Width, Height: e.Height},
			Tasks:     []Task{},
			Resources: []Resource{},
		})
	case TypeProject:
		c.Plan.Projects = append(c.Plan.Projects, Project{
			ID:            e.ID,
			Title:         e.Title,
			StartDate:     *e.StartDate,
			EndDate:       *e.EndDate,
			Status:        e.Status,
			RelatedTopics: []string{},
		})
	}

	c.notify()
	return e, nil
}

// UpdateElementContent sets an editable field on an element and propagates
// the change to the mirrored plan entry for topics and projects. Date fields
// accept "2006-01-02"; an unparseable date clears the field, matching the
// editor's lenient date handling.
func (c *Canvas) UpdateElementContent(id, field, value string) error {
	e := c.Element(id)
	if e == nil {
		return ErrElementNotFound
	}

	switch field {
	case "title":
		e.Title = value
	case "description":
		e.Description = value
	case "url":
		e.URL = value
	case "startDate":
		e.StartDate = parseDate(value)
	case "endDate":
		e.EndDate = parseDate(value)
	case "dueDate":
		e.DueDate = parseDate(value)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}

	switch e.Type {
	case TypeTopic:
		if t := c.Plan.Topic(id); t != nil {
			switch field {
			case "title":
				t.Title = value
			case "description":
				t.Description = value
			case "startDate":
				t.StartDate = deref(e.StartDate)
			case "endDate":
				t.EndDate = deref(e.EndDate)
			}
		}
	case TypeProject:
		if p := c.Plan.Project(id); p != nil {
			switch field {
			case "title":
				p.Title = value
			case "description":
				p.Description = value
			case "startDate":
				p.StartDate = deref(e.StartDate)
			case "endDate":
				p.EndDate = deref(e.EndDate)
			}
		}
	case TypeTask:
		if t := c.Plan.TopicOwningTask(id); t != nil {
			for i := range t.Tasks {
				if t.Tasks[i].ID != id {
					continue
				}
				switch field {
				case "title":
					t.Tasks[i].Title = value
				case "description":
					t.Tasks[i].Description = value
				case "dueDate":
					t.Tasks[i].DueDate = deref(e.DueDate)
				}
			}
		}
	}

	c.notify()
	return nil
}

// UpdateElementStatus sets the status of an element. For tasks it also
// locates the owning topic and recomputes the topic's progress with the new
// status already applied, syncing both the plan topic and the topic element.
// A task no topic owns keeps the status change without a recompute.
func (c *Canvas) UpdateElementStatus(id string, status Status) error {
	e := c.Element(id)
	if e == nil {
		return ErrElementNotFound
	}
	e.Status = status

	switch e.Type {
	case TypeTopic:
		if t := c.Plan.Topic(id); t != nil {
			t.Status = status
		}
	case TypeProject:
		if p := c.Plan.Project(id); p != nil {
			p.Status = status
		}
	case TypeTask:
		topic := c.Plan.TopicOwningTask(id)
		if topic == nil {
			// Free-standing task: the status change stands, there is just
			// no topic progress to recompute.
			break
		}
		for i := range topic.Tasks {
			if topic.Tasks[i].ID == id {
				topic.Tasks[i].Status = status
			}
		}
		topic.Progress = TopicProgress(*topic)
		if te := c.Element(topic.ID); te != nil {
			te.Progress = topic.Progress
		}
	}

	c.notify()
	return nil
}

// DeleteElement removes an element and everything that depends on it:
// deleting a topic removes its task elements and plan entry, deleting a task
// removes it from its owning topic's lists and recomputes progress, deleting
// a project removes the plan project. The selection is cleared.
func (c *Canvas) DeleteElement(id string) error {
	e := c.Element(id)
	if e == nil {
		return ErrElementNotFound
	}

	switch e.Type {
	case TypeTopic:
		c.removePlanTopic(id)
		c.removeElements(func(x *CanvasElement) bool {
			return x.ID == id || x.ParentTopicID == id
		})
	case TypeTask:
		if topic := c.Plan.TopicOwningTask(id); topic != nil {
			kept := topic.Tasks[:0]
			for _, t := range topic.Tasks {
				if t.ID != id {
					kept = append(kept, t)
				}
			}
			topic.Tasks = kept
			topic.Progress = TopicProgress(*topic)
			if te := c.Element(topic.ID); te != nil {
				te.Progress = topic.Progress
				te.Tasks = removeString(te.Tasks, id)
			}
		}
		c.removeElements(func(x *CanvasElement) bool { return x.ID == id })
	case TypeProject:
		kept := c.Plan.Projects[:0]
		for _, p := range c.Plan.Projects {
			if p.ID != id {
				kept = append(kept, p)
			}
		}
		c.Plan.Projects = kept
		c.removeElements(func(x *CanvasElement) bool { return x.ID == id })
	default:
		c.removeElements(func(x *CanvasElement) bool { return x.ID == id })
	}

	c.Selected = ""
	c.notify()
	return nil
}

// AddTaskToTopic creates a new task under an existing topic: a task record in
// the topic's task list and a task element offset (+50,+50) from the topic
// card, carrying the back-reference to its parent.
func (c *Canvas) AddTaskToTopic(topicID string) (*CanvasElement, error) {
	topicElem := c.Element(topicID)
	if topicElem == nil || topicElem.Type != TypeTopic {
		return nil, ErrTopicNotFound
	}
	topic := c.Plan.Topic(topicID)
	if topic == nil {
		return nil, ErrTopicNotFound
	}

	due := c.now().Add(defaultTaskDue)
	task := Task{
		ID:      c.allocID("task"),
		Title:   "New Task",
		DueDate: due,
		Status:  StatusNotStarted,
	}
	topic.Tasks = append(topic.Tasks, task)
	topic.Progress = TopicProgress(*topic)
	topicElem.Tasks = append(topicElem.Tasks, task.ID)
	topicElem.Progress = topic.Progress

	taskInfo, _ := TypeInfoFor(TypeTask)
	e := &CanvasElement{
		ID:            task.ID,
		Type:          TypeTask,
		Title:         task.Title,
		X:             topicElem.X + 50,
		Y:             topicElem.Y + 50,
		Width:         180,
		Height:        120,
		Color:         taskInfo.Color,
		ZIndex:        len(c.Elements),
		DueDate:       &due,
		Status:        StatusNotStarted,
		ParentTopicID: topicID,
	}
	c.Elements = append(c.Elements, e)

	c.notify()
	return e, nil
}

// MoveElement overwrites an element's position. Topic positions propagate
// into the plan topic. No mutation notification is sent — the drag gesture
// end is the save trigger, not every intermediate move.
func (c *Canvas) MoveElement(id string, x, y float64) error {
	e := c.Element(id)
	if e == nil {
		return ErrElementNotFound
	}
	e.X, e.Y = x, y

	if e.Type == TypeTopic {
		if t := c.Plan.Topic(id); t != nil {
			t.Position.X, t.Position.Y = x, y
		}
	}
	return nil
}

// SetTitle updates the plan title.
func (c *Canvas) SetTitle(title string) {
	c.Plan.Title = title
	c.notify()
}

// SetDescription updates the plan description.
func (c *Canvas) SetDescription(desc string) {
	c.Plan.Description = desc
	c.notify()
}

// SetGoal updates the plan's goal.
func (c *Canvas) SetGoal(objective, motivation string) {
	c.Plan.Goal = Goal{Objective: objective, Motivation: motivation}
	c.notify()
}

// SetTimeline updates the plan's overall date range.
func (c *Canvas) SetTimeline(start, end *time.Time) {
	c.Plan.Timeline = Timeline{StartDate: start, EndDate: end}
	c.notify()
}

// Snapshot returns a deep copy of the plan with the current canvas position
// merged in for every topic. This is the document handed to persistence.
func (c *Canvas) Snapshot() *LearningPlan {
	snap := c.Plan.Clone()
	for i := range snap.Topics {
		if e := c.Element(snap.Topics[i].ID); e != nil {
			snap.Topics[i].Position = Position{X: e.X, Y: e.Y, Width: e.Width, Height: e.Height}
		}
	}
	return snap
}

func (c *Canvas) removePlanTopic(id string) {
	kept := c.Plan.Topics[:0]
	for _, t := range c.Plan.Topics {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	c.Plan.Topics = kept
}

func (c *Canvas) removeElements(match func(*CanvasElement) bool) {
	kept := c.Elements[:0]
	for _, e := range c.Elements {
		if !match(e) {
			kept = append(kept, e)
		}
	}
	c.Elements = kept
}

func removeString(list []string, s string) []string {
	kept := list[:0]
	for _, v := range list {
		if v != s {
			kept = append(kept, v)
		}
	}
	return kept
}

// parseDate parses a YYYY-MM-DD value, returning nil when it does not parse.
// Invalid input clears the field rather than failing the edit.
func parseDate(value string) *time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil
	}
	return &t
}

func deref(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
