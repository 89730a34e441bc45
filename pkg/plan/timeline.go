package plan

import "time"

const day = 24 * time.Hour

// timelinePadding extends the computed range by a week on each end so bars
// never touch the edges of the grid.
const timelinePadding = 7

// Bar is one topic laid out on the day-granularity timeline grid.
type Bar struct {
	TopicID      string
	Title        string
	Status       Status
	OffsetDays   int
	DurationDays int
}

// TimelineBars lays out every topic that has both dates on a day grid.
// The returned start is the padded left edge of the grid and totalDays its
// width. With no dated topics the grid spans the two-week window around now.
func TimelineBars(topics []Topic, now time.Time) (bars []Bar, start time.Time, totalDays int) {
	var dated []Topic
	for _, t := range topics {
		if !t.StartDate.IsZero() && !t.EndDate.IsZero() {
			dated = append(dated, t)
		}
	}

	minDate, maxDate := now, now
	if len(dated) > 0 {
		minDate, maxDate = dated[0].StartDate, dated[0].EndDate
		for _, t := range dated[1:] {
			if t.StartDate.Before(minDate) {
				minDate = t.StartDate
			}
			if t.EndDate.After(maxDate) {
				maxDate = t.EndDate
			}
		}
	}
	minDate = minDate.AddDate(0, 0, -timelinePadding)
	maxDate = maxDate.AddDate(0, 0, timelinePadding)
	totalDays = int(maxDate.Sub(minDate) / day)

	for _, t := range dated {
		bars = append(bars, Bar{
			TopicID:      t.ID,
			Title:        t.Title,
			Status:       t.Status,
			OffsetDays:   int(t.StartDate.Sub(minDate) / day),
			DurationDays: int(t.EndDate.Sub(t.StartDate)/day) + 1,
		})
	}
	return bars, minDate, totalDays
}

// UpcomingTask pairs an incomplete task with its owning topic for the
// dashboard's upcoming-work table.
type UpcomingTask struct {
	Task       Task
	TopicID    string
	TopicTitle string
}

// UpcomingTasks returns every incomplete task, grouped by topic in plan
// order.
func UpcomingTasks(p *LearningPlan) []UpcomingTask {
	var out []UpcomingTask
	for _, topic := range p.Topics {
		for _, task := range topic.Tasks {
			if task.Status != StatusCompleted {
				out = append(out, UpcomingTask{Task: task, TopicID: topic.ID, TopicTitle: topic.Title})
			}
		}
	}
	return out
}
