package plan

import "math"

// TopicProgress derives a topic's completion percentage from its tasks:
// 0 with no tasks, otherwise round(100 * completed / total).
func TopicProgress(t Topic) int {
	if len(t.Tasks) == 0 {
		return 0
	}
	completed := 0
	for _, task := range t.Tasks {
		if task.Status == StatusCompleted {
			completed++
		}
	}
	return int(math.Round(100 * float64(completed) / float64(len(t.Tasks))))
}

// OverallProgress derives the plan-wide completion figure from topic
// statuses. In-progress topics count as half credit — a motivational
// dashboard number, not a precise completion metric.
func OverallProgress(p *LearningPlan) int {
	if p == nil || len(p.Topics) == 0 {
		return 0
	}
	completed, inProgress := 0, 0
	for _, t := range p.Topics {
		switch t.Status {
		case StatusCompleted:
			completed++
		case StatusInProgress:
			inProgress++
		}
	}
	score := float64(completed) + 0.5*float64(inProgress)
	return int(math.Round(100 * score / float64(len(p.Topics))))
}
