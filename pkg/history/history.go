package history

import (
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	// sqlite db driver
	_ "github.com/mattn/go-sqlite3"

	"github.com/plancanvas/plancanvas/pkg/plan"
)

//go:embed schema.sql
var schemaSQL string

// Entry is one recorded save.
type Entry struct {
	ID              int64
	SavedAt         time.Time
	Destination     string
	PlanTitle       string
	TopicCount      int
	TaskCount       int
	OverallProgress int
}

// Log is the append-only save history, backed by sqlite.
type Log struct {
	conn *sql.DB
}

// Open connects to the history database at the given filename, creating the
// table if not present.
func Open(filename string) (*Log, error) {
	conn, err := sql.Open("sqlite3", filename)
	if err != nil {
		return nil, fmt.Errorf("error connecting to sqlite db at %s: %w", filename, err)
	}

	// idempotent setup sql
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("error running schema sql: %w", err)
	}

	return &Log{conn: conn}, nil
}

// Close closes the database connection.
func (l *Log) Close() error {
	return l.conn.Close()
}

// Record appends an entry for a completed save of the given plan.
func (l *Log) Record(p *plan.LearningPlan, destination string, savedAt time.Time) error {
	taskCount := 0
	for _, t := range p.Topics {
		taskCount += len(t.Tasks)
	}

	insertSQL := `INSERT INTO save_history
		(saved_datetime, destination, plan_title, topic_count, task_count, overall_progress)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := l.conn.Exec(insertSQL,
		savedAt.UTC().Format(time.RFC3339),
		destination,
		p.Title,
		len(p.Topics),
		taskCount,
		plan.OverallProgress(p),
	)
	if err != nil {
		return fmt.Errorf("error recording save: %w", err)
	}
	return nil
}

// Recent returns the most recent entries, newest first.
func (l *Log) Recent(limit int) ([]Entry, error) {
	selectSQL := `SELECT id, saved_datetime, destination, plan_title,
			topic_count, task_count, overall_progress
		FROM save_history
		ORDER BY id DESC
		LIMIT ?`

	rows, err := l.conn.Query(selectSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("error loading save history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var saved string
		if err := rows.Scan(&e.ID, &saved, &e.Destination, &e.PlanTitle,
			&e.TopicCount, &e.TaskCount, &e.OverallProgress); err != nil {
			return nil, fmt.Errorf("error scanning save history: %w", err)
		}
		e.SavedAt, _ = time.Parse(time.RFC3339, saved)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error scanning save history: %w", err)
	}

	return entries, nil
}
