package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/plancanvas/plancanvas/pkg/plan"
)

// PlanFile is the name of the plan document inside the data directory.
const PlanFile = "plan.md"

// Store manages the filesystem-backed plan document.
type Store struct {
	Root string // e.g., ~/.local/share/plancanvas
}

// NewStore creates a Store rooted at the given directory.
// It creates the directory if it doesn't exist.
func NewStore(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &Store{Root: root}, nil
}

// PlanPath returns the path to plan.md.
func (s *Store) PlanPath() string {
	return filepath.Join(s.Root, PlanFile)
}

// HistoryPath returns the path to the save-history database.
func (s *Store) HistoryPath() string {
	return filepath.Join(s.Root, "history.db")
}

// LogPath returns the path to the session log file.
func (s *Store) LogPath() string {
	return filepath.Join(s.Root, "plancanvas.log")
}

// Load reads and parses plan.md. A missing file yields a fresh empty plan.
func (s *Store) Load() (*plan.LearningPlan, []*plan.CanvasElement, error) {
	data, err := os.ReadFile(s.PlanPath())
	if os.IsNotExist(err) {
		return plan.NewLearningPlan(), nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", PlanFile, err)
	}

	p, elements, err := ParsePlanFile(string(data))
	if err != nil {
		return nil, nil, fmt.Errorf("parsing %s: %w", PlanFile, err)
	}
	return p, elements, nil
}

// Save writes the plan and its canvas elements to plan.md. The write goes
// through a temp file and rename so a crash never leaves a half-written
// document behind.
func (s *Store) Save(p *plan.LearningPlan, elements []*plan.CanvasElement) error {
	content, err := SerializePlanFile(p, elements)
	if err != nil {
		return fmt.Errorf("serializing plan: %w", err)
	}

	tmp := s.PlanPath() + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), 0644); err != nil {
		return fmt.Errorf("writing plan: %w", err)
	}
	if err := os.Rename(tmp, s.PlanPath()); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing plan: %w", err)
	}
	return nil
}
