package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/plancanvas/plancanvas/pkg/export"
	"github.com/plancanvas/plancanvas/pkg/history"
	"github.com/plancanvas/plancanvas/pkg/persist"
	"github.com/plancanvas/plancanvas/pkg/plan"
	"github.com/plancanvas/plancanvas/pkg/store"
	"github.com/plancanvas/plancanvas/pkg/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	dataDir := getDataDir()
	s, err := store.NewStore(dataDir)
	if err != nil {
		return err
	}

	log, closeLog, err := openLogger(s.LogPath())
	if err != nil {
		return err
	}
	defer closeLog()

	args := os.Args[1:]
	jsonOutput := hasFlag(args, "--json")
	args = removeFlag(args, "--json")
	args = removeFlagWithValue(args, "--dir")
	args = removeFlagWithValue(args, "--api")

	if len(args) == 0 {
		return runTUI(s, log)
	}

	switch args[0] {
	case "show":
		return cmdShow(s, jsonOutput)
	case "progress":
		return cmdProgress(s, jsonOutput)
	case "save":
		return cmdSave(s, log, jsonOutput)
	case "export":
		if len(args) < 2 {
			return fmt.Errorf("usage: plancanvas export <file.png>")
		}
		return cmdExport(s, args[1])
	case "history":
		return cmdHistory(s, jsonOutput)
	default:
		return fmt.Errorf("unknown command: %s\nUsage: plancanvas [show|progress|save|export|history]", args[0])
	}
}

func getDataDir() string {
	// Check env var
	if dir := os.Getenv("PLANCANVAS_DIR"); dir != "" {
		return dir
	}
	// Check --dir flag
	for i, a := range os.Args {
		if a == "--dir" && i+1 < len(os.Args) {
			return os.Args[i+1]
		}
	}
	// Default
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".plancanvas")
}

func getAPIBase() string {
	if url := os.Getenv("PLANCANVAS_API"); url != "" {
		return url
	}
	for i, a := range os.Args {
		if a == "--api" && i+1 < len(os.Args) {
			return os.Args[i+1]
		}
	}
	return ""
}

func openLogger(path string) (zerolog.Logger, func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("error opening log file: %w", err)
	}
	writer := zerolog.ConsoleWriter{Out: f, TimeFormat: time.RFC3339, NoColor: true}
	log := zerolog.New(writer).With().Timestamp().Logger()
	return log, func() { f.Close() }, nil
}

func hasFlag(args []string, flag string) bool {
	for _, a := range args {
		if a == flag {
			return true
		}
	}
	return false
}

func removeFlag(args []string, flag string) []string {
	var result []string
	for _, a := range args {
		if a != flag {
			result = append(result, a)
		}
	}
	return result
}

func removeFlagWithValue(args []string, flag string) []string {
	var result []string
	for i := 0; i < len(args); i++ {
		if args[i] == flag {
			i++
			continue
		}
		result = append(result, args[i])
	}
	return result
}

// buildSaver wires the configured destination behind the auto-save
// scheduler. Without an API base the scheduler persists locally so manual
// saves and history still work offline.
func buildSaver(s *store.Store, c *plan.Canvas, hist *history.Log, log zerolog.Logger) persist.Saver {
	var inner persist.Saver
	destination := "local"
	if api := getAPIBase(); api != "" {
		inner = persist.NewClient(api, os.Getenv("PLANCANVAS_TOKEN"), log)
		destination = api
	} else {
		inner = &localSaver{store: s, canvas: c}
	}
	return &recordingSaver{inner: inner, hist: hist, destination: destination, log: log}
}

// localSaver writes the plan file in place of a remote backend.
type localSaver struct {
	store  *store.Store
	canvas *plan.Canvas
}

func (l *localSaver) Save(_ context.Context, p *plan.LearningPlan) error {
	return l.store.Save(p, l.canvas.Elements)
}

// recordingSaver appends a history entry after every successful save.
type recordingSaver struct {
	inner       persist.Saver
	hist        *history.Log
	destination string
	log         zerolog.Logger
}

func (r *recordingSaver) Save(ctx context.Context, p *plan.LearningPlan) error {
	if err := r.inner.Save(ctx, p); err != nil {
		return err
	}
	if r.hist != nil {
		if err := r.hist.Record(p, r.destination, time.Now()); err != nil {
			r.log.Warn().Err(err).Msg("failed to record save history")
		}
	}
	return nil
}

func runTUI(s *store.Store, log zerolog.Logger) error {
	p, elements, err := s.Load()
	if err != nil {
		return err
	}
	canvas := plan.NewCanvasFrom(p, elements)

	hist, err := history.Open(s.HistoryPath())
	if err != nil {
		log.Warn().Err(err).Msg("save history unavailable")
		hist = nil
	} else {
		defer hist.Close()
	}

	sched := persist.NewScheduler(buildSaver(s, canvas, hist, log), canvas.Snapshot, log)
	defer sched.Close()

	m := tui.NewModel(s, canvas, sched)
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	sched.OnChange = func(st persist.Status) {
		program.Send(tui.SaveStatusMsg{Status: st})
	}
	sched.OnPlanCreated = func(id string) {
		program.Send(tui.PlanCreatedMsg{ID: id})
	}

	// Start file watcher
	cleanup, err := tui.StartWatcher(s.Root, store.PlanFile, program)
	if err != nil {
		log.Warn().Err(err).Msg("file watcher failed")
	} else {
		defer cleanup()
	}

	_, err = program.Run()
	return err
}

// CLI Commands

func cmdShow(s *store.Store, jsonOut bool) error {
	p, elements, err := s.Load()
	if err != nil {
		return err
	}

	if jsonOut {
		return outputJSON(map[string]interface{}{
			"plan":     p,
			"elements": elements,
		})
	}

	fmt.Println(p.Title)
	if p.Goal.Objective != "" {
		fmt.Printf("Goal: %s\n", p.Goal.Objective)
	}
	fmt.Printf("%d topics, %d projects, %d elements\n", len(p.Topics), len(p.Projects), len(elements))
	for _, t := range p.Topics {
		fmt.Printf("  %s %s (%d%%)\n", statusGlyph(t.Status), t.Title, t.Progress)
		for _, task := range t.Tasks {
			fmt.Printf("    %s %s\n", statusGlyph(task.Status), task.Title)
		}
	}
	return nil
}

func cmdProgress(s *store.Store, jsonOut bool) error {
	p, _, err := s.Load()
	if err != nil {
		return err
	}

	if jsonOut {
		topics := make([]map[string]interface{}, 0, len(p.Topics))
		for _, t := range p.Topics {
			topics = append(topics, map[string]interface{}{
				"id":       t.ID,
				"title":    t.Title,
				"progress": t.Progress,
			})
		}
		return outputJSON(map[string]interface{}{
			"overall": plan.OverallProgress(p),
			"topics":  topics,
		})
	}

	fmt.Printf("Overall: %d%%\n", plan.OverallProgress(p))
	for _, t := range p.Topics {
		fmt.Printf("  %-30s %d%%\n", t.Title, t.Progress)
	}
	return nil
}

func cmdSave(s *store.Store, log zerolog.Logger, jsonOut bool) error {
	p, elements, err := s.Load()
	if err != nil {
		return err
	}
	canvas := plan.NewCanvasFrom(p, elements)

	hist, err := history.Open(s.HistoryPath())
	if err != nil {
		hist = nil
	} else {
		defer hist.Close()
	}

	saver := buildSaver(s, canvas, hist, log)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	snap := canvas.Snapshot()
	if err := saver.Save(ctx, snap); err != nil {
		return err
	}
	if p.ID == "" && snap.ID != "" {
		// First save assigned an id; keep it in the working copy.
		canvas.Plan.ID = snap.ID
		if err := s.Save(canvas.Snapshot(), canvas.Elements); err != nil {
			return err
		}
	}

	if jsonOut {
		return outputJSON(map[string]string{"saved": p.Title})
	}
	fmt.Printf("Saved: %s\n", p.Title)
	return nil
}

func cmdExport(s *store.Store, filename string) error {
	_, elements, err := s.Load()
	if err != nil {
		return err
	}
	if err := export.PNG(filename, elements); err != nil {
		return err
	}
	fmt.Printf("Exported: %s\n", filename)
	return nil
}

func cmdHistory(s *store.Store, jsonOut bool) error {
	hist, err := history.Open(s.HistoryPath())
	if err != nil {
		return err
	}
	defer hist.Close()

	entries, err := hist.Recent(20)
	if err != nil {
		return err
	}

	if jsonOut {
		return outputJSON(entries)
	}

	if len(entries) == 0 {
		fmt.Println("No saves recorded yet.")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%s  %-20s %-24s %d topics, %d tasks, %d%%\n",
			e.SavedAt.Format("2006-01-02 15:04"), e.Destination, e.PlanTitle,
			e.TopicCount, e.TaskCount, e.OverallProgress)
	}
	return nil
}

func statusGlyph(st plan.Status) string {
	switch st {
	case plan.StatusCompleted:
		return "✓"
	case plan.StatusInProgress:
		return "◐"
	}
	return "○"
}

// JSON helpers

func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
