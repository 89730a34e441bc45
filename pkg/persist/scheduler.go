package persist

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/plancanvas/plancanvas/pkg/plan"
)

const (
	// DefaultDebounce is how long the scheduler waits after the last
	// mutation before saving.
	DefaultDebounce = 2 * time.Second
	// successHold is how long a success status stays visible before the
	// scheduler reports idle again.
	successHold = 3 * time.Second
)

// State is the save indicator state.
type State int

const (
	StateIdle State = iota
	StateSaving
	StateSuccess
	StateError
)

// Status is a point-in-time view of the save indicator.
type Status struct {
	State State
	Err   string
}

// Scheduler debounces save triggers: a burst of mutations collapses into a
// single save of the final document. It holds one pending timer at a time;
// each trigger replaces the previous one.
//
// Timer callbacks and save completions arrive on their own goroutines, so
// all state lives behind a mutex. Completions carry the sequence number of
// the attempt they belong to; a completion older than the latest attempt is
// dropped rather than allowed to overwrite a newer status.
type Scheduler struct {
	saver    Saver
	snapshot func() *plan.LearningPlan
	debounce time.Duration
	log      zerolog.Logger

	// OnChange, if set, is called after every status transition. The TUI
	// uses it to push repaints; it may be called from timer goroutines.
	OnChange func(Status)

	// OnPlanCreated, if set, is called when a save assigns the plan its
	// server id. The owner must copy the id into the live document, or
	// every later save of a new plan creates another one. Called from the
	// save goroutine.
	OnPlanCreated func(id string)

	mu        sync.Mutex
	enabled   bool
	status    Status
	seq       uint64
	timer     *time.Timer
	holdTimer *time.Timer
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewScheduler creates a Scheduler saving through the given Saver. Snapshot
// is called at save time to capture the document; it must return a copy the
// editor will not mutate further.
func NewScheduler(saver Saver, snapshot func() *plan.LearningPlan, log zerolog.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		saver:    saver,
		snapshot: snapshot,
		debounce: DefaultDebounce,
		log:      log,
		enabled:  true,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// SetDebounce overrides the debounce interval. Used by tests.
func (s *Scheduler) SetDebounce(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.debounce = d
}

// SetEnabled turns auto-save on or off for the session. Disabling cancels
// any pending timer; an in-flight save is left to finish.
func (s *Scheduler) SetEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = enabled
	if !enabled && s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// Enabled reports whether auto-save is on.
func (s *Scheduler) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// Status returns the current save indicator state.
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Trigger schedules a save after the debounce interval. A trigger while a
// timer is pending replaces it, so only the last mutation of a burst fires.
func (s *Scheduler) Trigger() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, s.fire)
}

// SaveNow bypasses the debounce: any pending timer is cancelled and the
// save starts immediately. The save itself runs off the caller's goroutine.
func (s *Scheduler) SaveNow() {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()
	go s.fire()
}

// Close cancels pending work. No further saves start after Close returns.
func (s *Scheduler) Close() {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.holdTimer != nil {
		s.holdTimer.Stop()
		s.holdTimer = nil
	}
	s.mu.Unlock()
	s.cancel()
}

// fire runs when the debounce expires. It snapshots the document under the
// lock, then saves outside it.
func (s *Scheduler) fire() {
	s.mu.Lock()
	if s.ctx.Err() != nil {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	if s.holdTimer != nil {
		s.holdTimer.Stop()
		s.holdTimer = nil
	}
	s.seq++
	seq := s.seq
	snap := s.snapshot()
	s.setStatusLocked(Status{State: StateSaving})
	ctx := s.ctx
	onCreated := s.OnPlanCreated
	s.mu.Unlock()

	isNew := snap.ID == ""
	err := s.saver.Save(ctx, snap)
	if err == nil && isNew && snap.ID != "" && onCreated != nil {
		// The saver wrote the assigned id into the snapshot clone; hand it
		// back so the session's document stops looking new.
		onCreated(snap.ID)
	}
	s.complete(seq, err)
}

// complete applies a save result, unless a newer attempt has started since.
func (s *Scheduler) complete(seq uint64, err error) {
	s.mu.Lock()
	if seq != s.seq {
		// A newer save superseded this one; its result wins.
		s.mu.Unlock()
		return
	}
	if s.ctx.Err() != nil {
		// Closed mid-save; nobody is watching the status anymore.
		s.mu.Unlock()
		return
	}

	if err != nil {
		s.log.Error().Err(err).Msg("save failed")
		s.setStatusLocked(Status{State: StateError, Err: err.Error()})
		s.mu.Unlock()
		return
	}

	s.setStatusLocked(Status{State: StateSuccess})
	s.holdTimer = time.AfterFunc(successHold, func() {
		s.mu.Lock()
		if seq == s.seq && s.status.State == StateSuccess {
			s.setStatusLocked(Status{State: StateIdle})
		}
		s.mu.Unlock()
	})
	s.mu.Unlock()
}

// setStatusLocked transitions the status and fires OnChange. The mutex must
// be held; OnChange runs outside it.
func (s *Scheduler) setStatusLocked(status Status) {
	s.status = status
	if cb := s.OnChange; cb != nil {
		go cb(status)
	}
}
