package persist

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plancanvas/plancanvas/pkg/plan"
)

// fakeSaver records every document it is handed and can be told to fail or
// to block until released.
type fakeSaver struct {
	mu      sync.Mutex
	saved   []*plan.LearningPlan
	err     error
	release chan struct{}
}

func (f *fakeSaver) Save(ctx context.Context, p *plan.LearningPlan) error {
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, p)
	return nil
}

func (f *fakeSaver) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saved)
}

func (f *fakeSaver) last() *plan.LearningPlan {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.saved) == 0 {
		return nil
	}
	return f.saved[len(f.saved)-1]
}

func setupTestScheduler(t *testing.T, saver Saver, snapshot func() *plan.LearningPlan) *Scheduler {
	t.Helper()
	s := NewScheduler(saver, snapshot, zerolog.Nop())
	s.SetDebounce(20 * time.Millisecond)
	t.Cleanup(s.Close)
	return s
}

func TestSchedulerDebouncesBurst(t *testing.T) {
	saver := &fakeSaver{}
	title := "v0"
	s := setupTestScheduler(t, saver, func() *plan.LearningPlan {
		p := plan.NewLearningPlan()
		p.Title = title
		return p
	})

	// A burst of mutations collapses into one save of the final document
	for i := 0; i < 10; i++ {
		title = "v" + string(rune('0'+i))
		s.Trigger()
	}

	require.Eventually(t, func() bool { return saver.count() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "v9", saver.last().Title)

	// No further saves fire without a new trigger
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, 1, saver.count())
}

func TestSchedulerStatusLifecycle(t *testing.T) {
	saver := &fakeSaver{release: make(chan struct{})}
	s := setupTestScheduler(t, saver, plan.NewLearningPlan)

	assert.Equal(t, StateIdle, s.Status().State)

	s.Trigger()
	require.Eventually(t, func() bool { return s.Status().State == StateSaving }, time.Second, 5*time.Millisecond)

	close(saver.release)
	require.Eventually(t, func() bool { return s.Status().State == StateSuccess }, time.Second, 5*time.Millisecond)
}

func TestSchedulerErrorStatus(t *testing.T) {
	saver := &fakeSaver{err: errors.New("server: title must not be empty")}
	s := setupTestScheduler(t, saver, plan.NewLearningPlan)

	s.Trigger()
	require.Eventually(t, func() bool { return s.Status().State == StateError }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "server: title must not be empty", s.Status().Err)

	// The error is held until a later save supersedes it
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, StateError, s.Status().State)

	saver.mu.Lock()
	saver.err = nil
	saver.mu.Unlock()
	s.Trigger()
	require.Eventually(t, func() bool { return s.Status().State == StateSuccess }, time.Second, 5*time.Millisecond)
}

func TestSchedulerDisabled(t *testing.T) {
	saver := &fakeSaver{}
	s := setupTestScheduler(t, saver, plan.NewLearningPlan)

	s.SetEnabled(false)
	assert.False(t, s.Enabled())
	s.Trigger()
	time.Sleep(60 * time.Millisecond)
	assert.Zero(t, saver.count())

	s.SetEnabled(true)
	s.Trigger()
	require.Eventually(t, func() bool { return saver.count() == 1 }, time.Second, 5*time.Millisecond)
}

func TestSchedulerDisableCancelsPending(t *testing.T) {
	saver := &fakeSaver{}
	s := setupTestScheduler(t, saver, plan.NewLearningPlan)

	s.Trigger()
	s.SetEnabled(false)
	time.Sleep(60 * time.Millisecond)
	assert.Zero(t, saver.count())
}

func TestSchedulerSaveNowBypassesDebounce(t *testing.T) {
	saver := &fakeSaver{}
	s := setupTestScheduler(t, saver, plan.NewLearningPlan)
	s.SetDebounce(time.Hour)

	s.Trigger()
	s.SaveNow()
	require.Eventually(t, func() bool { return saver.count() == 1 }, time.Second, 5*time.Millisecond)

	// The pending hour-long timer was consumed by SaveNow
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, 1, saver.count())
}

func TestSchedulerCloseCancelsPending(t *testing.T) {
	saver := &fakeSaver{}
	s := NewScheduler(saver, plan.NewLearningPlan, zerolog.Nop())
	s.SetDebounce(20 * time.Millisecond)

	s.Trigger()
	s.Close()
	time.Sleep(60 * time.Millisecond)
	assert.Zero(t, saver.count())
}

func TestSchedulerStaleCompletionDropped(t *testing.T) {
	saver := &fakeSaver{release: make(chan struct{})}
	s := setupTestScheduler(t, saver, plan.NewLearningPlan)

	// First save blocks in flight
	s.SaveNow()
	require.Eventually(t, func() bool { return s.Status().State == StateSaving }, time.Second, 5*time.Millisecond)

	// Second save starts while the first is still blocked, then both finish
	s.SaveNow()
	close(saver.release)

	require.Eventually(t, func() bool { return saver.count() == 2 }, time.Second, 5*time.Millisecond)
	// Whichever completion carried the older sequence did not win
	require.Eventually(t, func() bool { return s.Status().State == StateSuccess }, time.Second, 5*time.Millisecond)
}

func TestSchedulerOnChange(t *testing.T) {
	saver := &fakeSaver{}
	s := setupTestScheduler(t, saver, plan.NewLearningPlan)

	var mu sync.Mutex
	var states []State
	s.OnChange = func(st Status) {
		mu.Lock()
		states = append(states, st.State)
		mu.Unlock()
	}

	s.Trigger()
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(states) >= 2
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, states, StateSaving)
	assert.Contains(t, states, StateSuccess)
}

// assigningSaver mimics a backend: documents without an id get one assigned
// on a create, documents with an id are replaced.
type assigningSaver struct {
	mu      sync.Mutex
	creates int
	saves   int
}

func (a *assigningSaver) Save(_ context.Context, p *plan.LearningPlan) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.saves++
	if p.ID == "" {
		a.creates++
		p.ID = "plan-1"
	}
	return nil
}

func (a *assigningSaver) counts() (creates, saves int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.creates, a.saves
}

func TestSchedulerReportsAssignedID(t *testing.T) {
	saver := &assigningSaver{}
	var mu sync.Mutex
	source := plan.NewLearningPlan()
	s := setupTestScheduler(t, saver, func() *plan.LearningPlan {
		mu.Lock()
		defer mu.Unlock()
		return source.Clone()
	})
	s.OnPlanCreated = func(id string) {
		mu.Lock()
		source.ID = id
		mu.Unlock()
	}

	// First save creates and hands the assigned id back to the source
	s.SaveNow()
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return source.ID == "plan-1"
	}, time.Second, 5*time.Millisecond)

	// Second save carries the id, so it replaces instead of creating again
	s.SaveNow()
	require.Eventually(t, func() bool {
		_, saves := saver.counts()
		return saves == 2
	}, time.Second, 5*time.Millisecond)
	creates, _ := saver.counts()
	assert.Equal(t, 1, creates)
}

func TestSchedulerCreateOnceOverHTTP(t *testing.T) {
	var posts, puts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			posts.Add(1)
			fmt.Fprint(w, `{"id":"plan-77"}`)
			return
		}
		puts.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	var mu sync.Mutex
	source := plan.NewLearningPlan()
	source.Title = "Learn Go"
	client := NewClient(server.URL, "", zerolog.Nop())
	s := setupTestScheduler(t, client, func() *plan.LearningPlan {
		mu.Lock()
		defer mu.Unlock()
		return source.Clone()
	})
	s.OnPlanCreated = func(id string) {
		mu.Lock()
		source.ID = id
		mu.Unlock()
	}

	s.SaveNow()
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return source.ID == "plan-77"
	}, time.Second, 5*time.Millisecond)

	s.SaveNow()
	require.Eventually(t, func() bool { return puts.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(1), posts.Load())
}
