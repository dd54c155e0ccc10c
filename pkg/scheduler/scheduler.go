// Package scheduler runs deferred ticket tasks keyed by user and purpose.
//
// Scheduling a task under a key that already holds one stops the old task. Tasks are expected to re-check the
// registry when they fire: stopping a task is best-effort and a task may already be running.
package scheduler

import (
	"log/slog"
	"sync"
	"time"

	"github.com/Jacobbrewer1/verifier/pkg/clock"
)

// Task names used in keys.
const (
	TaskInactivity   = "inactivity"
	TaskSelfDestruct = "self_destruct"
)

// Key builds the key of a user's task.
func Key(userID, task string) string {
	return userID + ":" + task
}

type task struct {
	timer *clock.Timer
}

// Scheduler holds the pending tasks.
type Scheduler struct {
	mu    sync.Mutex
	l     *slog.Logger
	clk   clock.Clock
	tasks map[string]*task
}

// New creates a scheduler on the given clock.
func New(l *slog.Logger, clk clock.Clock) *Scheduler {
	return &Scheduler{
		l:     l,
		clk:   clk,
		tasks: make(map[string]*task),
	}
}

// Schedule runs fn after d, replacing any task already held under key.
func (s *Scheduler) Schedule(key string, d time.Duration, fn func()) {
	// The lock is held across AfterFunc, so the callback must never run synchronously.
	if d <= 0 {
		d = time.Nanosecond
	}

	t := new(task)

	s.mu.Lock()
	if old, ok := s.tasks[key]; ok {
		old.timer.Stop()
		s.l.Debug("Replaced scheduled task", slog.String("key", key))
	}
	s.tasks[key] = t
	t.timer = s.clk.AfterFunc(d, func() {
		s.mu.Lock()
		if s.tasks[key] == t {
			delete(s.tasks, key)
		}
		s.mu.Unlock()

		fn()
	})
	s.mu.Unlock()
}

// Cancel stops the task held under key. It reports whether a task was stopped before firing.
func (s *Scheduler) Cancel(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[key]
	if !ok {
		return false
	}
	delete(s.tasks, key)
	return t.timer.Stop()
}

// Pending returns the number of tasks waiting to fire.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Stop cancels every pending task.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, t := range s.tasks {
		t.timer.Stop()
		delete(s.tasks, key)
	}
}
