package vectorstore

import (
	"sync"
	"time"
)

// Scheduler defers work, standing in for real processing latency. The
// memory client drives all status transitions through it so tests can
// substitute a manual implementation and fire transitions on demand.
type Scheduler interface {
	// AfterFunc runs fn after d. The returned function cancels the pending
	// call; cancelling after fn ran is a no-op.
	AfterFunc(d time.Duration, fn func()) (cancel func())
}

// timerScheduler is the production scheduler backed by time.AfterFunc.
type timerScheduler struct{}

// NewTimerScheduler returns a Scheduler backed by real timers.
func NewTimerScheduler() Scheduler {
	return timerScheduler{}
}

func (timerScheduler) AfterFunc(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// ManualScheduler queues scheduled work until Fire or FireAll is called.
// It exists for deterministic tests.
type ManualScheduler struct {
	mu      sync.Mutex
	pending []*manualTask
}

type manualTask struct {
	fn        func()
	cancelled bool
}

// NewManualScheduler returns an empty manual scheduler.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// AfterFunc queues fn regardless of d.
func (s *ManualScheduler) AfterFunc(d time.Duration, fn func()) func() {
	task := &manualTask{fn: fn}
	s.mu.Lock()
	s.pending = append(s.pending, task)
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		task.cancelled = true
		s.mu.Unlock()
	}
}

// Fire runs the oldest pending task. Returns false if none were pending.
func (s *ManualScheduler) Fire() bool {
	s.mu.Lock()
	var task *manualTask
	for len(s.pending) > 0 {
		task = s.pending[0]
		s.pending = s.pending[1:]
		if !task.cancelled {
			break
		}
		task = nil
	}
	s.mu.Unlock()

	if task == nil {
		return false
	}
	task.fn()
	return true
}

// FireAll runs every pending task in scheduling order.
func (s *ManualScheduler) FireAll() {
	for s.Fire() {
	}
}

// Pending returns the number of queued, uncancelled tasks.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.pending {
		if !t.cancelled {
			n++
		}
	}
	return n
}
