package draft

import (
	"sync"
	"time"
)

// DebounceDelay is how long after the last edit an autosave fires.
const DebounceDelay = 1500 * time.Millisecond

// Scheduler debounces autosaves. Every Nudge restarts the countdown; when it
// expires with the gate open, the save function runs with a snapshot taken
// at fire time, so the last edit always wins. Safe for concurrent use.
type Scheduler struct {
	mu      sync.Mutex
	timer   *time.Timer
	stopped bool

	delay time.Duration
	gate  func() bool
	save  func()
}

// NewScheduler builds a scheduler. gate decides at fire time whether the
// draft is worth saving; save performs the write.
func NewScheduler(delay time.Duration, gate func() bool, save func()) *Scheduler {
	return &Scheduler{delay: delay, gate: gate, save: save}
}

// Nudge restarts the debounce countdown. Nudges after Stop are ignored.
func (s *Scheduler) Nudge() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, s.fire)
}

func (s *Scheduler) fire() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	if !s.gate() {
		return
	}
	s.save()
}

// Stop cancels any pending save and rejects future nudges. A save that
// already started is not interrupted.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
