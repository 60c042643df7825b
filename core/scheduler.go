package orchestration

import (
	"sync"
	"time"
)

// timerKey names a pending delayed action so it can be inspected and
// cancelled instead of living as an anonymous closure.
type timerKey string

const (
	timerEnrollmentConfirm timerKey = "enrollment-confirm"
	timerResetDebounce     timerKey = "reset-debounce"
)

type timerScheduler struct {
	mu      sync.Mutex
	timers  map[timerKey]*time.Timer
	stopped bool
}

func newTimerScheduler() *timerScheduler {
	return &timerScheduler{timers: map[timerKey]*time.Timer{}}
}

// Schedule arms fn to run after delay. A pending timer under the same key is
// cancelled and replaced.
func (s *timerScheduler) Schedule(key timerKey, delay time.Duration, fn func()) {
	if s == nil || fn == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}

	if pending, ok := s.timers[key]; ok {
		pending.Stop()
	}

	s.timers[key] = time.AfterFunc(delay, func() {
		s.mu.Lock()
		delete(s.timers, key)
		s.mu.Unlock()

		fn()
	})
}

// Cancel stops the pending timer under key, if any, and reports whether one
// was pending.
func (s *timerScheduler) Cancel(key timerKey) bool {
	if s == nil {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pending, ok := s.timers[key]
	if !ok {
		return false
	}
	pending.Stop()
	delete(s.timers, key)
	return true
}

func (s *timerScheduler) Pending(key timerKey) bool {
	if s == nil {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.timers[key]
	return ok
}

// Stop cancels every pending timer and rejects further scheduling.
func (s *timerScheduler) Stop() {
	if s == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	for key, pending := range s.timers {
		pending.Stop()
		delete(s.timers, key)
	}
}
