package orchestration

import (
	"sync"
	"time"

	"github.com/ottokiosk/otto-core/core/events"
	"github.com/ottokiosk/otto-core/core/identity"
	"github.com/ottokiosk/otto-core/core/vision"
)

const (
	greetCooldown          = 5 * time.Second
	absenceResetThreshold  = 60
	resetDebounceDelay     = 500 * time.Millisecond
	enrollmentConfirmDelay = 2500 * time.Millisecond
)

// presenceObservation is one recognized face from a control tick.
type presenceObservation struct {
	identity identity.Identity
	face     vision.Frame
}

// presenceTracker arbitrates greetings, enrollment starts, and absence resets
// from the per-tick presence signal. It only emits events; the session event
// loop owns the resulting transitions.
type presenceTracker struct {
	mu sync.Mutex

	absenceTicks    int
	resetGuard      bool
	registering     bool
	lastGreetedName string
	lastGreetedAt   time.Time

	now       func() time.Time
	emit      func(events.Event)
	scheduler *timerScheduler
}

func newPresenceTracker(emit func(events.Event), scheduler *timerScheduler) *presenceTracker {
	if emit == nil {
		emit = func(events.Event) {}
	}

	return &presenceTracker{
		now:       time.Now,
		emit:      emit,
		scheduler: scheduler,
	}
}

// Observe processes one control tick worth of recognitions. It never blocks:
// every emitted event is handled elsewhere.
func (t *presenceTracker) Observe(observations []presenceObservation) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(observations) == 0 {
		t.absenceTicks++
		if t.absenceTicks >= absenceResetThreshold && !t.resetGuard {
			t.resetGuard = true
			t.scheduler.Schedule(timerResetDebounce, resetDebounceDelay, t.clearResetGuard)
			t.emit(events.NewPresenceReset())
		}
		return
	}

	t.absenceTicks = 0

	for _, observation := range observations {
		if !observation.identity.IsKnown() {
			// One enrollment at a time. Further unknown faces wait for the
			// lock to release.
			if !t.registering {
				t.registering = true
				t.emit(events.NewEnrollCustomer(observation.face))
			}
			continue
		}

		name := observation.identity.Name
		if name != t.lastGreetedName || t.now().Sub(t.lastGreetedAt) > greetCooldown {
			t.lastGreetedName = name
			t.lastGreetedAt = t.now()
			t.emit(events.NewGreetCustomer(name))
		}
	}
}

func (t *presenceTracker) clearResetGuard() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resetGuard = false
}

// markGreeted records an out-of-band greeting, after enrollment, so the
// freshly registered customer is not immediately re-greeted.
func (t *presenceTracker) markGreeted(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastGreetedName = name
	t.lastGreetedAt = t.now()
}

func (t *presenceTracker) releaseRegistering() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.registering = false
}

// Reset clears greeting and absence state for the next customer. The reset
// guard is left to the debounce timer.
func (t *presenceTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastGreetedName = ""
	t.lastGreetedAt = time.Time{}
	t.absenceTicks = 0
	t.registering = false
}
