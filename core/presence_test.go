package orchestration

import (
	"testing"
	"time"

	"github.com/ottokiosk/otto-core/core/events"
	"github.com/ottokiosk/otto-core/core/identity"
	"github.com/ottokiosk/otto-core/core/vision"
)

type eventRecorder struct {
	emitted []events.Event
}

func (r *eventRecorder) emit(event events.Event) {
	r.emitted = append(r.emitted, event)
}

func (r *eventRecorder) countKind(kind events.Kind) int {
	count := 0
	for _, event := range r.emitted {
		if event.Kind() == kind {
			count++
		}
	}
	return count
}

func newTrackerForTest() (*presenceTracker, *eventRecorder) {
	recorder := &eventRecorder{}
	tracker := newPresenceTracker(recorder.emit, newTimerScheduler())
	return tracker, recorder
}

func knownObservation(name string) presenceObservation {
	return presenceObservation{identity: identity.Known(name, 0.9)}
}

func unknownObservation() presenceObservation {
	return presenceObservation{
		identity: identity.Unknown,
		face:     vision.Frame{Width: 1, Height: 1, Pixels: []byte{0}},
	}
}

func TestAbsenceEmitsSingleResetPerEpisode(t *testing.T) {
	tracker, recorder := newTrackerForTest()

	for range absenceResetThreshold * 3 {
		tracker.Observe(nil)
	}

	if got := recorder.countKind(events.KindPresenceReset); got != 1 {
		t.Fatalf("expected exactly 1 reset event, got %d", got)
	}
}

func TestResetGuardClearedAllowsNextEpisode(t *testing.T) {
	tracker, recorder := newTrackerForTest()

	for range absenceResetThreshold {
		tracker.Observe(nil)
	}
	tracker.Reset()
	tracker.clearResetGuard()

	for range absenceResetThreshold {
		tracker.Observe(nil)
	}

	if got := recorder.countKind(events.KindPresenceReset); got != 2 {
		t.Fatalf("expected 2 reset events across episodes, got %d", got)
	}
}

func TestPresenceClearsAbsenceCount(t *testing.T) {
	tracker, recorder := newTrackerForTest()

	for range absenceResetThreshold - 1 {
		tracker.Observe(nil)
	}
	tracker.Observe([]presenceObservation{knownObservation("Ana")})
	for range absenceResetThreshold - 1 {
		tracker.Observe(nil)
	}

	if got := recorder.countKind(events.KindPresenceReset); got != 0 {
		t.Fatalf("expected no reset events, got %d", got)
	}
}

func TestSameIdentityWithinCooldownGreetsOnce(t *testing.T) {
	tracker, recorder := newTrackerForTest()
	now := time.Now()
	tracker.now = func() time.Time { return now }

	tracker.Observe([]presenceObservation{knownObservation("Ana")})
	now = now.Add(2 * time.Second)
	tracker.Observe([]presenceObservation{knownObservation("Ana")})

	if got := recorder.countKind(events.KindGreetCustomer); got != 1 {
		t.Fatalf("expected exactly 1 greet event within cooldown, got %d", got)
	}
}

func TestSameIdentityAfterCooldownGreetsAgain(t *testing.T) {
	tracker, recorder := newTrackerForTest()
	now := time.Now()
	tracker.now = func() time.Time { return now }

	tracker.Observe([]presenceObservation{knownObservation("Ana")})
	now = now.Add(greetCooldown + time.Second)
	tracker.Observe([]presenceObservation{knownObservation("Ana")})

	if got := recorder.countKind(events.KindGreetCustomer); got != 2 {
		t.Fatalf("expected 2 greet events after cooldown, got %d", got)
	}
}

func TestDifferentIdentityGreetsImmediately(t *testing.T) {
	tracker, recorder := newTrackerForTest()
	now := time.Now()
	tracker.now = func() time.Time { return now }

	tracker.Observe([]presenceObservation{knownObservation("Ana")})
	tracker.Observe([]presenceObservation{knownObservation("Ben")})

	if got := recorder.countKind(events.KindGreetCustomer); got != 2 {
		t.Fatalf("expected both identities greeted, got %d greet events", got)
	}

	greet, ok := recorder.emitted[1].(events.GreetCustomer)
	if !ok {
		t.Fatalf("expected second event to be a greet, got %T", recorder.emitted[1])
	}
	if greet.Name != "Ben" {
		t.Fatalf("expected second greet for Ben, got %q", greet.Name)
	}
}

func TestUnknownFaceStartsSingleEnrollment(t *testing.T) {
	tracker, recorder := newTrackerForTest()

	tracker.Observe([]presenceObservation{unknownObservation(), unknownObservation()})
	tracker.Observe([]presenceObservation{unknownObservation()})

	if got := recorder.countKind(events.KindEnrollCustomer); got != 1 {
		t.Fatalf("expected a single enrollment while the lock is held, got %d", got)
	}

	tracker.releaseRegistering()
	tracker.Observe([]presenceObservation{unknownObservation()})

	if got := recorder.countKind(events.KindEnrollCustomer); got != 2 {
		t.Fatalf("expected a new enrollment after the lock released, got %d", got)
	}
}

func TestResetClearsGreetingState(t *testing.T) {
	tracker, recorder := newTrackerForTest()
	now := time.Now()
	tracker.now = func() time.Time { return now }

	tracker.Observe([]presenceObservation{knownObservation("Ana")})
	tracker.Reset()
	now = now.Add(time.Second)
	tracker.Observe([]presenceObservation{knownObservation("Ana")})

	if got := recorder.countKind(events.KindGreetCustomer); got != 2 {
		t.Fatalf("expected a returning customer to be greeted after reset, got %d greet events", got)
	}
}
