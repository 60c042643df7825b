package orchestration

import (
	"testing"
	"time"
)

func TestSchedulerRunsAfterDelay(t *testing.T) {
	s := newTimerScheduler()
	defer s.Stop()

	fired := make(chan struct{})
	s.Schedule(timerEnrollmentConfirm, 5*time.Millisecond, func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for scheduled timer")
	}

	if s.Pending(timerEnrollmentConfirm) {
		t.Fatalf("expected timer to be cleared after firing")
	}
}

func TestSchedulerReplacesPendingTimerUnderSameKey(t *testing.T) {
	s := newTimerScheduler()
	defer s.Stop()

	fired := make(chan string, 2)
	s.Schedule(timerEnrollmentConfirm, 50*time.Millisecond, func() { fired <- "first" })
	s.Schedule(timerEnrollmentConfirm, 5*time.Millisecond, func() { fired <- "second" })

	select {
	case got := <-fired:
		if got != "second" {
			t.Fatalf("expected replacement timer to fire, got %q", got)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for replacement timer")
	}

	select {
	case got := <-fired:
		t.Fatalf("expected replaced timer to stay silent, got %q", got)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSchedulerCancelStopsPendingTimer(t *testing.T) {
	s := newTimerScheduler()
	defer s.Stop()

	fired := make(chan struct{}, 1)
	s.Schedule(timerResetDebounce, 20*time.Millisecond, func() { fired <- struct{}{} })

	if !s.Cancel(timerResetDebounce) {
		t.Fatalf("expected cancel to report a pending timer")
	}
	if s.Cancel(timerResetDebounce) {
		t.Fatalf("expected second cancel to report nothing pending")
	}

	select {
	case <-fired:
		t.Fatalf("expected cancelled timer to stay silent")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSchedulerStopRejectsFurtherScheduling(t *testing.T) {
	s := newTimerScheduler()

	fired := make(chan struct{}, 1)
	s.Schedule(timerResetDebounce, 20*time.Millisecond, func() { fired <- struct{}{} })
	s.Stop()
	s.Schedule(timerEnrollmentConfirm, time.Millisecond, func() { fired <- struct{}{} })

	select {
	case <-fired:
		t.Fatalf("expected no timer to fire after stop")
	case <-time.After(100 * time.Millisecond):
	}

	if s.Pending(timerEnrollmentConfirm) {
		t.Fatalf("expected scheduling after stop to be rejected")
	}
}
