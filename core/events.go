package orchestration

import (
	"context"

	"github.com/ottokiosk/otto-core/core/events"
)

// handleEvent is the single consumer of session events. Every state
// transition happens here, on the event loop goroutine; workers only post
// events back.
func (o *Orchestrator) handleEvent(ctx context.Context, event events.Event) {
	switch t := event.(type) {
	case events.EnrollCustomer:
		if !o.session.beginRegistration() {
			// A session is already in progress, let the customer in front of
			// the camera try again once it ends.
			o.tracker.releaseRegistering()
			return
		}
		go o.runEnrollment(o.sessionWorkerContext(), t.Face)

	case events.GreetCustomer:
		if !o.session.beginGreeting() {
			return
		}
		go o.runGreeting(o.sessionWorkerContext(), t.Name)

	case events.GreetingFinished:
		if !o.session.beginOrdering() {
			return
		}
		go o.runOrderingSession(o.sessionWorkerContext())

	case events.EnrollmentSucceeded:
		o.tracker.releaseRegistering()
		// Mark the fresh enrollee as greeted so the next tick does not greet
		// them again mid-session.
		o.tracker.markGreeted(t.Name)
		name := t.Name
		o.scheduler.Schedule(timerEnrollmentConfirm, o.confirmDelay, func() {
			o.postEvent(events.NewEnrollmentConfirmed(name))
		})

	case events.EnrollmentFailed:
		o.tracker.releaseRegistering()
		o.session.backToIdle()
		o.setStatus(StatusIdle)

	case events.EnrollmentConfirmed:
		if !o.session.beginOrdering() {
			return
		}
		go o.runOrderingSession(o.sessionWorkerContext())

	case events.SessionCompleted:
		o.session.completeOrdering()
		// The ledger is kept: a customer who lingers keeps seeing their
		// completed order until the absence reset clears it.
		o.session.backToIdle()

	case events.PresenceReset:
		o.resetSession()
	}
}

func (o *Orchestrator) resetSession() {
	logger.Info("resetting session for next customer")

	o.cancelSessionWorker()
	// Events queued before the reset belong to the departed customer.
	o.loop.Clear()
	o.scheduler.Cancel(timerEnrollmentConfirm)
	o.speechCapture.closeWindow()
	o.synthesizer.clearPlayback()
	o.ledger.Clear()
	o.tracker.Reset()
	o.session.forceIdle()
	o.setStatus(StatusIdle)

	if o.orchestrateOptions.onReset != nil {
		o.orchestrateOptions.onReset()
	}
}
