package orchestration

import (
	"context"
	"fmt"
	"strings"

	"github.com/ottokiosk/otto-core/core/events"
	"github.com/ottokiosk/otto-core/core/vision"
	"go.opentelemetry.io/otel/codes"
)

// terminalPhrases end the ordering loop when any of them appears in an
// utterance.
var terminalPhrases = []string{"confirm", "done", "that's all", "complete", "finish"}

func containsTerminalPhrase(utterance string) bool {
	lowered := strings.ToLower(utterance)
	for _, phrase := range terminalPhrases {
		if strings.Contains(lowered, phrase) {
			return true
		}
	}
	return false
}

// runEnrollment asks the new customer for their name and enrolls the face.
// It runs off the control tick; enrollment may retrain synchronously.
func (o *Orchestrator) runEnrollment(ctx context.Context, face vision.Frame) {
	ctx, span := tracer.Start(ctx, "enroll customer")
	defer span.End()

	o.synthesizer.SpeakBlocking(ctx, "Welcome. Please state your name.")

	window := o.speechCapture.openWindow()
	name := o.endpointer.CaptureSingleUtterance(ctx, window)
	o.speechCapture.closeWindow()

	if name == "" || ctx.Err() != nil {
		o.postEvent(events.NewEnrollmentFailed())
		return
	}

	if err := o.identity.Enroll(ctx, face, name); err != nil {
		err = fmt.Errorf("failed to enroll customer: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		o.postEvent(events.NewEnrollmentFailed())
		return
	}

	o.synthesizer.Speak(fmt.Sprintf("Thank you %s, you are now registered.", name))
	o.postEvent(events.NewEnrollmentSucceeded(name))
}

// runGreeting speaks the welcome-back prompt, then hands control back to the
// event loop.
func (o *Orchestrator) runGreeting(ctx context.Context, name string) {
	ctx, span := tracer.Start(ctx, "greet customer")
	defer span.End()

	o.synthesizer.SpeakBlocking(ctx, fmt.Sprintf("Welcome back, %s!", name))
	if ctx.Err() != nil {
		return
	}

	o.postEvent(events.NewGreetingFinished(name))
}

// runOrderingSession drives the turn-based ordering loop until the customer
// confirms. Only this worker mutates the ledger.
func (o *Orchestrator) runOrderingSession(ctx context.Context) {
	ctx, span := tracer.Start(ctx, "ordering session")
	defer span.End()

	o.synthesizer.SpeakBlocking(ctx, "Please place your order now.")

	for {
		if ctx.Err() != nil {
			return
		}

		window := o.speechCapture.openWindow()
		o.setStatus(StatusListening)
		utterance := o.endpointer.CaptureEndpointed(ctx, window)
		o.speechCapture.closeWindow()

		if ctx.Err() != nil {
			return
		}

		// A blank utterance is a capture timeout, not an error. Listen again.
		if utterance == "" {
			continue
		}

		o.setStatus(StatusProcessing)
		o.appendTranscript("Customer: " + utterance)

		if containsTerminalPhrase(utterance) {
			break
		}

		snapshot, err := o.ledger.SnapshotJSON()
		if err != nil {
			span.RecordError(err)
			logger.Warn("failed to snapshot order", "error", err)
			continue
		}

		payload, err := o.parser.ParseOrder(ctx, utterance, snapshot)
		if err != nil {
			// Parse failures leave the ledger untouched. The loop just
			// listens again.
			span.RecordError(err)
			logger.Warn("failed to parse order utterance", "error", err)
			continue
		}

		o.ledger.ApplyPayload(payload)
		o.appendTranscript("Order so far:\n" + o.ledger.Render(o.priceLookup))

		o.synthesizer.SpeakBlocking(ctx, "Do you need anything else? If not, please say 'I am done.'")
	}

	o.appendTranscript("\nFinal Order:\n" + o.ledger.Render(o.priceLookup))
	o.setStatus(StatusCompleted)
	o.postEvent(events.NewSessionCompleted())
}
