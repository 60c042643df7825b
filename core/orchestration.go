// Package orchestration drives the face-gated ordering session: presence
// arbitration on a fixed control tick, the session state machine, voice
// endpointing, and order ledger reconciliation.
package orchestration

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ottokiosk/otto-core/core/events"
	"github.com/ottokiosk/otto-core/core/identity"
	"github.com/ottokiosk/otto-core/core/order"
	"github.com/ottokiosk/otto-core/core/vision"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const defaultTickInterval = 30 * time.Millisecond

type Orchestrator struct {
	session   *sessionContext
	ledger    *order.Ledger
	tracker   *presenceTracker
	scheduler *timerScheduler
	loop      *sessionEventLoop

	endpointer voiceEndpointer

	// identity is the face-identity facade used to handle optional client
	// wiring.
	identity identityCapability
	// parser is the language-understanding facade.
	parser        orderParser
	speechCapture speechCapture
	synthesizer   *speechSynthesizer

	frames      vision.Source
	priceLookup order.PriceLookup

	tickInterval time.Duration
	// confirmDelay gates the Registering to Ordering hand-off after a
	// successful enrollment.
	confirmDelay       time.Duration
	orchestrateOptions OrchestrateOptions
	baseContext        context.Context

	sessionMu     sync.Mutex
	sessionCancel context.CancelFunc

	closeOnce sync.Once
}

func NewOrchestrator(opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		session:      newSessionContext(),
		ledger:       order.NewLedger(),
		scheduler:    newTimerScheduler(),
		loop:         newSessionEventLoop(),
		synthesizer:  newSpeechSynthesizer(),
		priceLookup:  func(string) float64 { return 0 },
		tickInterval: defaultTickInterval,
		confirmDelay: enrollmentConfirmDelay,
		baseContext:  context.Background(),
	}
	o.tracker = newPresenceTracker(o.postEvent, o.scheduler)

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Orchestrate starts the session event loop, the speech pipeline, and the
// presence tick, then returns. It runs until ctx is cancelled or Close is
// called.
//
// Contract: call Orchestrate at most once per orchestrator instance.
func (o *Orchestrator) Orchestrate(ctx context.Context, opts ...OrchestrateOption) error {
	o.orchestrateOptions = OrchestrateOptions{}
	for _, opt := range opts {
		opt(&o.orchestrateOptions)
	}

	o.baseContext = ctx

	if started := o.loop.StartLoop(ctx, o.handleEvent); started {
		go func() {
			<-ctx.Done()
			o.Close()
		}()
	}

	o.synthesizer.start(ctx)

	if err := o.speechCapture.start(ctx); err != nil {
		return fmt.Errorf("failed to initialize speech capture: %w", err)
	}

	go o.runTicks(ctx)

	o.setStatus(StatusIdle)
	return nil
}

func (o *Orchestrator) Close() {
	o.closeOnce.Do(func() {
		o.cancelSessionWorker()
		o.scheduler.Stop()
		o.loop.Stop()
		o.synthesizer.stop()

		if err := o.speechCapture.close(o.baseContext); err != nil {
			recordedErr := fmt.Errorf("failed to close speech capture: %w", err)
			span := trace.SpanFromContext(o.baseContext)
			span.RecordError(recordedErr)
			span.SetStatus(codes.Error, recordedErr.Error())
		}

		o.loop.AwaitDone()
	})
}

// State returns the current session state.
func (o *Orchestrator) State() SessionState { return o.session.State() }

// Order returns a deep copy of the current ledger entries.
func (o *Orchestrator) Order() []order.LineItem { return o.ledger.Items() }

// runTicks drives the fixed-cadence control loop. The tick itself never
// blocks on session work; long operations run on worker goroutines and come
// back as events.
func (o *Orchestrator) runTicks(ctx context.Context) {
	ticker := time.NewTicker(o.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-o.loop.closeCh:
			return
		case <-ticker.C:
			o.tick(ctx)
		}
	}
}

func (o *Orchestrator) tick(ctx context.Context) {
	if o.frames == nil {
		return
	}

	frame, err := o.frames.NextFrame(ctx)
	if err != nil {
		return
	}

	boxes, err := o.identity.Detect(ctx, frame)
	if err != nil {
		logger.Warn("face detection failed", "error", err)
		return
	}

	observations := make([]presenceObservation, 0, len(boxes))
	annotations := make([]FaceAnnotation, 0, len(boxes))
	for _, box := range boxes {
		face := frame.Crop(box)
		recognized, err := o.identity.Recognize(ctx, face)
		if err != nil {
			logger.Warn("face recognition failed", "error", err)
			recognized = identity.Unknown
		}

		observations = append(observations, presenceObservation{identity: recognized, face: face})

		name := "Unknown"
		if recognized.IsKnown() {
			name = recognized.Name
		}
		annotations = append(annotations, FaceAnnotation{Box: box, Name: name})
	}

	o.tracker.Observe(observations)

	if o.orchestrateOptions.onFrame != nil {
		o.orchestrateOptions.onFrame(frame, annotations)
	}
}

func (o *Orchestrator) postEvent(event events.Event) {
	if !o.loop.Ingest(event) {
		logger.Warn("dropped session event", "kind", string(event.Kind()))
	}
}

func (o *Orchestrator) setStatus(status Status) {
	if o.orchestrateOptions.onStatus != nil {
		o.orchestrateOptions.onStatus(status)
	}
}

func (o *Orchestrator) appendTranscript(line string) {
	if o.orchestrateOptions.onTranscript != nil {
		o.orchestrateOptions.onTranscript(line)
	}
}

// sessionWorkerContext replaces the previous session worker context. Workers
// started from the event loop run under it so a reset can cancel them.
func (o *Orchestrator) sessionWorkerContext() context.Context {
	o.sessionMu.Lock()
	defer o.sessionMu.Unlock()

	if o.sessionCancel != nil {
		o.sessionCancel()
	}

	ctx, cancel := context.WithCancel(o.baseContext)
	o.sessionCancel = cancel
	return ctx
}

func (o *Orchestrator) cancelSessionWorker() {
	o.sessionMu.Lock()
	defer o.sessionMu.Unlock()

	if o.sessionCancel != nil {
		o.sessionCancel()
		o.sessionCancel = nil
	}
}
