package orchestration

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ottokiosk/otto-core/core/identity"
	"github.com/ottokiosk/otto-core/core/order"
	"github.com/ottokiosk/otto-core/core/speechtotext"
	"github.com/ottokiosk/otto-core/core/texttospeech"
	"github.com/ottokiosk/otto-core/core/vision"
)

type fakeFrameSource struct{}

func (s fakeFrameSource) NextFrame(context.Context) (vision.Frame, error) {
	return vision.Frame{Width: 4, Height: 4, Pixels: make([]byte, 16)}, nil
}

func (s fakeFrameSource) Close() error { return nil }

type fakeIdentity struct {
	mu       sync.Mutex
	present  bool
	known    identity.Identity
	enrolled []string
}

func (f *fakeIdentity) setPresent(present bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.present = present
}

func (f *fakeIdentity) Detect(context.Context, vision.Frame) ([]vision.BoundingBox, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.present {
		return nil, nil
	}
	return []vision.BoundingBox{{X: 0, Y: 0, W: 2, H: 2}}, nil
}

func (f *fakeIdentity) Recognize(context.Context, vision.Frame) (identity.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.known, nil
}

func (f *fakeIdentity) Enroll(_ context.Context, _ vision.Frame, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enrolled = append(f.enrolled, name)
	f.known = identity.Known(name, 1.0)
	return nil
}

func (f *fakeIdentity) enrolledNames() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.enrolled...)
}

// fakeSynthesizer completes every prompt instantly and records it.
type fakeSynthesizer struct {
	mu     sync.Mutex
	spoken []string
}

func (f *fakeSynthesizer) Synthesize(_ context.Context, text string, opts ...texttospeech.SynthesisOption) error {
	options := texttospeech.SynthesisOptions{SpeechEndedCallback: func() {}}
	for _, opt := range opts {
		opt(&options)
	}

	f.mu.Lock()
	f.spoken = append(f.spoken, text)
	f.mu.Unlock()

	options.SpeechEndedCallback()
	return nil
}

func (f *fakeSynthesizer) spokenTexts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.spoken...)
}

// fakeCaptureClient hands the registered result callback to the test so it
// can script recognition results.
type fakeCaptureClient struct {
	mu       sync.Mutex
	callback func(speechtotext.Result)
}

func (f *fakeCaptureClient) Transcribe(_ context.Context, opts ...speechtotext.TranscriptionOption) error {
	options := speechtotext.TranscriptionOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	f.mu.Lock()
	f.callback = options.ResultCallback
	f.mu.Unlock()
	return nil
}

func (f *fakeCaptureClient) SendAudio([]byte) error { return nil }
func (f *fakeCaptureClient) StopStream() error      { return nil }

// say feeds a finalized utterance followed by enough silence to endpoint it.
func (f *fakeCaptureClient) say(text string) {
	f.mu.Lock()
	callback := f.callback
	f.mu.Unlock()
	if callback == nil {
		return
	}

	if text != "" {
		callback(speechtotext.Result{Final: true, Text: text})
	}
	for range 5 {
		callback(speechtotext.Result{Final: true})
	}
}

type fakeParser struct {
	payloads map[string]order.Payload
}

func (f fakeParser) ParseOrder(_ context.Context, utterance string, _ string) (order.Payload, error) {
	return f.payloads[strings.ToLower(utterance)], nil
}

type sessionHarness struct {
	orchestrator *Orchestrator
	identity     *fakeIdentity
	synthesizer  *fakeSynthesizer
	capture      *fakeCaptureClient

	mu         sync.Mutex
	statuses   []Status
	transcript []string
	resets     int
}

func newSessionHarness(t *testing.T, parser OrderParser) *sessionHarness {
	t.Helper()

	h := &sessionHarness{
		identity:    &fakeIdentity{},
		synthesizer: &fakeSynthesizer{},
		capture:     &fakeCaptureClient{},
	}

	h.orchestrator = NewOrchestrator(
		WithFrameSource(fakeFrameSource{}),
		WithIdentityCapability(h.identity),
		WithSpeechCaptureClient(h.capture),
		WithSpeechSynthesizerClient(h.synthesizer),
		WithOrderParser(parser),
		WithPriceLookup(func(name string) float64 {
			if name == "burger" {
				return 5
			}
			return 0
		}),
		WithTickInterval(5*time.Millisecond),
	)
	h.orchestrator.confirmDelay = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	t.Cleanup(h.orchestrator.Close)

	err := h.orchestrator.Orchestrate(ctx,
		WithStatusCallback(func(status Status) {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.statuses = append(h.statuses, status)
		}),
		WithTranscriptCallback(func(line string) {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.transcript = append(h.transcript, line)
		}),
		WithResetCallback(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.resets++
		}),
	)
	if err != nil {
		t.Fatalf("failed to orchestrate: %v", err)
	}

	return h
}

func (h *sessionHarness) waitFor(t *testing.T, description string, condition func() bool) {
	t.Helper()

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", description)
}

func (h *sessionHarness) lastStatus() Status {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.statuses) == 0 {
		return ""
	}
	return h.statuses[len(h.statuses)-1]
}

func (h *sessionHarness) transcriptContains(fragment string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, line := range h.transcript {
		if strings.Contains(line, fragment) {
			return true
		}
	}
	return false
}

func (h *sessionHarness) resetCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.resets
}

func (h *sessionHarness) spoke(fragment string) bool {
	for _, text := range h.synthesizer.spokenTexts() {
		if strings.Contains(text, fragment) {
			return true
		}
	}
	return false
}

func TestKnownCustomerOrderingSession(t *testing.T) {
	parser := fakeParser{payloads: map[string]order.Payload{
		"two burgers no onions": {Order: []order.Delta{{
			Item:         "burger",
			Quantity:     2,
			Instructions: []string{"no onions"},
			Action:       order.ActionAdd,
		}}},
	}}
	h := newSessionHarness(t, parser)

	h.identity.known = identity.Known("Ana", 0.9)
	h.identity.setPresent(true)

	h.waitFor(t, "welcome-back greeting", func() bool { return h.spoke("Welcome back, Ana!") })
	h.waitFor(t, "order prompt", func() bool { return h.spoke("Please place your order now.") })
	h.waitFor(t, "listening status", func() bool { return h.lastStatus() == StatusListening })

	h.capture.say("two burgers no onions")

	h.waitFor(t, "order summary", func() bool { return h.transcriptContains("2 × Burger") })
	if !h.transcriptContains("Customer: two burgers no onions") {
		t.Fatalf("expected the utterance in the transcript")
	}
	if !h.transcriptContains("$10.00") {
		t.Fatalf("expected the rendered line total in the transcript")
	}

	h.waitFor(t, "follow-up prompt", func() bool { return h.spoke("Do you need anything else?") })
	h.waitFor(t, "listening again", func() bool { return h.lastStatus() == StatusListening })

	h.capture.say("that's all")

	h.waitFor(t, "completed status", func() bool { return h.lastStatus() == StatusCompleted })
	h.waitFor(t, "final summary", func() bool { return h.transcriptContains("Final Order:") })

	items := h.orchestrator.Order()
	if len(items) != 1 || items[0].Name != "burger" || items[0].Quantity != 2 {
		t.Fatalf("expected the completed order to keep the burger entry, got %+v", items)
	}
	h.waitFor(t, "idle state", func() bool { return h.orchestrator.State() == StateIdle })
}

func TestUnknownCustomerEnrollsBeforeOrdering(t *testing.T) {
	h := newSessionHarness(t, fakeParser{})

	h.identity.setPresent(true)

	h.waitFor(t, "enrollment prompt", func() bool { return h.spoke("Welcome. Please state your name.") })

	// The name window opens shortly after the prompt; keep answering until
	// the enrollment lands.
	h.waitFor(t, "enrollment", func() bool {
		h.capture.say("Ana")
		return len(h.identity.enrolledNames()) > 0
	})

	if got := h.identity.enrolledNames(); len(got) != 1 || got[0] != "Ana" {
		t.Fatalf("expected Ana enrolled once, got %v", got)
	}

	h.waitFor(t, "registration confirmation", func() bool { return h.spoke("Thank you Ana, you are now registered.") })
	h.waitFor(t, "ordering state", func() bool { return h.orchestrator.State() == StateOrdering })

	// The fresh enrollee must not be greeted as a returning customer.
	if h.spoke("Welcome back") {
		t.Fatalf("expected no welcome-back greeting right after enrollment")
	}
}

func TestAbsenceResetClearsLedgerAndSession(t *testing.T) {
	parser := fakeParser{payloads: map[string]order.Payload{
		"one burger": {Order: []order.Delta{{Item: "burger", Quantity: 1, Action: order.ActionAdd}}},
	}}
	h := newSessionHarness(t, parser)

	h.identity.known = identity.Known("Ana", 0.9)
	h.identity.setPresent(true)

	h.waitFor(t, "listening status", func() bool { return h.lastStatus() == StatusListening })
	h.capture.say("one burger")
	h.waitFor(t, "ledger entry", func() bool { return len(h.orchestrator.Order()) == 1 })

	h.identity.setPresent(false)

	h.waitFor(t, "session reset", func() bool { return h.resetCount() > 0 })
	h.waitFor(t, "cleared ledger", func() bool { return len(h.orchestrator.Order()) == 0 })
	h.waitFor(t, "idle state", func() bool { return h.orchestrator.State() == StateIdle })
}
