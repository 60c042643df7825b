package orchestration

import (
	"context"
	"time"

	"github.com/ottokiosk/otto-core/core/audio"
	"github.com/ottokiosk/otto-core/core/identity"
	"github.com/ottokiosk/otto-core/core/order"
	"github.com/ottokiosk/otto-core/core/speechtotext"
	"github.com/ottokiosk/otto-core/core/texttospeech"
	"github.com/ottokiosk/otto-core/core/vision"
)

type OrchestratorOption func(*Orchestrator)

type SpeechCapture interface {
	Transcribe(ctx context.Context, opts ...speechtotext.TranscriptionOption) error
	SendAudio(audio []byte) error
	StopStream() error
}

func WithSpeechCaptureClient(client SpeechCapture) OrchestratorOption {
	return func(o *Orchestrator) { o.speechCapture.setClient(client) }
}

type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string, opts ...texttospeech.SynthesisOption) error
}

func WithSpeechSynthesizerClient(client SpeechSynthesizer) OrchestratorOption {
	return func(o *Orchestrator) { o.synthesizer.setClient(client) }
}

type AudioCapture interface {
	EncodingInfo() audio.EncodingInfo
	Stream(ctx context.Context, onAudio func(audio []byte)) error
	Close()
}

func WithAudioCapture(client AudioCapture) OrchestratorOption {
	return func(o *Orchestrator) { o.speechCapture.setInput(client) }
}

type AudioPlayback interface {
	EncodingInfo() audio.EncodingInfo
	SendAudio(audio []byte) error
	AwaitPlayed() error
	ClearBuffer()
}

func WithAudioPlayback(client AudioPlayback) OrchestratorOption {
	return func(o *Orchestrator) { o.synthesizer.setOutput(client) }
}

func WithIdentityCapability(client identity.Capability) OrchestratorOption {
	return func(o *Orchestrator) { o.identity.set(client) }
}

type OrderParser interface {
	ParseOrder(ctx context.Context, utterance string, currentOrderJSON string) (order.Payload, error)
}

func WithOrderParser(client OrderParser) OrchestratorOption {
	return func(o *Orchestrator) { o.parser.set(client) }
}

func WithFrameSource(source vision.Source) OrchestratorOption {
	return func(o *Orchestrator) { o.frames = source }
}

// WithPriceLookup sets the catalog lookup used when rendering the order
// summary. Unknown items price at zero.
func WithPriceLookup(lookup order.PriceLookup) OrchestratorOption {
	return func(o *Orchestrator) { o.priceLookup = lookup }
}

// WithTickInterval overrides the control tick cadence.
func WithTickInterval(interval time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		if interval > 0 {
			o.tickInterval = interval
		}
	}
}

// WithMaxUtteranceDuration caps a single endpointed capture. Without it an
// utterance ends only on trailing silence.
func WithMaxUtteranceDuration(duration time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		if duration > 0 {
			o.endpointer.maxUtteranceDuration = duration
		}
	}
}

// FaceAnnotation pairs a detected face region with the recognized name for
// presentation overlays.
type FaceAnnotation struct {
	Box  vision.BoundingBox
	Name string
}

type OrchestrateOptions struct {
	onStatus     func(status Status)
	onTranscript func(line string)
	onFrame      func(frame vision.Frame, faces []FaceAnnotation)
	onReset      func()
}

type OrchestrateOption func(*OrchestrateOptions)

// WithStatusCallback registers a callback for presentation status changes.
// The status value is one-way; the presentation layer never feeds it back.
func WithStatusCallback(callback func(status Status)) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onStatus = callback
	}
}

// WithTranscriptCallback registers a callback for transcript-append lines
// (customer utterances and order summaries).
func WithTranscriptCallback(callback func(line string)) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onTranscript = callback
	}
}

// WithFrameCallback registers a callback for each processed camera frame and
// its recognized faces. It runs on the control tick and should not block.
func WithFrameCallback(callback func(frame vision.Frame, faces []FaceAnnotation)) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onFrame = callback
	}
}

// WithResetCallback registers a callback for session resets, so the
// presentation layer can clear its transcript.
func WithResetCallback(callback func()) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onReset = callback
	}
}
