package orchestration

import (
	"context"
	"fmt"
	"sync"

	"github.com/ottokiosk/otto-core/core/texttospeech"
)

const speechQueueCapacity = 16

// speechSynthesizer is the synthesis facade. Prompts are serialized through a
// single worker so queued and blocking speech never overlap on the speaker.
type speechSynthesizer struct {
	// client stores the configured synthesis implementation.
	client SpeechSynthesizer
	// output is the configured speaker backend.
	output AudioPlayback

	queue     chan speechRequest
	closeCh   chan struct{}
	startOnce sync.Once
	endOnce   sync.Once
}

type speechRequest struct {
	text string
	done chan struct{}
}

func newSpeechSynthesizer() *speechSynthesizer {
	return &speechSynthesizer{
		queue:   make(chan speechRequest, speechQueueCapacity),
		closeCh: make(chan struct{}),
	}
}

func (s *speechSynthesizer) setClient(client SpeechSynthesizer) {
	if s != nil {
		s.client = client
	}
}

func (s *speechSynthesizer) setOutput(output AudioPlayback) {
	if s != nil {
		s.output = output
	}
}

func (s *speechSynthesizer) isConfigured() bool {
	return s != nil && s.client != nil
}

func (s *speechSynthesizer) start(ctx context.Context) {
	if s == nil {
		return
	}

	s.startOnce.Do(func() {
		go func() {
			for {
				select {
				case <-s.closeCh:
					return
				case <-ctx.Done():
					return
				case request := <-s.queue:
					s.synthesize(ctx, request)
				}
			}
		}()
	})
}

func (s *speechSynthesizer) stop() {
	if s == nil {
		return
	}

	s.endOnce.Do(func() { close(s.closeCh) })
}

// Speak queues text without waiting for playback.
func (s *speechSynthesizer) Speak(text string) {
	s.enqueue(speechRequest{text: text})
}

// SpeakBlocking queues text and waits until the prompt has finished playing
// or ctx is cancelled.
func (s *speechSynthesizer) SpeakBlocking(ctx context.Context, text string) {
	if !s.isConfigured() {
		return
	}

	done := make(chan struct{})
	s.enqueue(speechRequest{text: text, done: done})

	select {
	case <-done:
	case <-ctx.Done():
	case <-s.closeCh:
	}
}

func (s *speechSynthesizer) enqueue(request speechRequest) {
	if !s.isConfigured() {
		if request.done != nil {
			close(request.done)
		}
		return
	}

	select {
	case s.queue <- request:
	case <-s.closeCh:
		if request.done != nil {
			close(request.done)
		}
	}
}

func (s *speechSynthesizer) synthesize(ctx context.Context, request speechRequest) {
	defer func() {
		if request.done != nil {
			close(request.done)
		}
	}()

	var endOnce sync.Once
	ended := make(chan struct{})
	finish := func() { endOnce.Do(func() { close(ended) }) }

	opts := []texttospeech.SynthesisOption{
		texttospeech.WithSpeechAudioCallback(s.sendAudio),
		texttospeech.WithSpeechEndedCallback(finish),
		texttospeech.WithErrorCallback(func(err error) {
			logger.Warn("speech synthesis failed", "error", err)
			finish()
		}),
	}
	if s.output != nil {
		opts = append(opts, texttospeech.WithEncodingInfo(s.output.EncodingInfo()))
	}

	if err := s.client.Synthesize(ctx, request.text, opts...); err != nil {
		err = fmt.Errorf("failed to synthesize prompt: %w", err)
		logger.Warn(err.Error())
		return
	}

	select {
	case <-ended:
	case <-ctx.Done():
		return
	case <-s.closeCh:
		return
	}

	if s.output != nil {
		if err := s.output.AwaitPlayed(); err != nil {
			logger.Warn("failed to await playback", "error", err)
		}
	}
}

func (s *speechSynthesizer) sendAudio(chunk []byte) {
	if s == nil || s.output == nil {
		return
	}

	if err := s.output.SendAudio(chunk); err != nil {
		logger.Warn("failed to send synthesized audio", "error", err)
	}
}

// clearPlayback drops any queued but unplayed audio. Used on reset.
func (s *speechSynthesizer) clearPlayback() {
	if s == nil || s.output == nil {
		return
	}

	s.output.ClearBuffer()
}
