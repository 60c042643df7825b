package orchestration

import (
	"context"
	"fmt"
	"sync"

	"github.com/ottokiosk/otto-core/core/audio"
	"github.com/ottokiosk/otto-core/core/speechtotext"
)

// speechCapture is the capture facade. It owns the wiring between the
// microphone, the recognition client, and whichever endpointer capture is
// currently listening.
type speechCapture struct {
	// client stores the configured recognition implementation.
	client SpeechCapture
	// input is the configured microphone backend.
	input AudioCapture

	mu sync.Mutex
	// sink is the active capture window, nil while nobody is listening.
	// Results arriving outside a window are dropped.
	sink chan speechtotext.Result
}

func (s *speechCapture) setClient(client SpeechCapture) {
	if s != nil {
		s.client = client
	}
}

func (s *speechCapture) setInput(input AudioCapture) {
	if s != nil {
		s.input = input
	}
}

func (s *speechCapture) isConfigured() bool {
	return s != nil && s.client != nil
}

func (s *speechCapture) encodingInfo() audio.EncodingInfo {
	if s != nil && s.input != nil {
		return s.input.EncodingInfo()
	}
	return audio.GetDefaultEncodingInfo()
}

func (s *speechCapture) start(ctx context.Context) error {
	if !s.isConfigured() {
		return nil
	}

	if err := s.client.Transcribe(ctx,
		speechtotext.WithResultCallback(s.dispatch),
		speechtotext.WithEncodingInfo(s.encodingInfo()),
	); err != nil {
		return fmt.Errorf("failed to start transcribing: %w", err)
	}

	if s.input != nil {
		if err := s.input.Stream(ctx, func(chunk []byte) {
			if err := s.client.SendAudio(chunk); err != nil {
				logger.Warn("failed to forward captured audio", "error", err)
			}
		}); err != nil {
			return fmt.Errorf("failed to start audio capture: %w", err)
		}
	}

	return nil
}

func (s *speechCapture) dispatch(result speechtotext.Result) {
	if s == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sink == nil {
		return
	}

	select {
	case s.sink <- result:
	default:
		// A stalled listener must not block the recognition stream.
	}
}

// openWindow begins routing recognition results to the returned channel.
// Only one window is open at a time; opening replaces any previous one.
func (s *speechCapture) openWindow() <-chan speechtotext.Result {
	sink := make(chan speechtotext.Result, 16)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sink = sink
	return sink
}

func (s *speechCapture) closeWindow() {
	if s == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sink = nil
}

func (s *speechCapture) close(ctx context.Context) error {
	if s == nil {
		return nil
	}

	if s.input != nil {
		s.input.Close()
	}

	if !s.isConfigured() {
		return nil
	}

	if err := s.client.StopStream(); err != nil {
		return fmt.Errorf("failed to stop transcription stream: %w", err)
	}

	switch c := s.client.(type) {
	case interface{ Close(context.Context) error }:
		if err := c.Close(ctx); err != nil {
			return fmt.Errorf("failed to close speech capture client: %w", err)
		}
	case interface{ Close(context.Context) }:
		c.Close(ctx)
	case interface{ Close() error }:
		if err := c.Close(); err != nil {
			return fmt.Errorf("failed to close speech capture client: %w", err)
		}
	case interface{ Close() }:
		c.Close()
	}

	return nil
}
