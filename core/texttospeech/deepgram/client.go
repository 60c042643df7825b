// Package deepgram implements speech synthesis over the Deepgram speak
// websocket. Each utterance gets its own short lived connection, which keeps
// prompt boundaries unambiguous.
package deepgram

import (
	"context"
	"fmt"
	"slices"

	"github.com/ottokiosk/otto-core/core/audio"
)

type SpeechClient struct {
	voice        deepgramVoice
	encodingInfo audio.EncodingInfo
}

type SpeechClientOption func(*SpeechClient)

func WithVoice(voice deepgramVoice) SpeechClientOption {
	return func(c *SpeechClient) { c.voice = voice }
}

func WithEncodingInfo(encodingInfo audio.EncodingInfo) SpeechClientOption {
	return func(c *SpeechClient) {
		if !encodingInfo.IsZero() {
			c.encodingInfo = encodingInfo
		}
	}
}

func NewSpeechClient(opts ...SpeechClientOption) (*SpeechClient, error) {
	client := &SpeechClient{
		voice:        defaultVoice,
		encodingInfo: audio.GetDefaultEncodingInfo(),
	}
	for _, opt := range opts {
		opt(client)
	}

	if !slices.Contains(GetAvailableVoices(), client.voice) {
		return nil, fmt.Errorf("invalid voice")
	}

	return client, nil
}

func (c *SpeechClient) SetVoice(voice deepgramVoice) error {
	if !slices.Contains(GetAvailableVoices(), voice) {
		return fmt.Errorf("invalid voice")
	}
	c.voice = voice
	return nil
}

func (c *SpeechClient) Close(ctx context.Context) {}
