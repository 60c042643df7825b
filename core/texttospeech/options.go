// Package texttospeech defines the speech synthesis contract used for kiosk
// prompts.
package texttospeech

import "github.com/ottokiosk/otto-core/core/audio"

type SynthesisOptions struct {
	// SpeechAudioCallback is called for every audio chunk the synthesizer
	// produces.
	SpeechAudioCallback func(audio []byte)
	// SpeechEndedCallback is called once, after the last audio chunk of the
	// utterance has been delivered.
	SpeechEndedCallback func()
	// ErrorCallback is called when the synthesizer encounters an error, this
	// usually means the synthesis has been cancelled
	ErrorCallback func(error)

	EncodingInfo audio.EncodingInfo
}

type SynthesisOption func(*SynthesisOptions)

func WithSpeechAudioCallback(callback func([]byte)) SynthesisOption {
	return func(o *SynthesisOptions) {
		o.SpeechAudioCallback = callback
	}
}

// WithSpeechEndedCallback sets the callback for when the synthesizer has
// finished producing audio for the utterance
func WithSpeechEndedCallback(callback func()) SynthesisOption {
	return func(o *SynthesisOptions) {
		o.SpeechEndedCallback = callback
	}
}

func WithErrorCallback(callback func(error)) SynthesisOption {
	return func(o *SynthesisOptions) { o.ErrorCallback = callback }
}

func WithEncodingInfo(encodingInfo audio.EncodingInfo) SynthesisOption {
	return func(o *SynthesisOptions) {
		if encodingInfo.IsZero() {
			return
		}

		o.EncodingInfo = encodingInfo
	}
}
