package speechtotext

import "github.com/ottokiosk/otto-core/core/audio"

type TranscriptionOptions struct {
	// ResultCallback receives one Result per recognized chunk, in stream
	// order.
	ResultCallback func(result Result)

	EncodingInfo audio.EncodingInfo
}

type TranscriptionOption func(*TranscriptionOptions)

func WithResultCallback(callback func(result Result)) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.ResultCallback = callback
	}
}

func WithEncodingInfo(encodingInfo audio.EncodingInfo) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.EncodingInfo = encodingInfo
	}
}
