// Package portaudio provides an alternative capture/playback backend for
// hosts where miniaudio is unavailable.
package portaudio

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/ottokiosk/otto-core/core/audio"
)

type Client struct {
	bufferSize   int
	stream       *portaudio.Stream
	pendingAudio []byte
	pendingMu    sync.Mutex

	in  []int16
	out []int16
}

// NewClient opens the default duplex stream. Device failures here are fatal
// to the kiosk and surfaced to the caller.
func NewClient(bufferSize int) (*Client, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize portaudio: %w", err)
	}

	in := make([]int16, bufferSize)
	out := make([]int16, bufferSize)
	stream, err := portaudio.OpenDefaultStream(1, 1, audio.DefaultSampleRate, bufferSize, in, out)
	if err != nil {
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("failed to open portaudio stream: %w", err)
	}

	return &Client{
		bufferSize: bufferSize,
		stream:     stream,
		in:         in,
		out:        out,
	}, nil
}

// Stream pumps microphone audio into onAudio until ctx is cancelled.
func (c *Client) Stream(ctx context.Context, onAudio func(audio []byte)) error {
	if err := c.stream.Start(); err != nil {
		return fmt.Errorf("failed to start portaudio stream: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
			if err := c.stream.Read(); err != nil {
				return fmt.Errorf("failed to read from portaudio stream: %w", err)
			}

			audioBuffer := bytes.Buffer{}
			if err := binary.Write(&audioBuffer, binary.LittleEndian, c.in); err != nil {
				return fmt.Errorf("failed to encode captured audio: %w", err)
			}
			onAudio(audioBuffer.Bytes())
		}
	}
}

func (c *Client) Close() {
	c.stream.Close()
	_ = portaudio.Terminate()
}

// SendAudio writes whole device buffers, holding back the remainder until
// enough bytes accumulate.
func (c *Client) SendAudio(audio []byte) error {
	bufferSize := c.bufferSize * 2

	c.pendingMu.Lock()
	defer c.pendingMu.Unlock()

	c.pendingAudio = append(c.pendingAudio, audio...)
	for len(c.pendingAudio) >= bufferSize {
		if err := binary.Read(bytes.NewBuffer(c.pendingAudio[:bufferSize]), binary.LittleEndian, c.out); err != nil {
			return fmt.Errorf("failed to decode playback audio: %w", err)
		}
		if err := c.stream.Write(); err != nil {
			return fmt.Errorf("failed to write to portaudio stream: %w", err)
		}
		c.pendingAudio = c.pendingAudio[bufferSize:]
	}
	return nil
}

func (c *Client) ClearBuffer() {
	c.pendingMu.Lock()
	defer c.pendingMu.Unlock()
	c.pendingAudio = nil
}

// AwaitPlayed flushes the held-back remainder, padding the final device
// buffer with silence.
func (c *Client) AwaitPlayed() error {
	bufferSize := c.bufferSize * 2

	c.pendingMu.Lock()
	defer c.pendingMu.Unlock()

	if len(c.pendingAudio) == 0 {
		return nil
	}

	padded := make([]byte, bufferSize)
	copy(padded, c.pendingAudio)
	c.pendingAudio = nil

	if err := binary.Read(bytes.NewBuffer(padded), binary.LittleEndian, c.out); err != nil {
		return fmt.Errorf("failed to decode playback audio: %w", err)
	}
	if err := c.stream.Write(); err != nil {
		return fmt.Errorf("failed to write to portaudio stream: %w", err)
	}
	return nil
}

func (c *Client) EncodingInfo() audio.EncodingInfo {
	return audio.GetDefaultEncodingInfo()
}
