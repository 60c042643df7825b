package miniaudio

import (
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"
	"github.com/ottokiosk/otto-core/core/audio"
)

type playbackClient struct {
	audioContext *malgo.AllocatedContext
	device       *malgo.Device
	config       malgo.DeviceConfig

	pendingAudio []byte
	drainWaiters []drainWaiter

	mu      sync.Mutex
	audioMu sync.Mutex
}

// drainWaiter is released once the playhead passes position.
type drainWaiter struct {
	position int
	release  func()
}

func (c *playbackClient) Init(audioContext *malgo.AllocatedContext) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	channels := 1
	format := malgo.FormatS16
	bytesPerFrame := malgo.SampleSizeInBytes(format) * channels

	c.config = malgo.DefaultDeviceConfig(malgo.Playback)
	c.config.SampleRate = uint32(audio.DefaultSampleRate)
	c.config.Playback.Format = format
	c.config.Playback.Channels = uint32(channels)
	c.config.Alsa.NoMMap = 1
	c.config.PeriodSizeInFrames = uint32(audio.DefaultSampleRate) / 10 // ~100ms of audio
	c.config.Periods = 4

	c.audioContext = audioContext

	var err error
	if c.device, err = malgo.InitDevice(
		c.audioContext.Context,
		c.config,
		malgo.DeviceCallbacks{Data: c.processAudio(bytesPerFrame)},
	); err != nil {
		return fmt.Errorf("failed to initialize playback device: %w", err)
	}

	return nil
}

func (c *playbackClient) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.device == nil {
		return fmt.Errorf("device not initialized")
	}

	if err := c.device.Start(); err != nil {
		return fmt.Errorf("failed to start playback device: %w", err)
	}
	return nil
}

func (c *playbackClient) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.device == nil {
		return fmt.Errorf("device not initialized")
	}

	if err := c.device.Stop(); err != nil {
		return fmt.Errorf("failed to stop playback device: %w", err)
	}

	c.ClearBuffer()
	return nil
}

func (c *playbackClient) SendAudio(audio []byte) error {
	if c.device == nil {
		return fmt.Errorf("device not initialized")
	} else if !c.device.IsStarted() {
		return fmt.Errorf("device not started")
	}

	c.audioMu.Lock()
	defer c.audioMu.Unlock()
	c.pendingAudio = append(c.pendingAudio, audio...)
	return nil
}

func (c *playbackClient) ClearBuffer() {
	c.audioMu.Lock()
	defer c.audioMu.Unlock()
	c.pendingAudio = nil
	waiters := c.drainWaiters
	c.drainWaiters = nil
	go func() {
		for _, waiter := range waiters {
			waiter.release()
		}
	}()
}

// AwaitPlayed blocks until everything queued so far has been handed to the
// device.
func (c *playbackClient) AwaitPlayed() error {
	wg := sync.WaitGroup{}
	wg.Add(1)

	c.audioMu.Lock()
	if len(c.pendingAudio) == 0 {
		c.audioMu.Unlock()
		return nil
	}
	c.drainWaiters = append(c.drainWaiters, drainWaiter{
		position: len(c.pendingAudio),
		release:  wg.Done,
	})
	c.audioMu.Unlock()

	wg.Wait()
	return nil
}

func (c *playbackClient) Uninit() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.device == nil {
		return fmt.Errorf("device not initialized")
	}

	c.device.Uninit()
	c.device = nil
	return nil
}

func (c *playbackClient) processAudio(bytesPerFrame int) malgo.DataProc {
	return func(pOutput, _ []byte, frameCount uint32) {
		need := int(frameCount) * bytesPerFrame

		c.audioMu.Lock()
		consumed := min(need, len(c.pendingAudio))
		copy(pOutput, c.pendingAudio[:consumed])
		c.pendingAudio = c.pendingAudio[consumed:]
		c.releaseWaitersLocked(consumed)
		c.audioMu.Unlock()
	}
}

// releaseWaitersLocked advances waiter positions by the consumed byte count
// and releases the ones that were fully played. Callers hold audioMu.
func (c *playbackClient) releaseWaitersLocked(consumed int) {
	var released []drainWaiter
	kept := c.drainWaiters[:0]
	for _, waiter := range c.drainWaiters {
		waiter.position -= consumed
		if waiter.position <= 0 {
			released = append(released, waiter)
			continue
		}
		kept = append(kept, waiter)
	}
	c.drainWaiters = kept

	if len(released) > 0 {
		go func() {
			for _, waiter := range released {
				waiter.release()
			}
		}()
	}
}
