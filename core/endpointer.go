package orchestration

import (
	"context"
	"strings"
	"time"

	"github.com/ottokiosk/otto-core/core/speechtotext"
)

const (
	// The recognition engine reports roughly four results per second, so each
	// empty result stands for about a quarter second of silence.
	silenceTickSeconds     = 0.25
	silenceThresholdSecond = 1.0
)

// voiceEndpointer decides when a spoken utterance has ended by counting
// trailing silence in the recognition result stream.
type voiceEndpointer struct {
	// maxUtteranceDuration caps a single endpointed capture. Zero means no
	// cap.
	maxUtteranceDuration time.Duration
}

// CaptureSingleUtterance returns the first non-empty finalized segment. No
// silence tracking; used for name capture during enrollment.
func (e *voiceEndpointer) CaptureSingleUtterance(ctx context.Context, results <-chan speechtotext.Result) string {
	for {
		select {
		case <-ctx.Done():
			return ""
		case result, ok := <-results:
			if !ok {
				return ""
			}
			if result.Final && strings.TrimSpace(result.Text) != "" {
				return strings.TrimSpace(result.Text)
			}
		}
	}
}

// CaptureEndpointed collects finalized segments until enough consecutive
// silent results accumulate, then returns the space-joined utterance. A blank
// return means nothing was said; callers treat it as a no-op.
func (e *voiceEndpointer) CaptureEndpointed(ctx context.Context, results <-chan speechtotext.Result) string {
	var collected []string
	silenceTicks := 0

	var deadline <-chan time.Time
	if e != nil && e.maxUtteranceDuration > 0 {
		timer := time.NewTimer(e.maxUtteranceDuration)
		defer timer.Stop()
		deadline = timer.C
	}

	joined := func() string {
		return strings.TrimSpace(strings.Join(collected, " "))
	}

	for {
		select {
		case <-ctx.Done():
			return joined()
		case <-deadline:
			return joined()
		case result, ok := <-results:
			if !ok {
				return joined()
			}

			if result.Final {
				if segment := strings.TrimSpace(result.Text); segment != "" {
					collected = append(collected, segment)
					silenceTicks = 0
				} else {
					silenceTicks++
				}
			} else if strings.TrimSpace(result.Text) == "" {
				silenceTicks++
			}
			// A non-empty partial leaves the counter alone: speech is still
			// in progress.

			if float64(silenceTicks)*silenceTickSeconds > silenceThresholdSecond {
				return joined()
			}
		}
	}
}
