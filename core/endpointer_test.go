package orchestration

import (
	"context"
	"testing"
	"time"

	"github.com/ottokiosk/otto-core/core/speechtotext"
)

func feedResults(results ...speechtotext.Result) <-chan speechtotext.Result {
	ch := make(chan speechtotext.Result, len(results))
	for _, result := range results {
		ch <- result
	}
	return ch
}

func silence(ticks int) []speechtotext.Result {
	results := make([]speechtotext.Result, ticks)
	for i := range results {
		results[i] = speechtotext.Result{Final: true}
	}
	return results
}

func TestEndpointedReturnsEmptyOnPureSilence(t *testing.T) {
	var e voiceEndpointer

	got := e.CaptureEndpointed(context.Background(), feedResults(silence(5)...))
	if got != "" {
		t.Fatalf("expected empty utterance on silence, got %q", got)
	}
}

func TestEndpointedJoinsFinalizedSegments(t *testing.T) {
	var e voiceEndpointer

	results := []speechtotext.Result{
		{Final: true, Text: "two burgers"},
		{Final: true, Text: "no onions"},
	}
	results = append(results, silence(5)...)

	got := e.CaptureEndpointed(context.Background(), feedResults(results...))
	if got != "two burgers no onions" {
		t.Fatalf("expected joined utterance, got %q", got)
	}
}

func TestEndpointedSpeechResetsSilenceCounter(t *testing.T) {
	var e voiceEndpointer

	results := append(silence(4), speechtotext.Result{Final: true, Text: "cheeseburger"})
	results = append(results, silence(4)...)
	results = append(results, speechtotext.Result{Final: true, Text: "with fries"})
	results = append(results, silence(5)...)

	got := e.CaptureEndpointed(context.Background(), feedResults(results...))
	if got != "cheeseburger with fries" {
		t.Fatalf("expected both segments collected, got %q", got)
	}
}

func TestEndpointedNonEmptyPartialDoesNotCountAsSilence(t *testing.T) {
	var e voiceEndpointer

	results := append(silence(4), speechtotext.Result{Final: false, Text: "and a"})
	results = append(results, speechtotext.Result{Final: true, Text: "and a shake"})
	results = append(results, silence(5)...)

	got := e.CaptureEndpointed(context.Background(), feedResults(results...))
	if got != "and a shake" {
		t.Fatalf("expected in-progress speech to keep the capture open, got %q", got)
	}
}

func TestEndpointedEmptyPartialCountsAsSilence(t *testing.T) {
	var e voiceEndpointer

	results := []speechtotext.Result{{Final: true, Text: "one coffee"}}
	for range 5 {
		results = append(results, speechtotext.Result{Final: false})
	}

	got := e.CaptureEndpointed(context.Background(), feedResults(results...))
	if got != "one coffee" {
		t.Fatalf("expected empty partials to end the utterance, got %q", got)
	}
}

func TestEndpointedMaxUtteranceDurationCapsCapture(t *testing.T) {
	e := voiceEndpointer{maxUtteranceDuration: 20 * time.Millisecond}

	ch := make(chan speechtotext.Result)
	done := make(chan string, 1)
	go func() {
		done <- e.CaptureEndpointed(context.Background(), ch)
	}()

	select {
	case got := <-done:
		if got != "" {
			t.Fatalf("expected empty capped capture, got %q", got)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for the duration cap")
	}
}

func TestSingleUtteranceReturnsFirstNonEmptyFinal(t *testing.T) {
	var e voiceEndpointer

	results := []speechtotext.Result{
		{Final: false, Text: "An"},
		{Final: true},
		{Final: true, Text: " Ana "},
	}

	got := e.CaptureSingleUtterance(context.Background(), feedResults(results...))
	if got != "Ana" {
		t.Fatalf("expected first non-empty finalized segment, got %q", got)
	}
}

func TestSingleUtteranceReturnsEmptyOnCancel(t *testing.T) {
	var e voiceEndpointer

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := e.CaptureSingleUtterance(ctx, make(chan speechtotext.Result))
	if got != "" {
		t.Fatalf("expected empty result on cancellation, got %q", got)
	}
}
