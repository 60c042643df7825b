package main

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ottokiosk/otto-core/core/identity"
	"github.com/ottokiosk/otto-core/core/vision"
)

// simulatedPresence stands in for the camera and the face classifier, which
// live outside this repository. The kiosk operator drives it from the TUI:
// a visitor is either absent, a returning customer (the most recently
// enrolled record), or a new face. Enrollments persist through the identity
// store, so a "new" visitor becomes a returning one on the next approach.
type simulatedPresence struct {
	store identity.Store

	mu      sync.Mutex
	present bool
	// enrolledName is the visitor the recognizer would match, empty for an
	// unknown face.
	enrolledName string
}

func newSimulatedPresence(ctx context.Context, store identity.Store) *simulatedPresence {
	p := &simulatedPresence{store: store}

	// A previously enrolled customer returns as the default visitor.
	if records, err := store.Records(ctx); err == nil && len(records) > 0 {
		p.enrolledName = records[len(records)-1].Name
	}

	return p
}

func (p *simulatedPresence) setPresent(present bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.present = present
}

func (p *simulatedPresence) togglePresent() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.present = !p.present
	return p.present
}

// presentNewFace makes the current visitor unrecognized, forcing enrollment.
func (p *simulatedPresence) presentNewFace() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.present = true
	p.enrolledName = ""
}

// NextFrame produces a synthetic frame immediately; the orchestrator's tick
// sets the cadence.
func (p *simulatedPresence) NextFrame(ctx context.Context) (vision.Frame, error) {
	if err := ctx.Err(); err != nil {
		return vision.Frame{}, err
	}
	return vision.Frame{Width: 200, Height: 200, Pixels: make([]byte, 200*200)}, nil
}

func (p *simulatedPresence) Close() error { return nil }

func (p *simulatedPresence) Detect(context.Context, vision.Frame) ([]vision.BoundingBox, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.present {
		return nil, nil
	}
	return []vision.BoundingBox{{X: 0, Y: 0, W: 200, H: 200}}, nil
}

func (p *simulatedPresence) Recognize(context.Context, vision.Frame) (identity.Identity, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.enrolledName == "" {
		return identity.Unknown, nil
	}
	return identity.Known(p.enrolledName, 0.9), nil
}

func (p *simulatedPresence) Enroll(ctx context.Context, _ vision.Frame, name string) error {
	if err := p.store.CreateRecord(ctx, identity.Record{
		ID:           uuid.NewString(),
		Name:         name,
		RegisteredAt: time.Now(),
	}); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.enrolledName = name
	return nil
}
