// Package identity defines the face-identity capability: detecting faces,
// recognizing enrolled customers, and enrolling new ones. The classifier math
// lives behind the Matcher interface; this package owns the arbitration
// around it (confidence thresholds, record bookkeeping).
package identity

import (
	"context"
	"time"

	"github.com/ottokiosk/otto-core/core/vision"
)

// Identity is the outcome of recognizing one face. The zero value is the
// Unknown sentinel.
type Identity struct {
	Name       string
	Confidence float64
}

// Unknown is the sentinel for an unrecognized or low-confidence face.
var Unknown = Identity{}

// Known builds a recognized identity.
func Known(name string, confidence float64) Identity {
	return Identity{Name: name, Confidence: confidence}
}

// IsKnown reports whether the identity refers to an enrolled customer.
func (i Identity) IsKnown() bool {
	return i.Name != ""
}

// Capability is the contract the session core consumes. Enroll may retrain
// the underlying classifier synchronously and must be invoked off the control
// tick.
type Capability interface {
	Detect(ctx context.Context, frame vision.Frame) ([]vision.BoundingBox, error)
	Recognize(ctx context.Context, face vision.Frame) (Identity, error)
	Enroll(ctx context.Context, face vision.Frame, name string) error
}

// Record is one enrolled customer as persisted by the capability.
type Record struct {
	ID           string
	Name         string
	RegisteredAt time.Time
}

// Store persists enrollment records. Display names are not unique: two
// customers who give the same spoken name keep distinct records.
type Store interface {
	CreateRecord(ctx context.Context, record Record) error
	Record(ctx context.Context, id string) (Record, error)
	Records(ctx context.Context) ([]Record, error)
}
