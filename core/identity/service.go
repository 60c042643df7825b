package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ottokiosk/otto-core/core/vision"
)

// ErrRecordNotFound is returned by stores when an id has no record.
var ErrRecordNotFound = errors.New("identity record not found")

// defaultMatchThreshold is the minimum matcher confidence accepted as a
// recognition; anything below degrades to Unknown.
const defaultMatchThreshold = 0.5

// Detector finds face regions in a frame.
type Detector interface {
	DetectFaces(ctx context.Context, frame vision.Frame) ([]vision.BoundingBox, error)
}

// Matcher is the face classifier boundary. Match scores a face crop against
// the trained model and returns the best record id with a confidence in
// [0, 1]. Learn adds a labeled sample; Train rebuilds the model from all
// samples and may take a while.
type Matcher interface {
	Match(ctx context.Context, face vision.Frame) (recordID string, confidence float64, err error)
	Learn(ctx context.Context, recordID string, face vision.Frame) error
	Train(ctx context.Context) error
}

// Service implements [Capability] on top of a detector, a matcher, and a
// record store.
type Service struct {
	detector  Detector
	matcher   Matcher
	store     Store
	threshold float64
	now       func() time.Time
}

type ServiceOption func(*Service)

// WithMatchThreshold overrides the minimum confidence accepted as a match.
func WithMatchThreshold(threshold float64) ServiceOption {
	return func(s *Service) { s.threshold = threshold }
}

func NewService(detector Detector, matcher Matcher, store Store, opts ...ServiceOption) *Service {
	service := &Service{
		detector:  detector,
		matcher:   matcher,
		store:     store,
		threshold: defaultMatchThreshold,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *Service) Detect(ctx context.Context, frame vision.Frame) ([]vision.BoundingBox, error) {
	boxes, err := s.detector.DetectFaces(ctx, frame)
	if err != nil {
		return nil, fmt.Errorf("failed to detect faces: %w", err)
	}
	return boxes, nil
}

// Recognize matches a face crop against enrolled customers. Match errors and
// low-confidence matches both degrade to Unknown; recognition never blocks a
// session on classifier trouble.
func (s *Service) Recognize(ctx context.Context, face vision.Frame) (Identity, error) {
	recordID, confidence, err := s.matcher.Match(ctx, face)
	if err != nil || recordID == "" || confidence < s.threshold {
		return Unknown, nil
	}

	record, err := s.store.Record(ctx, recordID)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return Unknown, nil
		}
		return Unknown, fmt.Errorf("failed to load identity record %s: %w", recordID, err)
	}

	return Known(record.Name, confidence), nil
}

// Enroll stores a new record, teaches the matcher the face sample, and
// retrains synchronously. Callers run it off the control tick.
func (s *Service) Enroll(ctx context.Context, face vision.Frame, name string) error {
	record := Record{
		ID:           uuid.NewString(),
		Name:         name,
		RegisteredAt: s.now(),
	}
	if err := s.store.CreateRecord(ctx, record); err != nil {
		return fmt.Errorf("failed to persist identity record: %w", err)
	}
	if err := s.matcher.Learn(ctx, record.ID, face); err != nil {
		return fmt.Errorf("failed to store face sample: %w", err)
	}
	if err := s.matcher.Train(ctx); err != nil {
		return fmt.Errorf("failed to retrain face model: %w", err)
	}
	return nil
}
