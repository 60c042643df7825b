// Package vision defines the camera-side contracts the kiosk consumes. Frame
// acquisition and face-feature extraction live behind these interfaces; the
// session core never touches pixels beyond cropping.
package vision

import "context"

// Frame is a single grayscale camera frame, 8 bits per pixel, row-major.
type Frame struct {
	Width  int
	Height int
	Pixels []byte
}

// IsZero reports whether the frame carries no image data.
func (f Frame) IsZero() bool {
	return f.Width == 0 || f.Height == 0 || len(f.Pixels) == 0
}

// BoundingBox is a detected face region within a frame.
type BoundingBox struct {
	X int
	Y int
	W int
	H int
}

// Crop extracts the region under box, clamped to the frame bounds.
func (f Frame) Crop(box BoundingBox) Frame {
	x, y, w, h := box.X, box.Y, box.W, box.H
	if x < 0 {
		w += x
		x = 0
	}
	if y < 0 {
		h += y
		y = 0
	}
	if x+w > f.Width {
		w = f.Width - x
	}
	if y+h > f.Height {
		h = f.Height - y
	}
	if w <= 0 || h <= 0 {
		return Frame{}
	}

	pixels := make([]byte, 0, w*h)
	for row := y; row < y+h; row++ {
		start := row*f.Width + x
		pixels = append(pixels, f.Pixels[start:start+w]...)
	}
	return Frame{Width: w, Height: h, Pixels: pixels}
}

// Source produces camera frames. NextFrame blocks until a frame is available
// or ctx is cancelled; an error at startup (no camera) is fatal to the kiosk.
type Source interface {
	NextFrame(ctx context.Context) (Frame, error)
	Close() error
}
