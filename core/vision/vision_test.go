package vision

import "testing"

func gradientFrame(width, height int) Frame {
	pixels := make([]byte, width*height)
	for i := range pixels {
		pixels[i] = byte(i)
	}
	return Frame{Width: width, Height: height, Pixels: pixels}
}

func TestCropExtractsRegion(t *testing.T) {
	frame := gradientFrame(4, 4)
	crop := frame.Crop(BoundingBox{X: 1, Y: 1, W: 2, H: 2})

	if crop.Width != 2 || crop.Height != 2 {
		t.Fatalf("expected 2x2 crop, got %dx%d", crop.Width, crop.Height)
	}
	want := []byte{5, 6, 9, 10}
	for i, pixel := range want {
		if crop.Pixels[i] != pixel {
			t.Fatalf("expected crop pixels %v, got %v", want, crop.Pixels)
		}
	}
}

func TestCropClampsToFrameBounds(t *testing.T) {
	frame := gradientFrame(3, 3)
	crop := frame.Crop(BoundingBox{X: -1, Y: 2, W: 5, H: 5})

	if crop.Width != 3 || crop.Height != 1 {
		t.Fatalf("expected clamped 3x1 crop, got %dx%d", crop.Width, crop.Height)
	}
}

func TestCropOutsideFrameIsZero(t *testing.T) {
	frame := gradientFrame(3, 3)
	if crop := frame.Crop(BoundingBox{X: 5, Y: 5, W: 2, H: 2}); !crop.IsZero() {
		t.Fatalf("expected zero frame for out-of-bounds crop, got %dx%d", crop.Width, crop.Height)
	}
}
