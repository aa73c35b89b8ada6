package capture

import (
	"image"
	"testing"
)

func TestAcquireFrame_SizesBuffer(t *testing.T) {
	img := AcquireFrame(image.Rect(0, 0, 5, 3))
	if len(img.Pix) != 5*3*4 || img.Stride != 20 {
		t.Fatalf("unexpected buffer: len=%d stride=%d", len(img.Pix), img.Stride)
	}
	RecycleFrame(img)

	// A smaller request may reuse the recycled backing array but must be resliced.
	small := AcquireFrame(image.Rect(0, 0, 2, 2))
	if len(small.Pix) != 16 || small.Stride != 8 || small.Rect != image.Rect(0, 0, 2, 2) {
		t.Fatalf("unexpected reused buffer: len=%d stride=%d rect=%v", len(small.Pix), small.Stride, small.Rect)
	}
}

func TestAcquireFrame_EmptyRect(t *testing.T) {
	img := AcquireFrame(image.Rect(0, 0, 0, 4))
	if img == nil || len(img.Pix) != 0 {
		t.Fatalf("expected empty image, got %+v", img)
	}
	RecycleFrame(img) // nil Pix is ignored
	RecycleFrame(nil)
}
