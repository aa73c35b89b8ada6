package capture

import (
	"fmt"
	"image"
	"image/draw"
	"time"
)

// hashSamples is the approximate number of pixels folded into a FrameHash.
const hashSamples = 1000

// FrameHash is a cheap, collision-prone fingerprint of a pixel buffer made of
// two 32-bit rolling checksums. Equal hashes only shortlist candidates.
type FrameHash struct {
	A, B uint32
}

func (h FrameHash) String() string { return fmt.Sprintf("%d-%d", int32(h.A), int32(h.B)) }

// Frame is an accepted sample plus its display duration. Never mutated after
// it is appended to a FrameStore.
type Frame struct {
	Pixels            *image.RGBA
	DelayCentiseconds int
	Hash              FrameHash
	Sequence          uint64
	CapturedAt        time.Time
}

// Width of the frame in pixels.
func (f Frame) Width() int { return f.Pixels.Bounds().Dx() }

// Height of the frame in pixels.
func (f Frame) Height() int { return f.Pixels.Bounds().Dy() }

// DelayFromMillis converts an inter-frame delay to GIF centiseconds, never below 1.
func DelayFromMillis(ms int) int {
	cs := ms / 10
	if cs < 1 {
		return 1
	}
	return cs
}

// HashPixels folds every stride-th pixel into the two checksums, with
// stride = max(1, pixelCount/1000).
func HashPixels(img *image.RGBA) FrameHash {
	if img == nil {
		return FrameHash{}
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	n := w * h
	if n <= 0 {
		return FrameHash{}
	}
	step := n / hashSamples
	if step < 1 {
		step = 1
	}
	var h1, h2 uint32
	for p := 0; p < n; p += step {
		i := img.PixOffset(b.Min.X+p%w, b.Min.Y+p/w)
		h1 = h1*31 + uint32(img.Pix[i]) + uint32(img.Pix[i+1])<<8
		h2 = h2*7 + uint32(img.Pix[i+2]) + uint32(img.Pix[i+3])<<8
	}
	return FrameHash{A: h1, B: h2}
}

// Packed returns img as a tightly packed RGBA anchored at the origin. Already
// packed buffers are returned as is; anything else is copied.
func Packed(img image.Image) *image.RGBA {
	if img == nil {
		return nil
	}
	b := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) && rgba.Stride == 4*b.Dx() {
		return rgba
	}
	dst := AcquireFrame(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
