package dedup

import (
	"image"
	"log/slog"

	"github.com/soocke/pixel-gif-go/domain/capture"
)

const (
	// verifyPixelStride samples every 4th pixel (16 bytes in a packed buffer).
	verifyPixelStride = 4
	// maxDifferentRatio of sampled pixels may differ before a hash match is
	// treated as a collision.
	maxDifferentRatio = 0.001
)

// HashVerify matches a candidate against every accepted frame sharing its
// FrameHash and confirms each hit with Verified. The hash index grows with the
// reference slice; one instance serves one session. Not concurrency-safe.
type HashVerify struct {
	tolerance int
	logger    *slog.Logger
	index     map[capture.FrameHash][]int
	indexed   int
}

// NewHashVerify returns an empty detector.
func NewHashVerify(tolerance int, logger *slog.Logger) *HashVerify {
	return &HashVerify{tolerance: tolerance, logger: logger, index: make(map[capture.FrameHash][]int)}
}

// IsDuplicate expects refs to carry hashes computed with capture.HashPixels.
func (d *HashVerify) IsDuplicate(candidate *image.RGBA, refs []capture.Frame) bool {
	if candidate == nil || len(refs) == 0 {
		d.Reset()
		return false
	}
	d.sync(refs)
	h := capture.HashPixels(candidate)
	for _, i := range d.index[h] {
		ref := refs[i].Pixels
		if ref == nil || !sameSize(candidate, ref) {
			continue
		}
		if Verified(candidate, ref, d.tolerance) {
			if d.logger != nil {
				d.logger.Debug("duplicate of accepted frame", "frame", i, "hash", h.String())
			}
			return true
		}
		if d.logger != nil {
			d.logger.Debug("hash collision", "frame", i, "hash", h.String())
		}
	}
	return false
}

// Reset drops the index.
func (d *HashVerify) Reset() {
	clear(d.index)
	d.indexed = 0
}

// sync indexes frames appended since the last call. A shorter slice means a
// different session's frames, so the index is rebuilt.
func (d *HashVerify) sync(refs []capture.Frame) {
	if len(refs) < d.indexed {
		d.Reset()
	}
	for i := d.indexed; i < len(refs); i++ {
		d.index[refs[i].Hash] = append(d.index[refs[i].Hash], i)
	}
	d.indexed = len(refs)
}

// Verified compares every 4th pixel of a and b. A sampled pixel differs when
// any channel differs by more than tolerance; the buffers are equivalent while
// the number of differing samples stays within 0.1% of all samples.
func Verified(a, b *image.RGBA, tolerance int) bool {
	if a == nil || b == nil || !sameSize(a, b) {
		return false
	}
	ab, bb := a.Bounds(), b.Bounds()
	w, h := ab.Dx(), ab.Dy()
	n := w * h
	sampled := (n + verifyPixelStride - 1) / verifyPixelStride
	maxDifferent := int(float64(sampled) * maxDifferentRatio)
	different := 0
	for p := 0; p < n; p += verifyPixelStride {
		x, y := p%w, p/w
		ai := a.PixOffset(ab.Min.X+x, ab.Min.Y+y)
		bi := b.PixOffset(bb.Min.X+x, bb.Min.Y+y)
		if channelsDiffer(a.Pix[ai:ai+4], b.Pix[bi:bi+4], tolerance) {
			different++
			if different > maxDifferent {
				return false
			}
		}
	}
	return true
}

func channelsDiffer(p, q []byte, tolerance int) bool {
	for c := 0; c < 4; c++ {
		d := int(p[c]) - int(q[c])
		if d < 0 {
			d = -d
		}
		if d > tolerance {
			return true
		}
	}
	return false
}
