package dedup

import (
	"bytes"
	"image"

	"github.com/soocke/pixel-gif-go/domain/capture"
)

// LastExact reports a duplicate only when the candidate is byte-identical to
// the most recently accepted frame.
type LastExact struct{}

func (LastExact) IsDuplicate(candidate *image.RGBA, refs []capture.Frame) bool {
	if len(refs) == 0 {
		return false
	}
	return Identical(candidate, refs[len(refs)-1].Pixels)
}

// Identical reports whether a and b have the same size and identical bytes.
func Identical(a, b *image.RGBA) bool {
	if a == nil || b == nil || !sameSize(a, b) {
		return false
	}
	ab, bb := a.Bounds(), b.Bounds()
	rowLen := ab.Dx() * 4
	for y := 0; y < ab.Dy(); y++ {
		ai := a.PixOffset(ab.Min.X, ab.Min.Y+y)
		bi := b.PixOffset(bb.Min.X, bb.Min.Y+y)
		if !bytes.Equal(a.Pix[ai:ai+rowLen], b.Pix[bi:bi+rowLen]) {
			return false
		}
	}
	return true
}

func sameSize(a, b *image.RGBA) bool {
	return a.Bounds().Dx() == b.Bounds().Dx() && a.Bounds().Dy() == b.Bounds().Dy()
}
