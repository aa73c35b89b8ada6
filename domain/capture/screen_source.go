package capture

import (
	"fmt"
	"image"

	"github.com/vova616/screenshot"
	xdraw "golang.org/x/image/draw"

	"github.com/soocke/pixel-gif-go/domain/failure"
)

// ScreenSource samples a rectangle of the screen and scales it to a fixed
// output size. Buffers come from the frame pool; rejected samples go back via
// Recycle.
type ScreenSource struct {
	rect          image.Rectangle
	width, height int
	grab          func(image.Rectangle) (*image.RGBA, error)
}

// NewScreenSource returns a source for rect (the full screen when rect is
// empty). A zero width or height keeps the rectangle's native size.
func NewScreenSource(rect image.Rectangle, width, height int) (*ScreenSource, error) {
	if rect.Empty() {
		full, err := screenshot.ScreenRect()
		if err != nil {
			return nil, failure.New(failure.SourceUnavailable, "screen source", err)
		}
		rect = full
	}
	return newScreenSource(rect, width, height, screenshot.CaptureRect)
}

func newScreenSource(rect image.Rectangle, width, height int, grab func(image.Rectangle) (*image.RGBA, error)) (*ScreenSource, error) {
	if rect.Empty() {
		return nil, failure.New(failure.SourceUnavailable, "screen source", fmt.Errorf("empty capture rectangle %v", rect))
	}
	if width <= 0 || height <= 0 {
		width, height = rect.Dx(), rect.Dy()
	}
	return &ScreenSource{rect: rect, width: width, height: height, grab: grab}, nil
}

// Dimensions reports the output size of every sample.
func (s *ScreenSource) Dimensions() (int, int) { return s.width, s.height }

// CurrentPixels grabs the rectangle and copies it into a pooled buffer,
// scaling when the output size differs from the captured size.
func (s *ScreenSource) CurrentPixels() (*image.RGBA, error) {
	img, err := s.grab(s.rect)
	if err != nil {
		return nil, fmt.Errorf("grab %v: %w", s.rect, err)
	}
	if img == nil {
		return nil, ErrSurfaceNotReady
	}
	dst := AcquireFrame(image.Rect(0, 0, s.width, s.height))
	src := img.Bounds()
	if src.Dx() == s.width && src.Dy() == s.height {
		xdraw.Copy(dst, image.Point{}, img, src, xdraw.Src, nil)
	} else {
		xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, src, xdraw.Src, nil)
	}
	return dst, nil
}

// Recycle hands a rejected sample back to the frame pool.
func (s *ScreenSource) Recycle(img *image.RGBA) { RecycleFrame(img) }
