package capture

import (
	"image"
	"image/draw"
	"sync"
)

// ImageSource exposes a host-owned surface. The host publishes its latest
// rendering with Update; every sample is an independent copy.
type ImageSource struct {
	mu            sync.RWMutex
	current       image.Image
	width, height int
}

// NewImageSource returns a source for a width x height surface with no content.
func NewImageSource(width, height int) *ImageSource {
	return &ImageSource{width: width, height: height}
}

// Update replaces the surface content. img is read on every sample, so the
// host should not mutate it after publishing.
func (s *ImageSource) Update(img image.Image) {
	s.mu.Lock()
	s.current = img
	s.mu.Unlock()
}

func (s *ImageSource) Dimensions() (int, int) { return s.width, s.height }

func (s *ImageSource) CurrentPixels() (*image.RGBA, error) {
	s.mu.RLock()
	img := s.current
	s.mu.RUnlock()
	if img == nil {
		return nil, ErrSurfaceNotReady
	}
	dst := AcquireFrame(image.Rect(0, 0, s.width, s.height))
	clear(dst.Pix)
	draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
	return dst, nil
}

func (s *ImageSource) Recycle(img *image.RGBA) { RecycleFrame(img) }
