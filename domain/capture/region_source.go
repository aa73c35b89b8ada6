package capture

import (
	"image"
	"sync"
)

// SourceBuilder constructs a frame source for a screen rectangle, scaled to
// width x height (zero keeps the native size).
type SourceBuilder func(rect image.Rectangle, width, height int) (FrameSource, error)

// ScreenBuilder builds ScreenSources.
func ScreenBuilder(rect image.Rectangle, width, height int) (FrameSource, error) {
	return NewScreenSource(rect, width, height)
}

// RegionSource follows a user-selected region. Refresh is called between
// recordings; during a recording the underlying source is fixed.
type RegionSource struct {
	build SourceBuilder

	mu      sync.Mutex
	cur     FrameSource
	rect    image.Rectangle
	w, h    int
	lastErr error
}

func NewRegionSource(build SourceBuilder) *RegionSource {
	if build == nil {
		build = ScreenBuilder
	}
	return &RegionSource{build: build}
}

// Refresh rebuilds the source when the region or output size changed.
func (s *RegionSource) Refresh(rect image.Rectangle, width, height int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur != nil && rect == s.rect && width == s.w && height == s.h {
		return nil
	}
	src, err := s.build(rect, width, height)
	s.rect, s.w, s.h, s.lastErr = rect, width, height, err
	if err != nil {
		s.cur = nil
		return err
	}
	s.cur = src
	return nil
}

func (s *RegionSource) source() (FrameSource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur == nil {
		if s.lastErr != nil {
			return nil, s.lastErr
		}
		return nil, ErrSurfaceNotReady
	}
	return s.cur, nil
}

// Dimensions reports 0x0 until a source was built, which the scheduler
// treats as an unavailable source.
func (s *RegionSource) Dimensions() (int, int) {
	src, err := s.source()
	if err != nil {
		return 0, 0
	}
	return src.Dimensions()
}

func (s *RegionSource) CurrentPixels() (*image.RGBA, error) {
	src, err := s.source()
	if err != nil {
		return nil, err
	}
	return src.CurrentPixels()
}

func (s *RegionSource) Recycle(img *image.RGBA) {
	if src, err := s.source(); err == nil {
		if r, ok := src.(Recycler); ok {
			r.Recycle(img)
			return
		}
	}
	RecycleFrame(img)
}
