package capture

import (
	"errors"
	"image"
)

// ErrSurfaceNotReady is returned by sources that have no content to sample yet.
var ErrSurfaceNotReady = errors.New("capture: surface not ready")

// FrameSource exposes the live content of a fixed width x height surface.
// CurrentPixels must not block and returns a snapshot owned by the caller.
type FrameSource interface {
	CurrentPixels() (*image.RGBA, error)
	Dimensions() (width, height int)
}

// Recycler is implemented by sources that hand out pooled buffers. Rejected
// samples are returned through it instead of being left to the GC.
type Recycler interface {
	Recycle(img *image.RGBA)
}

// DuplicateDetector decides whether candidate repeats an already accepted frame.
// refs is the accepted sequence in capture order; it only ever grows during a run.
type DuplicateDetector interface {
	IsDuplicate(candidate *image.RGBA, refs []Frame) bool
}

// ProgressFunc is invoked once per sample attempt, accepted or not.
// attempt is 1-based.
type ProgressFunc func(attempt, target int)
