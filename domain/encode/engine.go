package encode

import "image"

// Quality bounds for Options.Quality. Lower means better output and slower
// encoding, mirroring the sampling factor of common GIF encoders.
const (
	MinQuality     = 1
	MaxQuality     = 30
	DefaultQuality = 10
)

// Options configure one engine job.
type Options struct {
	Width   int
	Height  int
	Quality int
}

// ClampQuality maps q into [MinQuality, MaxQuality]; zero selects DefaultQuality.
func ClampQuality(q int) int {
	switch {
	case q == 0:
		return DefaultQuality
	case q < MinQuality:
		return MinQuality
	case q > MaxQuality:
		return MaxQuality
	default:
		return q
	}
}

// Callbacks receive the events of a rendering job. An engine reports progress
// zero or more times, then exactly one of OnFinished, OnAborted or OnFault.
// Callbacks run on the engine's goroutine.
type Callbacks struct {
	OnProgress func(fraction float64)
	OnFinished func(data []byte)
	OnAborted  func()
	OnFault    func(err error)
}

// Engine produces animated image artifacts. Its byte layout is opaque to callers.
type Engine interface {
	NewJob(opts Options) (EngineJob, error)
}

// EngineJob accumulates frames and renders them asynchronously.
type EngineJob interface {
	// AddFrame appends one frame; frames are presented in submission order.
	AddFrame(pixels *image.RGBA, delayCentiseconds int) error
	// Render starts encoding and returns immediately.
	Render(cb Callbacks)
	// Abort asks a running render to stop. The job still reports a terminal event.
	Abort()
}
