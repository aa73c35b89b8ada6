package encode

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/sourcegraph/conc/panics"
)

var errRendering = errors.New("encode: job is already rendering")

// GIFEngine renders looping GIF89a animations with the standard library
// writer. Each job renders on its own goroutine; a panic while rendering is
// reported as a fault.
type GIFEngine struct {
	logger *slog.Logger
}

func NewGIFEngine(logger *slog.Logger) *GIFEngine { return &GIFEngine{logger: logger} }

func (e *GIFEngine) NewJob(opts Options) (EngineJob, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("encode: invalid canvas %dx%d", opts.Width, opts.Height)
	}
	opts.Quality = ClampQuality(opts.Quality)
	return &gifJob{opts: opts, logger: e.logger}, nil
}

type gifJob struct {
	opts   Options
	logger *slog.Logger

	mu      sync.Mutex
	frames  []*image.RGBA
	delays  []int
	started bool
	abort   atomic.Bool
}

func (j *gifJob) AddFrame(pixels *image.RGBA, delayCentiseconds int) error {
	if pixels == nil {
		return errors.New("encode: nil frame")
	}
	if b := pixels.Bounds(); b.Dx() > j.opts.Width || b.Dy() > j.opts.Height {
		return fmt.Errorf("encode: frame %dx%d exceeds canvas %dx%d", b.Dx(), b.Dy(), j.opts.Width, j.opts.Height)
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.started {
		return errRendering
	}
	j.frames = append(j.frames, pixels)
	j.delays = append(j.delays, delayCentiseconds)
	return nil
}

func (j *gifJob) Render(cb Callbacks) {
	j.mu.Lock()
	if j.started {
		j.mu.Unlock()
		return
	}
	j.started = true
	frames, delays := j.frames, j.delays
	j.mu.Unlock()

	go func() {
		var (
			pc      panics.Catcher
			data    []byte
			aborted bool
			err     error
		)
		pc.Try(func() { data, aborted, err = j.render(frames, delays, cb.OnProgress) })
		if r := pc.Recovered(); r != nil {
			if j.logger != nil {
				j.logger.Error("gif render panic", "error", r.Value, "stack", string(r.Stack))
			}
			err = r.AsError()
		}
		switch {
		case err != nil:
			if cb.OnFault != nil {
				cb.OnFault(err)
			}
		case aborted:
			if cb.OnAborted != nil {
				cb.OnAborted()
			}
		default:
			if cb.OnFinished != nil {
				cb.OnFinished(data)
			}
		}
	}()
}

func (j *gifJob) Abort() { j.abort.Store(true) }

// render quantizes every frame and writes the animation. Progress reaches 1
// only once the bytes are complete.
func (j *gifJob) render(frames []*image.RGBA, delays []int, progress func(float64)) ([]byte, bool, error) {
	n := len(frames)
	anim := &gif.GIF{
		Image:  make([]*image.Paletted, 0, n),
		Delay:  make([]int, 0, n),
		Config: image.Config{Width: j.opts.Width, Height: j.opts.Height},
	}
	for i, f := range frames {
		if j.abort.Load() {
			return nil, true, nil
		}
		anim.Image = append(anim.Image, paletted(f, j.opts.Quality))
		anim.Delay = append(anim.Delay, delays[i])
		if progress != nil {
			progress(float64(i+1) / float64(n+1))
		}
	}
	if j.abort.Load() {
		return nil, true, nil
	}
	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, anim); err != nil {
		return nil, false, err
	}
	if progress != nil {
		progress(1)
	}
	return buf.Bytes(), false, nil
}

// paletted maps src onto the Plan 9 palette, dithering at the finer quality levels.
func paletted(src *image.RGBA, quality int) *image.Paletted {
	b := src.Bounds()
	dst := image.NewPaletted(image.Rect(0, 0, b.Dx(), b.Dy()), palette.Plan9)
	if quality <= DefaultQuality {
		draw.FloydSteinberg.Draw(dst, dst.Bounds(), src, b.Min)
	} else {
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	}
	return dst
}
