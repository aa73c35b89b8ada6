package capture

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/soocke/pixel-gif-go/domain/failure"
)

// RunOptions parameterise one capture run.
type RunOptions struct {
	TargetFrameCount int
	FrameDelay       time.Duration
	// StartDelay is waited once before the first sample.
	StartDelay time.Duration
	// MaxAttempts bounds the number of samples. Zero means unlimited.
	MaxAttempts int
	// AdvanceOnDuplicate makes a rejected sample consume one slot of the
	// budget instead of being retried.
	AdvanceOnDuplicate bool
	Progress           ProgressFunc
}

// Scheduler drives the timed sampling loop: wait, sample, dedup, append.
// Stats may be read from any goroutine; Run itself is not reentrant.
type Scheduler struct {
	detector DuplicateDetector
	logger   *slog.Logger

	attempts    atomic.Uint64
	accepted    atomic.Uint64
	duplicates  atomic.Uint64
	sampleNanos atomic.Uint64
	lastSample  atomic.Int64
}

// NewScheduler returns a scheduler that filters samples through detector.
func NewScheduler(detector DuplicateDetector, logger *slog.Logger) *Scheduler {
	return &Scheduler{detector: detector, logger: logger}
}

// Run samples src until opts.TargetFrameCount distinct frames are accepted,
// the attempt bound is hit, or ctx is cancelled. On cancellation the partial
// store is discarded and a Cancelled failure is returned.
func (s *Scheduler) Run(ctx context.Context, src FrameSource, opts RunOptions) (*FrameStore, error) {
	const op = "capture"
	target := opts.TargetFrameCount
	if target <= 0 {
		return nil, fmt.Errorf("%s: target frame count must be positive, got %d", op, target)
	}
	if src == nil {
		return nil, failure.New(failure.SourceUnavailable, op, fmt.Errorf("no frame source"))
	}
	w, h := src.Dimensions()
	if w <= 0 || h <= 0 {
		return nil, failure.New(failure.SourceUnavailable, op, fmt.Errorf("surface reports %dx%d", w, h))
	}
	s.resetStats()
	recycler, _ := src.(Recycler)
	delay := DelayFromMillis(int(opts.FrameDelay / time.Millisecond))
	store := NewFrameStore(target)

	if err := wait(ctx, opts.StartDelay); err != nil {
		return nil, failure.New(failure.Cancelled, op, err)
	}

	attempt, slots := 0, 0
	for store.Len() < target && slots < target {
		if opts.MaxAttempts > 0 && attempt >= opts.MaxAttempts {
			if s.logger != nil {
				s.logger.Warn("capture attempts exhausted", "attempts", attempt, "accepted", store.Len(), "target", target)
			}
			break
		}
		if err := wait(ctx, opts.FrameDelay); err != nil {
			return nil, failure.New(failure.Cancelled, op, err)
		}
		attempt++

		start := time.Now()
		img, err := src.CurrentPixels()
		if err != nil {
			return nil, failure.New(failure.SourceUnavailable, op, err)
		}
		if img == nil {
			return nil, failure.New(failure.SourceUnavailable, op, fmt.Errorf("source returned no pixels"))
		}
		if b := img.Bounds(); b.Dx() != w || b.Dy() != h {
			return nil, failure.New(failure.SourceUnavailable, op, fmt.Errorf("sample is %dx%d, surface is %dx%d", b.Dx(), b.Dy(), w, h))
		}
		img = Packed(img)
		dup := s.detector != nil && s.detector.IsDuplicate(img, store.Frames())
		s.recordSample(start)

		if opts.Progress != nil {
			opts.Progress(attempt, target)
		}
		if dup {
			s.duplicates.Add(1)
			if recycler != nil {
				recycler.Recycle(img)
			}
			if s.logger != nil {
				s.logger.Debug("duplicate frame skipped", "attempt", attempt, "accepted", store.Len())
			}
			if opts.AdvanceOnDuplicate {
				slots++
			}
			continue
		}

		store.Append(Frame{
			Pixels:            img,
			DelayCentiseconds: delay,
			Hash:              HashPixels(img),
			Sequence:          uint64(store.Len() + 1),
			CapturedAt:        start,
		})
		slots++
		s.accepted.Add(1)
		if s.logger != nil {
			s.logger.Debug("frame captured", "attempt", attempt, "accepted", store.Len(), "target", target)
		}
	}
	s.logStats()
	return store, nil
}

// Stats reports counters of the current or most recent run.
func (s *Scheduler) Stats() CaptureStats {
	attempts := s.attempts.Load()
	var avg time.Duration
	if attempts > 0 {
		avg = time.Duration(s.sampleNanos.Load() / attempts)
	}
	var last time.Time
	if ns := s.lastSample.Load(); ns != 0 {
		last = time.Unix(0, ns)
	}
	return CaptureStats{
		Attempts:   attempts,
		Accepted:   s.accepted.Load(),
		Duplicates: s.duplicates.Load(),
		AvgSample:  avg,
		LastSample: last,
	}
}

func (s *Scheduler) recordSample(start time.Time) {
	s.attempts.Add(1)
	s.sampleNanos.Add(uint64(time.Since(start).Nanoseconds()))
	s.lastSample.Store(start.UnixNano())
}

func (s *Scheduler) resetStats() {
	s.attempts.Store(0)
	s.accepted.Store(0)
	s.duplicates.Store(0)
	s.sampleNanos.Store(0)
	s.lastSample.Store(0)
}

func (s *Scheduler) logStats() {
	if s.logger == nil {
		return
	}
	stats := s.Stats()
	s.logger.Debug("capture.stats",
		"attempts", stats.Attempts,
		"accepted", stats.Accepted,
		"duplicates", stats.Duplicates,
		"avg_sample", stats.AvgSample,
	)
}

// wait blocks for d or until ctx is done. A non-positive d only checks ctx.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
