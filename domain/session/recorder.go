package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/soocke/pixel-gif-go/domain/capture"
	"github.com/soocke/pixel-gif-go/domain/export"
	"github.com/soocke/pixel-gif-go/domain/failure"
)

// Encoder turns frames into artifact bytes.
type Encoder interface {
	Encode(ctx context.Context, frames []capture.Frame, width, height int, onProgress func(float64)) ([]byte, error)
}

// Exporter persists artifact bytes under a name.
type Exporter interface {
	Export(data []byte, name string) (export.Handle, error)
}

// DetectorFactory builds the duplicate detector for one session.
type DetectorFactory func() capture.DuplicateDetector

// Params configure one recording.
type Params struct {
	TargetFrameCount int
	FrameDelay       time.Duration
	StartDelay       time.Duration
	// Width and Height of the artifact canvas. Zero uses the source dimensions.
	Width, Height      int
	MaxAttempts        int
	AdvanceOnDuplicate bool

	OnCapture capture.ProgressFunc
	OnEncode  func(fraction float64)
	OnState   Listener
}

// Outcome summarises a finished recording.
type Outcome struct {
	ID     string
	State  State
	Frames int
	Name   string
	Path   string
	Kind   failure.Kind
	Stats  capture.CaptureStats
}

// Recorder runs sessions against one source, encoder and exporter, one at a time.
type Recorder struct {
	source      capture.FrameSource
	newDetector DetectorFactory
	encoder     Encoder
	exporter    Exporter
	namePrefix  string
	logger      *slog.Logger
	now         func() time.Time

	active atomic.Bool
}

// RecorderOption customises a Recorder.
type RecorderOption func(*Recorder)

// WithNamePrefix sets the prefix of suggested artifact names.
func WithNamePrefix(p string) RecorderOption { return func(r *Recorder) { r.namePrefix = p } }

// WithClock replaces time.Now for artifact naming.
func WithClock(now func() time.Time) RecorderOption { return func(r *Recorder) { r.now = now } }

func NewRecorder(source capture.FrameSource, detectors DetectorFactory, encoder Encoder, exporter Exporter, logger *slog.Logger, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		source:      source,
		newDetector: detectors,
		encoder:     encoder,
		exporter:    exporter,
		namePrefix:  "animation",
		logger:      logger,
		now:         time.Now,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Active reports whether a session is in flight.
func (r *Recorder) Active() bool { return r.active.Load() }

// Run records one session end to end. A second Run while one is in flight
// fails immediately with Busy. The returned error carries the failure kind
// recorded in the outcome.
func (r *Recorder) Run(ctx context.Context, p Params) (Outcome, error) {
	if p.TargetFrameCount <= 0 {
		return Outcome{}, fmt.Errorf("session: target frame count must be positive, got %d", p.TargetFrameCount)
	}
	if !r.active.CompareAndSwap(false, true) {
		return Outcome{Kind: failure.Busy}, failure.New(failure.Busy, "session", errors.New("a recording is already in progress"))
	}
	defer r.active.Store(false)

	s := New(uuid.NewString(), r.logger)
	s.AddListener(p.OnState)
	defer r.discard(s)

	out, err := r.run(ctx, s, p)
	out.ID, out.State = s.ID(), s.Current()
	if err != nil {
		out.Kind = failure.KindOf(err)
		if r.logger != nil {
			r.logger.Warn("session failed", "id", out.ID, "kind", string(out.Kind), "error", err)
		}
		return out, err
	}
	if r.logger != nil {
		r.logger.Info("session done", "id", out.ID, "frames", out.Frames, "path", out.Path)
	}
	return out, nil
}

func (r *Recorder) run(ctx context.Context, s *Session, p Params) (Outcome, error) {
	var out Outcome
	if err := s.BeginCapture(); err != nil {
		return out, err
	}

	var detector capture.DuplicateDetector
	if r.newDetector != nil {
		detector = r.newDetector()
	}
	sched := capture.NewScheduler(detector, r.logger)
	store, err := sched.Run(ctx, r.source, capture.RunOptions{
		TargetFrameCount:   p.TargetFrameCount,
		FrameDelay:         p.FrameDelay,
		StartDelay:         p.StartDelay,
		MaxAttempts:        p.MaxAttempts,
		AdvanceOnDuplicate: p.AdvanceOnDuplicate,
		Progress:           p.OnCapture,
	})
	out.Stats = sched.Stats()
	if err != nil {
		return out, r.fail(s, err)
	}
	if err := s.FinishCapture(store.Frames()); err != nil {
		return out, err
	}
	frames := s.Frames()
	out.Frames = len(frames)

	w, h := p.Width, p.Height
	if w <= 0 || h <= 0 {
		w, h = r.source.Dimensions()
	}
	if r.encoder == nil {
		return out, r.fail(s, failure.New(failure.EncodeFailed, "encode", errors.New("no encoder")))
	}
	data, err := r.encoder.Encode(ctx, frames, w, h, p.OnEncode)
	if err != nil {
		return out, r.fail(s, err)
	}

	out.Name = export.SuggestedName(r.namePrefix, r.now())
	if r.exporter == nil {
		return out, r.fail(s, failure.New(failure.ExportFailed, "export", errors.New("no exporter")))
	}
	handle, err := r.exporter.Export(data, out.Name)
	if err != nil {
		if !failure.Is(err, failure.ExportFailed) {
			err = failure.New(failure.ExportFailed, "export", err)
		}
		return out, r.fail(s, err)
	}
	out.Path = handle.Path
	if err := s.Complete(); err != nil {
		return out, err
	}
	return out, nil
}

// fail records err's kind on s and returns err.
func (r *Recorder) fail(s *Session, err error) error {
	kind := failure.KindOf(err)
	if kind == "" {
		kind = failure.EncodeFailed
		err = failure.New(kind, "session", err)
	}
	if ferr := s.Fail(kind); ferr != nil && r.logger != nil {
		r.logger.Error("session fail transition rejected", "id", s.ID(), "error", ferr)
	}
	return err
}

// discard drops the session's frames, returning pooled buffers to the source.
func (r *Recorder) discard(s *Session) {
	frames := s.Discard()
	rec, ok := r.source.(capture.Recycler)
	if !ok {
		return
	}
	for _, f := range frames {
		rec.Recycle(f.Pixels)
	}
}
