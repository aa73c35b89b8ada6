package session

import (
	"errors"
	"image"
	"log/slog"
	"sync"
	"testing"

	"github.com/soocke/pixel-gif-go/domain/capture"
	"github.com/soocke/pixel-gif-go/domain/failure"
)

var discardLogger = slog.New(slog.NewTextHandler(&discardWriter{}, nil))

type discardWriter struct{}

func (d *discardWriter) Write(p []byte) (int, error) { return len(p), nil }

type transitionRecorder struct {
	mu  sync.Mutex
	seq []State
}

func (r *transitionRecorder) listener(prev, next State) {
	r.mu.Lock()
	r.seq = append(r.seq, next)
	r.mu.Unlock()
}

func (r *transitionRecorder) states() []State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]State(nil), r.seq...)
}

func oneFrame() []capture.Frame {
	return []capture.Frame{{Pixels: image.NewRGBA(image.Rect(0, 0, 1, 1)), DelayCentiseconds: 10, Sequence: 1}}
}

func equalStates(a, b []State) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSession_HappyPath(t *testing.T) {
	s := New("s1", discardLogger)
	r := &transitionRecorder{}
	s.AddListener(r.listener)

	if err := s.BeginCapture(); err != nil {
		t.Fatalf("begin capture: %v", err)
	}
	if err := s.FinishCapture(oneFrame()); err != nil {
		t.Fatalf("finish capture: %v", err)
	}
	if got := len(s.Frames()); got != 1 {
		t.Fatalf("expected 1 frame, got %d", got)
	}
	if err := s.Complete(); err != nil {
		t.Fatalf("complete: %v", err)
	}
	want := []State{StateCapturing, StateEncoding, StateDone}
	if got := r.states(); !equalStates(got, want) {
		t.Fatalf("expected transitions %v, got %v", want, got)
	}
	if !s.Current().Terminal() {
		t.Fatalf("done should be terminal")
	}
}

func TestSession_ZeroFramesFailsWithoutEncoding(t *testing.T) {
	s := New("s2", discardLogger)
	r := &transitionRecorder{}
	s.AddListener(r.listener)
	_ = s.BeginCapture()

	err := s.FinishCapture(nil)

	if !failure.Is(err, failure.NoFramesCaptured) {
		t.Fatalf("expected NoFramesCaptured, got %v", err)
	}
	if s.Current() != StateFailed || s.FailureKind() != failure.NoFramesCaptured {
		t.Fatalf("expected failed{NO_FRAMES_CAPTURED}, got %v{%s}", s.Current(), s.FailureKind())
	}
	for _, st := range r.states() {
		if st == StateEncoding {
			t.Fatalf("session must never enter encoding with zero frames")
		}
	}
}

func TestSession_RejectsIllegalTransitions(t *testing.T) {
	cases := []struct {
		name string
		prep func(*Session)
		step func(*Session) error
	}{
		{"idle to encoding", func(*Session) {}, func(s *Session) error { return s.FinishCapture(oneFrame()) }},
		{"idle to done", func(*Session) {}, func(s *Session) error { return s.Complete() }},
		{"idle to failed", func(*Session) {}, func(s *Session) error { return s.Fail(failure.Cancelled) }},
		{"capturing to done", func(s *Session) { _ = s.BeginCapture() }, func(s *Session) error { return s.Complete() }},
		{"capturing twice", func(s *Session) { _ = s.BeginCapture() }, func(s *Session) error { return s.BeginCapture() }},
		{"done to failed", func(s *Session) {
			_ = s.BeginCapture()
			_ = s.FinishCapture(oneFrame())
			_ = s.Complete()
		}, func(s *Session) error { return s.Fail(failure.EncodeFailed) }},
		{"failed to capturing", func(s *Session) {
			_ = s.BeginCapture()
			_ = s.Fail(failure.Cancelled)
		}, func(s *Session) error { return s.BeginCapture() }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := New("x", nil)
			tc.prep(s)
			before := s.Current()
			if err := tc.step(s); !errors.Is(err, ErrIllegalTransition) {
				t.Fatalf("expected ErrIllegalTransition, got %v", err)
			}
			if s.Current() != before {
				t.Fatalf("state changed from %v to %v", before, s.Current())
			}
		})
	}
}

func TestSession_FailFromEncoding(t *testing.T) {
	s := New("s3", nil)
	_ = s.BeginCapture()
	_ = s.FinishCapture(oneFrame())
	if err := s.Fail(failure.EncodeAborted); err != nil {
		t.Fatalf("fail: %v", err)
	}
	if s.FailureKind() != failure.EncodeAborted {
		t.Fatalf("expected ENCODE_ABORTED, got %s", s.FailureKind())
	}
}

func TestSession_DiscardFromAnyState(t *testing.T) {
	s := New("s4", discardLogger)
	_ = s.BeginCapture()
	_ = s.FinishCapture(oneFrame())

	if got := len(s.Discard()); got != 1 {
		t.Fatalf("expected discarded frames, got %d", got)
	}
	if s.Frames() != nil {
		t.Fatalf("frames must be dropped")
	}
	if s.Discard() != nil {
		t.Fatalf("second discard must be empty")
	}
	if err := s.Complete(); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("discarded session must not advance, got %v", err)
	}

	idle := New("s5", nil)
	if idle.Discard() != nil {
		t.Fatalf("idle discard has no frames")
	}
}

func TestStateString(t *testing.T) {
	names := map[State]string{
		StateIdle: "idle", StateCapturing: "capturing", StateEncoding: "encoding",
		StateDone: "done", StateFailed: "failed", State(42): "unknown",
	}
	for st, want := range names {
		if st.String() != want {
			t.Fatalf("state %d: expected %q, got %q", int(st), want, st.String())
		}
	}
}
