package session

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/soocke/pixel-gif-go/domain/capture"
	"github.com/soocke/pixel-gif-go/domain/failure"
)

// Session is the state of one user-initiated capture. States only move
// forward; Discard may be called from any state.
type Session struct {
	id     string
	logger *slog.Logger

	mu        sync.Mutex
	state     State
	frames    []capture.Frame
	kind      failure.Kind
	discarded bool
	listeners []Listener
}

// New returns an idle session.
func New(id string, logger *slog.Logger) *Session {
	return &Session{id: id, logger: logger, state: StateIdle}
}

func (s *Session) ID() string { return s.id }

func (s *Session) Current() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// FailureKind is the recorded failure, empty unless the session failed.
func (s *Session) FailureKind() failure.Kind {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kind
}

// Frames returns the accepted frames handed over at the end of capture.
func (s *Session) Frames() []capture.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clip(s.frames)
}

func (s *Session) AddListener(l Listener) {
	if l == nil {
		return
	}
	s.mu.Lock()
	s.listeners = append(s.listeners, l)
	s.mu.Unlock()
}

// BeginCapture moves Idle to Capturing.
func (s *Session) BeginCapture() error { return s.transition(StateCapturing, nil) }

// FinishCapture hands over the accepted frames. With no frames the session
// fails with NoFramesCaptured and that failure is returned.
func (s *Session) FinishCapture(frames []capture.Frame) error {
	if len(frames) == 0 {
		if err := s.Fail(failure.NoFramesCaptured); err != nil {
			return err
		}
		return failure.New(failure.NoFramesCaptured, "capture", nil)
	}
	return s.transition(StateEncoding, func() { s.frames = frames })
}

// Complete moves Encoding to Done.
func (s *Session) Complete() error { return s.transition(StateDone, nil) }

// Fail moves Capturing or Encoding to Failed, recording kind.
func (s *Session) Fail(kind failure.Kind) error {
	return s.transition(StateFailed, func() { s.kind = kind })
}

// Discard drops the frames and returns them so their buffers can be reused.
// Safe in any state and idempotent.
func (s *Session) Discard() []capture.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.discarded {
		return nil
	}
	s.discarded = true
	frames := s.frames
	s.frames = nil
	if s.logger != nil {
		s.logger.Debug("session discarded", "id", s.id, "state", s.state.String(), "frames", len(frames))
	}
	return frames
}

// transition applies next if the lifecycle allows it. apply runs under the
// lock before listeners are notified.
func (s *Session) transition(next State, apply func()) error {
	s.mu.Lock()
	prev := s.state
	if s.discarded || !slices.Contains(allowed[prev], next) {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, prev, next)
	}
	if apply != nil {
		apply()
	}
	s.state = next
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Debug("session transition", "id", s.id, "from", prev.String(), "to", next.String())
	}
	for _, l := range listeners {
		l(prev, next)
	}
	return nil
}
