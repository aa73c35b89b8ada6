package capture

import "slices"

// FrameStore is the ordered, append-only set of accepted frames of one
// session. Capture order is presentation order. Not concurrency-safe; it has
// a single owner for the lifetime of a session.
type FrameStore struct {
	frames []Frame
}

// NewFrameStore returns an empty store with room for capacity frames.
func NewFrameStore(capacity int) *FrameStore {
	if capacity < 0 {
		capacity = 0
	}
	return &FrameStore{frames: make([]Frame, 0, capacity)}
}

// Append adds f as the new last frame.
func (s *FrameStore) Append(f Frame) { s.frames = append(s.frames, f) }

// Len returns the number of accepted frames.
func (s *FrameStore) Len() int {
	if s == nil {
		return 0
	}
	return len(s.frames)
}

// Last returns the most recently accepted frame.
func (s *FrameStore) Last() (Frame, bool) {
	if s.Len() == 0 {
		return Frame{}, false
	}
	return s.frames[len(s.frames)-1], true
}

// Frames returns the accepted frames in capture order. The slice is clipped so
// appending to it never writes into the store.
func (s *FrameStore) Frames() []Frame {
	if s == nil {
		return nil
	}
	return slices.Clip(s.frames)
}
