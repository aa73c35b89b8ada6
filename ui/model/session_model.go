package model

import (
	"time"
)

// SessionModel tallies finished recordings and how long the current one has
// been running. It is touched only from the Tk tick; the zero value is ready.
type SessionModel struct {
	active  bool
	started time.Time
	elapsed time.Duration

	done, failed int
	frames       int
}

// NewSessionModel returns a pointer to a ready-to-use SessionModel.
func NewSessionModel() *SessionModel { return &SessionModel{} }

// OnTick advances the elapsed time of the running recording.
func (m *SessionModel) OnTick(recording bool, now time.Time) {
	if m == nil {
		return
	}
	if recording {
		if !m.active { // idle -> recording
			m.active = true
			m.started = now
		}
		m.elapsed = now.Sub(m.started)
	} else if m.active {
		m.elapsed = now.Sub(m.started)
		m.active = false
	}
}

// Record counts a finished recording.
func (m *SessionModel) Record(ok bool, frames int) {
	if m == nil {
		return
	}
	if ok {
		m.done++
		m.frames += frames
		return
	}
	m.failed++
}

// Values returns the elapsed time of the latest recording and the tallies.
func (m *SessionModel) Values() (elapsed time.Duration, done, failed, frames int) {
	if m == nil {
		return 0, 0, 0, 0
	}
	return m.elapsed, m.done, m.failed, m.frames
}
