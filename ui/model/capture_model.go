package model

import (
	"sync"
	"sync/atomic"
)

// CaptureModel holds what the panel shows about the current recording. The zero
// value is idle and usable. The recording goroutine writes, the Tk tick reads.
type CaptureModel struct {
	recording atomic.Bool

	mu       sync.Mutex
	status   string
	progress string
	rev      uint64
}

// Recording reports whether a recording is in flight.
func (m *CaptureModel) Recording() bool {
	if m == nil {
		return false
	}
	return m.recording.Load()
}

// SetRecording stores the recording flag.
func (m *CaptureModel) SetRecording(b bool) {
	if m == nil {
		return
	}
	m.recording.Store(b)
}

// SetStatus replaces the status line and returns its revision.
func (m *CaptureModel) SetStatus(text string) uint64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = text
	m.rev++
	return m.rev
}

// ResetStatus sets text only if no status was written since revision rev.
func (m *CaptureModel) ResetStatus(rev uint64, text string) bool {
	if m == nil {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rev != rev {
		return false
	}
	m.status = text
	m.rev++
	return true
}

func (m *CaptureModel) SetProgress(text string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.progress = text
	m.mu.Unlock()
}

// Snapshot returns the status and progress lines.
func (m *CaptureModel) Snapshot() (status, progress string) {
	if m == nil {
		return "", ""
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status, m.progress
}
