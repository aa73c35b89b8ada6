// Package session tracks one capture-through-export attempt and orchestrates
// the capture, encode and export stages for it.
package session

import "errors"

// State enumerates the lifecycle of a session.
type State int

const (
	StateIdle State = iota
	StateCapturing
	StateEncoding
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCapturing:
		return "capturing"
	case StateEncoding:
		return "encoding"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool { return s == StateDone || s == StateFailed }

// Listener is called after each successful transition.
type Listener func(prev, next State)

// ErrIllegalTransition is returned for a transition the lifecycle forbids.
var ErrIllegalTransition = errors.New("session: illegal transition")

// allowed lists the legal successors of each state.
var allowed = map[State][]State{
	StateIdle:      {StateCapturing},
	StateCapturing: {StateEncoding, StateFailed},
	StateEncoding:  {StateDone, StateFailed},
}
