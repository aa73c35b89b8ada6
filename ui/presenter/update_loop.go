package presenter

import "time"

// Loop aggregates feature presenters and drives periodic updates.
//
// It calls Tick on the sub-presenters and invokes a scheduler callback.
// The zero value is usable (methods are nil-safe).
type Loop struct {
	Status   *StatusPresenter
	State    *StatePresenter
	Session  *SessionPresenter
	Schedule func()
}

func NewLoop(status *StatusPresenter, state *StatePresenter, sess *SessionPresenter, schedule func()) *Loop {
	return &Loop{Status: status, State: state, Session: sess, Schedule: schedule}
}

func (l *Loop) Tick() {
	if l == nil {
		return
	}
	now := time.Now()
	if l.State != nil {
		l.State.Tick(now)
	}
	if l.Status != nil {
		l.Status.Tick(now)
	}
	if l.Session != nil {
		l.Session.Tick(now)
	}
	if l.Schedule != nil {
		l.Schedule()
	}
}
