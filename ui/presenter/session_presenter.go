package presenter

import (
	"time"

	"github.com/soocke/pixel-gif-go/ui/model"
)

// RecordingModel reports whether a recording is in flight.
type RecordingModel interface{ Recording() bool }

// SessionView displays the elapsed time of the latest recording and tallies.
type SessionView interface {
	SetSession(elapsed time.Duration, done, failed, frames int)
}

// SessionPresenter folds finished recordings into the session model and
// pushes its values to the view.
type SessionPresenter struct {
	sess    *model.SessionModel
	rec     RecordingModel
	results <-chan Result
	view    SessionView
}

// NewSessionPresenter returns a new SessionPresenter.
func NewSessionPresenter(sess *model.SessionModel, rec RecordingModel, results <-chan Result, view SessionView) *SessionPresenter {
	return &SessionPresenter{sess: sess, rec: rec, results: results, view: view}
}

// Tick drains finished recordings, advances the clock and updates the view.
func (p *SessionPresenter) Tick(now time.Time) {
	if p == nil || p.sess == nil || p.rec == nil || p.view == nil {
		return
	}
	for drained := false; !drained; {
		select {
		case r := <-p.results:
			p.sess.Record(r.Err == nil, r.Outcome.Frames)
		default:
			drained = true
		}
	}
	p.sess.OnTick(p.rec.Recording(), now)
	p.view.SetSession(p.sess.Values())
}
