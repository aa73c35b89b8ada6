package presenter

import (
	"sync"
	"time"

	"github.com/soocke/pixel-gif-go/domain/session"
)

// StateView sets the state label in the view.
type StateView interface{ SetStateLabel(string) }

// StatePresenter reflects session transitions in the state label. OnState
// may be called from the recording goroutine; Tick runs on the Tk thread.
type StatePresenter struct {
	view   StateView
	latest session.State

	mu      sync.Mutex
	pending []session.State
}

func NewStatePresenter(view StateView) *StatePresenter {
	return &StatePresenter{view: view, latest: session.StateIdle}
}

// OnState matches session.Listener and queues next for the next Tick.
func (p *StatePresenter) OnState(_, next session.State) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.pending = append(p.pending, next)
	p.mu.Unlock()
}

// Tick pushes the most recent queued state to the view.
func (p *StatePresenter) Tick(now time.Time) {
	if p == nil || p.view == nil {
		return
	}
	p.mu.Lock()
	if len(p.pending) == 0 {
		p.mu.Unlock()
		return
	}
	last := p.pending[len(p.pending)-1]
	p.pending = p.pending[:0]
	p.mu.Unlock()
	if last != p.latest {
		p.latest = last
		p.view.SetStateLabel("State: " + last.String())
	}
}
