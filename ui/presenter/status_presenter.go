package presenter

import "time"

// StatusSource exposes the status lines written by CapturePresenter.
type StatusSource interface {
	Recording() bool
	Snapshot() (status, progress string)
}

// StatusView shows the status lines and the recording controls.
type StatusView interface {
	SetStatus(text string)
	SetProgress(text string)
	SetRecording(recording bool)
}

// StatusPresenter copies model text to the view when it changes.
type StatusPresenter struct {
	src  StatusSource
	view StatusView

	status, progress string
	recording        bool
	primed           bool
}

func NewStatusPresenter(src StatusSource, view StatusView) *StatusPresenter {
	return &StatusPresenter{src: src, view: view}
}

func (p *StatusPresenter) Tick(now time.Time) {
	if p == nil || p.src == nil || p.view == nil {
		return
	}
	status, progress := p.src.Snapshot()
	recording := p.src.Recording()
	if !p.primed || status != p.status {
		p.view.SetStatus(status)
	}
	if !p.primed || progress != p.progress {
		p.view.SetProgress(progress)
	}
	if !p.primed || recording != p.recording {
		p.view.SetRecording(recording)
	}
	p.status, p.progress, p.recording, p.primed = status, progress, recording, true
}
