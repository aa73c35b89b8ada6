package presenter

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/soocke/pixel-gif-go/domain/failure"
	"github.com/soocke/pixel-gif-go/domain/session"
	"github.com/soocke/pixel-gif-go/ui/model"
)

// mockRecorder blocks until ctx is cancelled or release is closed.
type mockRecorder struct {
	mu      sync.Mutex
	runs    int
	params  session.Params
	release chan struct{}
	out     session.Outcome
	err     error
	panics  bool
}

func (r *mockRecorder) Run(ctx context.Context, p session.Params) (session.Outcome, error) {
	r.mu.Lock()
	r.runs++
	r.params = p
	r.mu.Unlock()
	if r.panics {
		panic("recorder exploded")
	}
	if p.OnState != nil {
		p.OnState(session.StateIdle, session.StateCapturing)
	}
	if p.OnCapture != nil {
		p.OnCapture(1, 3)
	}
	if r.release != nil {
		select {
		case <-ctx.Done():
			return session.Outcome{State: session.StateFailed, Kind: failure.Cancelled}, failure.New(failure.Cancelled, "capture", ctx.Err())
		case <-r.release:
		}
	}
	return r.out, r.err
}

func (r *mockRecorder) runCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.runs
}

func waitIdle(t *testing.T, m *model.CaptureModel) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if !m.Recording() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timeout waiting for recording to end")
}

func fixedParams() session.Params {
	return session.Params{TargetFrameCount: 3, FrameDelay: 10 * time.Millisecond}
}

func TestCapturePresenter_StartIdempotentAndCancel(t *testing.T) {
	m := &model.CaptureModel{}
	rec := &mockRecorder{release: make(chan struct{})}
	p := NewCapturePresenter(m, rec, fixedParams, nil)

	p.Start()
	p.Start()
	if !m.Recording() {
		t.Fatalf("expected recording")
	}
	p.Cancel()
	waitIdle(t, m)
	p.Close()
	if rec.runCount() != 1 {
		t.Fatalf("expected one run, got %d", rec.runCount())
	}
	if s, _ := m.Snapshot(); s != "Capture cancelled" {
		t.Fatalf("unexpected status %q", s)
	}
	r := <-p.Results()
	if !failure.Is(r.Err, failure.Cancelled) {
		t.Fatalf("expected cancelled result, got %v", r.Err)
	}
}

func TestCapturePresenter_ToggleStartsThenCancels(t *testing.T) {
	m := &model.CaptureModel{}
	rec := &mockRecorder{release: make(chan struct{})}
	p := NewCapturePresenter(m, rec, fixedParams, nil)

	p.Toggle()
	if !m.Recording() {
		t.Fatalf("toggle should start")
	}
	p.Toggle()
	waitIdle(t, m)
	p.Close()
}

func TestCapturePresenter_SuccessStatusAndReset(t *testing.T) {
	m := &model.CaptureModel{}
	rec := &mockRecorder{out: session.Outcome{State: session.StateDone, Frames: 3, Name: "animation-1.gif"}}
	var seen []session.State
	var mu sync.Mutex
	params := func() session.Params {
		p := fixedParams()
		p.OnState = func(_, next session.State) { mu.Lock(); seen = append(seen, next); mu.Unlock() }
		return p
	}
	p := NewCapturePresenter(m, rec, params, nil)
	p.resetDelay = 20 * time.Millisecond

	p.Start()
	p.Close()

	if s, _ := m.Snapshot(); s != "GIF saved! (3 frames) animation-1.gif" {
		t.Fatalf("unexpected status %q", s)
	}
	mu.Lock()
	if len(seen) != 1 || seen[0] != session.StateCapturing {
		t.Fatalf("caller listener not chained: %v", seen)
	}
	mu.Unlock()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if s, _ := m.Snapshot(); s == StatusReady {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("status never reset")
}

func TestCapturePresenter_PanicEndsRecording(t *testing.T) {
	m := &model.CaptureModel{}
	p := NewCapturePresenter(m, &mockRecorder{panics: true}, fixedParams, discardLogger)

	p.Start()
	p.Close()

	if m.Recording() {
		t.Fatalf("recording flag must clear after a panic")
	}
	if s, _ := m.Snapshot(); s != "Error creating GIF" {
		t.Fatalf("unexpected status %q", s)
	}
	p.Start()
	p.Close()
}

func TestStatusText(t *testing.T) {
	cases := map[failure.Kind]string{
		failure.NoFramesCaptured:  "No frames captured",
		failure.SourceUnavailable: "Screen unavailable",
		failure.EncodeFailed:      "Error creating GIF",
		failure.ExportFailed:      "Could not save GIF",
		failure.Busy:              "A capture is already running",
	}
	for kind, want := range cases {
		if got := StatusText(session.Outcome{}, failure.New(kind, "", nil)); got != want {
			t.Fatalf("%s: expected %q, got %q", kind, want, got)
		}
	}
}
