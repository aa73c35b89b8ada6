package presenter

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/soocke/pixel-gif-go/domain/failure"
	"github.com/soocke/pixel-gif-go/domain/session"
)

// Status lines shown by the panel.
const (
	StatusReady    = "Ready to capture"
	StatusEncoding = "Creating GIF..."
)

// ResetDelay is how long an outcome stays on screen before the status resets.
const ResetDelay = 3 * time.Second

// CaptureModel is the part of the capture model the presenter writes.
type CaptureModel interface {
	Recording() bool
	SetRecording(bool)
	SetStatus(string) uint64
	ResetStatus(rev uint64, text string) bool
	SetProgress(string)
}

// Recorder runs one recording session.
type Recorder interface {
	Run(ctx context.Context, p session.Params) (session.Outcome, error)
}

// Result is a finished recording as reported to the Tk tick.
type Result struct {
	Outcome session.Outcome
	Err     error
}

// CapturePresenter starts and cancels recordings. Runs happen on their own
// goroutine and only touch the model; views are updated from the Tk tick.
type CapturePresenter struct {
	model    CaptureModel
	recorder Recorder
	params   func() session.Params
	logger   *slog.Logger

	resetDelay time.Duration
	results    chan Result

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewCapturePresenter(model CaptureModel, recorder Recorder, params func() session.Params, logger *slog.Logger) *CapturePresenter {
	return &CapturePresenter{
		model:      model,
		recorder:   recorder,
		params:     params,
		logger:     logger,
		resetDelay: ResetDelay,
		results:    make(chan Result, 8),
	}
}

// Results delivers finished recordings. Results are dropped when nobody drains.
func (c *CapturePresenter) Results() <-chan Result {
	if c == nil {
		return nil
	}
	return c.results
}

// Start begins a recording. Idempotent while one is running.
func (c *CapturePresenter) Start() {
	if c == nil || c.model == nil || c.recorder == nil || c.params == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		return
	}
	p := c.params()
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.model.SetRecording(true)
	c.model.SetProgress("")
	if p.StartDelay > 0 {
		c.model.SetStatus(fmt.Sprintf("Starting capture in %s...", p.StartDelay))
	} else {
		c.model.SetStatus("Capturing...")
	}
	p.OnCapture = func(attempt, target int) {
		c.model.SetStatus(fmt.Sprintf("Capturing frame %d/%d...", min(attempt, target), target))
		c.model.SetProgress(fmt.Sprintf("sample %d", attempt))
	}
	p.OnEncode = func(f float64) { c.model.SetProgress(fmt.Sprintf("%d%%", int(f*100))) }
	prior := p.OnState
	p.OnState = func(prev, next session.State) {
		if prior != nil {
			prior(prev, next)
		}
		if next == session.StateEncoding {
			c.model.SetStatus(StatusEncoding)
		}
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		out, err := c.run(ctx, p)
		c.finish(out, err)
	}()
}

// Cancel asks the running recording to stop. No-op when idle.
func (c *CapturePresenter) Cancel() {
	if c == nil {
		return
	}
	c.mu.Lock()
	cancel := c.cancel
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Toggle starts a recording or cancels the running one.
func (c *CapturePresenter) Toggle() {
	if c == nil || c.model == nil {
		return
	}
	if c.model.Recording() {
		c.Cancel()
		return
	}
	c.Start()
}

// Close cancels any recording and waits for it to end.
func (c *CapturePresenter) Close() {
	if c == nil {
		return
	}
	c.Cancel()
	c.wg.Wait()
}

func (c *CapturePresenter) finish(out session.Outcome, err error) {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.mu.Unlock()

	rev := c.model.SetStatus(StatusText(out, err))
	c.model.SetProgress("")
	c.model.SetRecording(false)
	if c.logger != nil {
		c.logger.Info("recording finished", "id", out.ID, "state", out.State.String(), "frames", out.Frames, "kind", string(out.Kind))
	}
	select {
	case c.results <- Result{Outcome: out, Err: err}:
	default:
	}
	time.AfterFunc(c.resetDelay, func() { c.model.ResetStatus(rev, StatusReady) })
}

// StatusText renders an outcome for the status line.
func StatusText(out session.Outcome, err error) string {
	if err == nil {
		return fmt.Sprintf("GIF saved! (%d frames) %s", out.Frames, out.Name)
	}
	switch failure.KindOf(err) {
	case failure.NoFramesCaptured, failure.NoFrames:
		return "No frames captured"
	case failure.Cancelled:
		return "Capture cancelled"
	case failure.SourceUnavailable:
		return "Screen unavailable"
	case failure.EncodeAborted:
		return "GIF encoding aborted"
	case failure.ExportFailed:
		return "Could not save GIF"
	case failure.Busy:
		return "A capture is already running"
	default:
		return "Error creating GIF"
	}
}

func (c *CapturePresenter) run(ctx context.Context, p session.Params) (out session.Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			if c.logger != nil {
				c.logger.Error("recording goroutine panic", "error", r)
			}
			err = fmt.Errorf("recording panic: %v", r)
		}
	}()
	return c.recorder.Run(ctx, p)
}
