package export

import (
	"log/slog"
	"sync"
	"time"

	"github.com/soocke/pixel-gif-go/domain/failure"
)

// DefaultReleaseDelay is how long a staged blob outlives its export.
const DefaultReleaseDelay = 5 * time.Second

// Exporter saves artifacts through a Sink and releases each one after a delay,
// whether or not the save succeeded.
type Exporter struct {
	sink   Sink
	delay  time.Duration
	logger *slog.Logger

	mu      sync.Mutex
	pending map[*time.Timer]Handle
}

// NewExporter returns an exporter. A non-positive delay selects DefaultReleaseDelay.
func NewExporter(sink Sink, delay time.Duration, logger *slog.Logger) *Exporter {
	if delay <= 0 {
		delay = DefaultReleaseDelay
	}
	return &Exporter{sink: sink, delay: delay, logger: logger, pending: make(map[*time.Timer]Handle)}
}

// Export saves data under name. Failures are reported as ExportFailed.
func (e *Exporter) Export(data []byte, name string) (Handle, error) {
	const op = "export"
	if e.sink == nil {
		return Handle{Name: name}, failure.New(failure.ExportFailed, op, nil)
	}
	h, err := e.sink.Save(data, name)
	e.scheduleRelease(h)
	if err != nil {
		if e.logger != nil {
			e.logger.Warn("export failed", "name", name, "error", err)
		}
		return h, failure.New(failure.ExportFailed, op, err)
	}
	return h, nil
}

func (e *Exporter) scheduleRelease(h Handle) {
	e.mu.Lock()
	defer e.mu.Unlock()
	var t *time.Timer
	t = time.AfterFunc(e.delay, func() {
		e.mu.Lock()
		delete(e.pending, t)
		e.mu.Unlock()
		e.release(h)
	})
	e.pending[t] = h
}

func (e *Exporter) release(h Handle) {
	if err := e.sink.Release(h); err != nil && e.logger != nil {
		e.logger.Warn("release failed", "name", h.Name, "error", err)
	}
}

// Pending reports how many releases are still scheduled.
func (e *Exporter) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.pending)
}

// Flush releases every pending handle now. Used on shutdown.
func (e *Exporter) Flush() {
	e.mu.Lock()
	var due []Handle
	for t, h := range e.pending {
		if t.Stop() {
			due = append(due, h)
		}
		delete(e.pending, t)
	}
	e.mu.Unlock()
	for _, h := range due {
		e.release(h)
	}
}
