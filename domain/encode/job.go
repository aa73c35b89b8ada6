package encode

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/soocke/pixel-gif-go/domain/failure"
)

// Job is the single-resolution handle of one in-flight encode. The first
// terminal event wins; later ones are dropped, as is progress after resolution.
type Job struct {
	once     sync.Once
	done     chan struct{}
	resolved atomic.Bool
	data     []byte
	err      error

	progress func(float64)
	logger   *slog.Logger
}

func newJob(progress func(float64), logger *slog.Logger) *Job {
	return &Job{done: make(chan struct{}), progress: progress, logger: logger}
}

// Done is closed once the job has resolved.
func (j *Job) Done() <-chan struct{} { return j.done }

// Result blocks until the job resolves.
func (j *Job) Result() ([]byte, error) {
	<-j.done
	return j.data, j.err
}

func (j *Job) resolve(data []byte, err error, event string) {
	won := false
	j.once.Do(func() {
		j.data, j.err = data, err
		j.resolved.Store(true)
		close(j.done)
		won = true
	})
	if !won && j.logger != nil {
		j.logger.Warn("encode event after resolution ignored", "event", event)
	}
}

func (j *Job) callbacks() Callbacks {
	const op = "encode"
	return Callbacks{
		OnProgress: func(f float64) {
			if j.resolved.Load() || j.progress == nil {
				return
			}
			j.progress(min(max(f, 0), 1))
		},
		OnFinished: func(data []byte) {
			if len(data) == 0 {
				j.resolve(nil, failure.New(failure.EncodeFailed, op, errors.New("engine finished with an empty artifact")), "finished")
				return
			}
			j.resolve(data, nil, "finished")
		},
		OnAborted: func() {
			j.resolve(nil, failure.New(failure.EncodeAborted, op, nil), "aborted")
		},
		OnFault: func(err error) {
			if err == nil {
				err = errors.New("unspecified engine fault")
			}
			j.resolve(nil, failure.New(failure.EncodeFailed, op, err), "fault")
		},
	}
}
