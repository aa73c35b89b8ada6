package encode

import (
	"context"
	"errors"
	"image"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soocke/pixel-gif-go/domain/capture"
	"github.com/soocke/pixel-gif-go/domain/failure"
)

// fakeEngine records submissions and replays a scripted event sequence.
type fakeEngine struct {
	mu      sync.Mutex
	newJobs int
	opts    Options
	job     *fakeJob
	newErr  error
	script  func(j *fakeJob, cb Callbacks)
}

func (e *fakeEngine) NewJob(opts Options) (EngineJob, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.newJobs++
	e.opts = opts
	if e.newErr != nil {
		return nil, e.newErr
	}
	e.job = &fakeJob{script: e.script, abortCh: make(chan struct{})}
	return e.job, nil
}

type fakeJob struct {
	pixels  []*image.RGBA
	delays  []int
	script  func(j *fakeJob, cb Callbacks)
	abortCh chan struct{}
	abortMu sync.Once
	addErr  error
}

func (j *fakeJob) AddFrame(p *image.RGBA, d int) error {
	if j.addErr != nil {
		return j.addErr
	}
	j.pixels = append(j.pixels, p)
	j.delays = append(j.delays, d)
	return nil
}

func (j *fakeJob) Render(cb Callbacks) { go j.script(j, cb) }

func (j *fakeJob) Abort() { j.abortMu.Do(func() { close(j.abortCh) }) }

func frameSeq(delays ...int) []capture.Frame {
	out := make([]capture.Frame, len(delays))
	for i, d := range delays {
		img := image.NewRGBA(image.Rect(0, 0, 2, 2))
		img.Pix[0] = byte(i)
		out[i] = capture.Frame{Pixels: img, DelayCentiseconds: d, Sequence: uint64(i + 1)}
	}
	return out
}

func finishWith(data []byte) func(*fakeJob, Callbacks) {
	return func(_ *fakeJob, cb Callbacks) {
		cb.OnProgress(0.5)
		cb.OnFinished(data)
	}
}

func TestPipeline_EmptyFramesSkipsEngine(t *testing.T) {
	eng := &fakeEngine{script: finishWith([]byte("GIF"))}

	_, err := NewPipeline(eng, 0, nil).Encode(context.Background(), nil, 2, 2, nil)

	assert.True(t, failure.Is(err, failure.NoFrames))
	assert.Zero(t, eng.newJobs)
}

func TestPipeline_SubmitsFramesInOrder(t *testing.T) {
	eng := &fakeEngine{script: finishWith([]byte("GIF89a"))}
	frames := frameSeq(10, 3, 7, 1)
	var mu sync.Mutex
	var progress []float64

	data, err := NewPipeline(eng, 0, nil).Encode(context.Background(), frames, 2, 2, func(f float64) {
		mu.Lock()
		progress = append(progress, f)
		mu.Unlock()
	})

	require.NoError(t, err)
	assert.Equal(t, []byte("GIF89a"), data)
	assert.Equal(t, Options{Width: 2, Height: 2, Quality: DefaultQuality}, eng.opts)
	require.Len(t, eng.job.pixels, 4)
	assert.Equal(t, []int{10, 3, 7, 1}, eng.job.delays)
	for i := range frames {
		assert.Same(t, frames[i].Pixels, eng.job.pixels[i])
	}
	mu.Lock()
	assert.Equal(t, []float64{0.5}, progress)
	mu.Unlock()
}

func TestPipeline_AbortedMapsToEncodeAborted(t *testing.T) {
	eng := &fakeEngine{script: func(_ *fakeJob, cb Callbacks) { cb.OnAborted() }}

	_, err := NewPipeline(eng, 5, nil).Encode(context.Background(), frameSeq(1), 2, 2, nil)

	assert.True(t, failure.Is(err, failure.EncodeAborted))
}

func TestPipeline_FaultMapsToEncodeFailed(t *testing.T) {
	boom := errors.New("worker crashed")
	eng := &fakeEngine{script: func(_ *fakeJob, cb Callbacks) { cb.OnFault(boom) }}

	_, err := NewPipeline(eng, 5, nil).Encode(context.Background(), frameSeq(1), 2, 2, nil)

	assert.True(t, failure.Is(err, failure.EncodeFailed))
	assert.ErrorIs(t, err, boom)
}

func TestPipeline_FirstTerminalEventWins(t *testing.T) {
	eng := &fakeEngine{script: func(_ *fakeJob, cb Callbacks) {
		cb.OnFinished([]byte("first"))
		cb.OnAborted()
		cb.OnFault(errors.New("late"))
		cb.OnProgress(0.9)
	}}
	progressCalls := 0

	data, err := NewPipeline(eng, 0, nil).Encode(context.Background(), frameSeq(2, 2), 2, 2, func(float64) { progressCalls++ })

	require.NoError(t, err)
	assert.Equal(t, []byte("first"), data)
	time.Sleep(10 * time.Millisecond)
	assert.Zero(t, progressCalls)
}

func TestPipeline_EmptyArtifactIsFault(t *testing.T) {
	eng := &fakeEngine{script: finishWith(nil)}

	_, err := NewPipeline(eng, 0, nil).Encode(context.Background(), frameSeq(1), 2, 2, nil)

	assert.True(t, failure.Is(err, failure.EncodeFailed))
}

func TestPipeline_EngineSetupErrors(t *testing.T) {
	eng := &fakeEngine{newErr: errors.New("no workers")}
	_, err := NewPipeline(eng, 0, nil).Encode(context.Background(), frameSeq(1), 2, 2, nil)
	assert.True(t, failure.Is(err, failure.EncodeFailed))

	_, err = NewPipeline(nil, 0, nil).Encode(context.Background(), frameSeq(1), 2, 2, nil)
	assert.True(t, failure.Is(err, failure.EncodeFailed))
}

func TestPipeline_CancelRequestsAbortAndAwaitsTerminal(t *testing.T) {
	eng := &fakeEngine{script: func(j *fakeJob, cb Callbacks) {
		<-j.abortCh
		cb.OnAborted()
	}}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := NewPipeline(eng, 0, nil).Encode(ctx, frameSeq(1, 1), 2, 2, nil)

	assert.True(t, failure.Is(err, failure.EncodeAborted))
}

func TestClampQuality(t *testing.T) {
	assert.Equal(t, DefaultQuality, ClampQuality(0))
	assert.Equal(t, MinQuality, ClampQuality(-4))
	assert.Equal(t, MaxQuality, ClampQuality(99))
	assert.Equal(t, 20, ClampQuality(20))
}
