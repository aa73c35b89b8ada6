package encode

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/soocke/pixel-gif-go/domain/capture"
	"github.com/soocke/pixel-gif-go/domain/failure"
)

// Pipeline turns an ordered frame sequence into artifact bytes through an Engine.
type Pipeline struct {
	engine  Engine
	quality int
	logger  *slog.Logger
}

// NewPipeline returns a pipeline using engine at the given quality (see ClampQuality).
func NewPipeline(engine Engine, quality int, logger *slog.Logger) *Pipeline {
	return &Pipeline{engine: engine, quality: ClampQuality(quality), logger: logger}
}

// Encode submits frames in order with their delays and waits for the
// engine's terminal event. onProgress, if set, is called from the engine's
// goroutine with fractions in [0,1].
//
// Cancelling ctx requests an abort; Encode still waits for the engine to
// acknowledge it, so a job that never terminates blocks Encode.
func (p *Pipeline) Encode(ctx context.Context, frames []capture.Frame, width, height int, onProgress func(float64)) ([]byte, error) {
	const op = "encode"
	if len(frames) == 0 {
		return nil, failure.New(failure.NoFrames, op, nil)
	}
	if p.engine == nil {
		return nil, failure.New(failure.EncodeFailed, op, fmt.Errorf("no encoding engine"))
	}
	ej, err := p.engine.NewJob(Options{Width: width, Height: height, Quality: p.quality})
	if err != nil {
		return nil, failure.New(failure.EncodeFailed, op, err)
	}
	for i, f := range frames {
		if err := ej.AddFrame(f.Pixels, f.DelayCentiseconds); err != nil {
			return nil, failure.New(failure.EncodeFailed, op, fmt.Errorf("frame %d: %w", i, err))
		}
	}
	if p.logger != nil {
		p.logger.Debug("encode started", "frames", len(frames), "width", width, "height", height, "quality", p.quality)
	}

	job := newJob(onProgress, p.logger)
	ej.Render(job.callbacks())
	select {
	case <-job.Done():
	case <-ctx.Done():
		if p.logger != nil {
			p.logger.Info("encode abort requested", "cause", ctx.Err())
		}
		ej.Abort()
		<-job.Done()
	}
	data, err := job.Result()
	if err == nil && p.logger != nil {
		p.logger.Debug("encode finished", "bytes", len(data))
	}
	return data, err
}
