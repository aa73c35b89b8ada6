package app

import (
	"context"
	"image"
	"log/slog"

	"github.com/spf13/afero"

	"github.com/soocke/pixel-gif-go/config"
	"github.com/soocke/pixel-gif-go/domain/capture"
	"github.com/soocke/pixel-gif-go/domain/dedup"
	"github.com/soocke/pixel-gif-go/domain/encode"
	"github.com/soocke/pixel-gif-go/domain/export"
	"github.com/soocke/pixel-gif-go/domain/session"
	"github.com/soocke/pixel-gif-go/ui/model"
	"github.com/soocke/pixel-gif-go/ui/presenter"
	"github.com/soocke/pixel-gif-go/ui/view"
)

// AppContainer assembles models, domain services, presenters and the root view.
type AppContainer struct {
	Config  *config.Config
	CfgPath string
	Logger  *slog.Logger

	Capture   *model.CaptureModel
	Session   *model.SessionModel
	Selection *model.SelectionModel

	Source   *capture.RegionSource
	Engine   encode.Engine
	Exporter *export.Exporter
	Recorder *session.Recorder
	RootView *view.RootView

	// Presenters
	CapturePresenter *presenter.CapturePresenter
	StatePresenter   *presenter.StatePresenter
}

// BuildContainer constructs the domain side. Views and view-bound presenters
// are attached by the app once Tk is up.
func BuildContainer(cfg *config.Config, logger *slog.Logger, cfgPath string, fs afero.Fs, build capture.SourceBuilder) *AppContainer {
	c := &AppContainer{Config: cfg, CfgPath: cfgPath, Logger: logger}
	c.Capture = &model.CaptureModel{}
	c.Capture.SetStatus(presenter.StatusReady)
	c.Session = model.NewSessionModel()
	c.Selection = model.NewSelectionModel(image.Rect(cfg.SelectionX, cfg.SelectionY, cfg.SelectionX+cfg.SelectionW, cfg.SelectionY+cfg.SelectionH))
	c.Source = capture.NewRegionSource(build)
	c.Engine = encode.NewGIFEngine(logger)
	sink := export.NewFileSink(fs, cfg.OutputDir, "", logger)
	c.Exporter = export.NewExporter(sink, cfg.ReleaseDelay(), logger)
	c.Recorder = session.NewRecorder(c.Source, c.newDetector, &configuredEncoder{c: c}, c.Exporter, logger,
		session.WithNamePrefix(cfg.NamePrefix))
	c.StatePresenter = presenter.NewStatePresenter(nil)
	c.CapturePresenter = presenter.NewCapturePresenter(c.Capture, c.Recorder, c.Params, logger)
	return c
}

// Params snapshots the config into recording parameters and points the
// source at the current region.
func (c *AppContainer) Params() session.Params {
	cfg := c.Config
	if err := c.Source.Refresh(c.Selection.Rect(), cfg.Width, cfg.Height); err != nil && c.Logger != nil {
		c.Logger.Warn("screen source unavailable", "error", err)
	}
	return session.Params{
		TargetFrameCount:   cfg.TargetFrameCount,
		FrameDelay:         cfg.FrameDelay(),
		StartDelay:         cfg.StartDelay(),
		Width:              cfg.Width,
		Height:             cfg.Height,
		MaxAttempts:        cfg.MaxAttempts,
		AdvanceOnDuplicate: cfg.AdvanceOnDuplicate,
		OnState:            c.StatePresenter.OnState,
	}
}

func (c *AppContainer) newDetector() capture.DuplicateDetector {
	policy, err := dedup.ParsePolicy(c.Config.DedupPolicy)
	if err != nil && c.Logger != nil {
		c.Logger.Warn("unknown dedup policy, using default", "policy", c.Config.DedupPolicy)
	}
	return dedup.New(policy, dedup.Options{Tolerance: c.Config.Tolerance, Logger: c.Logger})
}

// AttachView binds the view-side presenters to rv and returns the tick loop.
func (c *AppContainer) AttachView(rv *view.RootView, schedule func()) *presenter.Loop {
	c.RootView = rv
	c.StatePresenter = presenter.NewStatePresenter(rv)
	status := presenter.NewStatusPresenter(c.Capture, rv)
	sess := presenter.NewSessionPresenter(c.Session, c.Capture, c.CapturePresenter.Results(), rv)
	return presenter.NewLoop(status, c.StatePresenter, sess, schedule)
}

// Close cancels a running recording and releases staged artifacts.
func (c *AppContainer) Close() {
	c.CapturePresenter.Close()
	c.Exporter.Flush()
}

// configuredEncoder picks up the quality setting at the start of each encode.
type configuredEncoder struct{ c *AppContainer }

func (e *configuredEncoder) Encode(ctx context.Context, frames []capture.Frame, width, height int, onProgress func(float64)) ([]byte, error) {
	return encode.NewPipeline(e.c.Engine, e.c.Config.Quality, e.c.Logger).Encode(ctx, frames, width, height, onProgress)
}
