package app

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/afero"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"

	"github.com/soocke/pixel-gif-go/config"
	"github.com/soocke/pixel-gif-go/ui/presenter"
	"github.com/soocke/pixel-gif-go/ui/theme"
	"github.com/soocke/pixel-gif-go/ui/view"
)

const (
	tick = 100 * time.Millisecond
)

// app is the recording control window.
type app struct {
	container *AppContainer
	loop      *presenter.Loop
	afterID   string
}

func NewApp(title string, width, height int, cfg *config.Config, cfgPath string, logger *slog.Logger) *app {
	a := &app{container: BuildContainer(cfg, logger, cfgPath, afero.NewOsFs(), nil)}

	App.WmTitle(title)
	WmProtocol(App, "WM_DELETE_WINDOW", a.exitHandler)
	WmGeometry(App, fmt.Sprintf("%dx%d+100+100", width, height))
	return a
}

// Start builds the panel and blocks in the Tk event loop.
func (a *app) Start() {
	c := a.container
	theme.InitStyles()
	rv := view.NewRootView(c.Config, c.CfgPath, c.Logger)
	rv.Build(c.Selection, c.CapturePresenter.Toggle, a.exitHandler)
	a.loop = c.AttachView(rv, a.scheduleUpdate)

	a.scheduleUpdate()
	App.Wait()
}

func (a *app) exitHandler() {
	// Cancel scheduled after event if any.
	if a.afterID != "" {
		TclAfterCancel(a.afterID)
	}
	a.container.Close()
	Destroy(App)
}

func (a *app) scheduleUpdate() {
	// Schedule the next update using TclAfter to stay on Tk's event loop thread.
	a.afterID = TclAfter(tick, func() { a.loop.Tick() })
}
