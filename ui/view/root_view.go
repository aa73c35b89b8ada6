package view

import (
	"log/slog"
	"time"

	"github.com/soocke/pixel-gif-go/config"
	"github.com/soocke/pixel-gif-go/ui/model"
	"github.com/soocke/pixel-gif-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// RootView composes the recording panel and wires UI callbacks.
// It owns the subviews and exposes minimal exported fields for presenters.
type RootView struct {
	cfg     *config.Config
	cfgPath string
	logger  *slog.Logger

	// Subviews
	Session     SessionStats
	ConfigPanel ConfigPanel
	Selection   SelectionOverlay

	// Widgets
	StateLabel    *TLabelWidget
	StatusLabel   *LabelWidget
	ProgressLabel *LabelWidget
	CaptureButton *TButtonWidget
	SelectButton  *ButtonWidget
}

func NewRootView(cfg *config.Config, cfgPath string, logger *slog.Logger) *RootView {
	return &RootView{cfg: cfg, cfgPath: cfgPath, logger: logger}
}

// Build constructs the layout. Handlers are invoked on user actions.
func (rv *RootView) Build(selection *model.SelectionModel, onToggleCapture func(), onExit func()) {
	if rv == nil {
		return
	}
	// Row 0: state, status and buttons
	rv.StateLabel = TLabel(Txt("State: idle"), Style(theme.StyleStateLabel))
	Grid(rv.StateLabel, Row(0), Column(0), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	rv.StatusLabel = Label(Txt("Ready to capture"), Width(36), Anchor("w"), Borderwidth(1), Relief("ridge"))
	Grid(rv.StatusLabel, Row(0), Column(1), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.3m"))

	btnFrame := Frame()
	Grid(btnFrame, Row(0), Column(3), Rowspan(3), Sticky("ne"), Padx("0.3m"), Pady("0.3m"))
	rv.CaptureButton = TButton(Txt("Capture GIF"), Style(theme.StylePrimaryButton), Command(onToggleCapture))
	Grid(rv.CaptureButton, In(btnFrame), Row(0), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	rv.Selection = NewSelectionOverlay(selection, rv.cfg, rv.cfgPath, rv.logger)
	rv.SelectButton = Button(Txt("Select Region"), Command(rv.Selection.OpenOrFocus))
	Grid(rv.SelectButton, In(btnFrame), Row(1), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	clearBtn := Button(Txt("Full Screen"), Command(rv.Selection.Clear))
	Grid(clearBtn, In(btnFrame), Row(2), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	exitBtn := TButton(Txt("Exit"), Style(theme.StyleDangerButton), Command(onExit))
	Grid(exitBtn, In(btnFrame), Row(3), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))

	// Row 1: progress, row 2: session stats
	rv.ProgressLabel = Label(Txt(""), Anchor("w"))
	Grid(rv.ProgressLabel, Row(1), Column(0), Columnspan(3), Sticky("we"), Padx("0.4m"))
	rv.Session = NewSessionStats(nil, 2, 0)

	// Config panel rows
	rv.ConfigPanel = NewConfigPanel(rv.cfg, rv.cfgPath, rv.logger)
	rv.ConfigPanel.Build(3)
}

// SetStateLabel updates the state label text.
func (rv *RootView) SetStateLabel(text string) {
	if rv != nil && rv.StateLabel != nil {
		rv.StateLabel.Configure(Txt(text))
	}
}

func (rv *RootView) SetStatus(text string) {
	if rv != nil && rv.StatusLabel != nil {
		rv.StatusLabel.Configure(Txt(text))
	}
}

func (rv *RootView) SetProgress(text string) {
	if rv != nil && rv.ProgressLabel != nil {
		rv.ProgressLabel.Configure(Txt(text))
	}
}

// SetRecording flips the capture button into a cancel button and locks the
// config while a recording runs.
func (rv *RootView) SetRecording(recording bool) {
	if rv == nil {
		return
	}
	theme.SetRecording(recording)
	if rv.CaptureButton != nil {
		if recording {
			rv.CaptureButton.Configure(Txt("Cancel"))
		} else {
			rv.CaptureButton.Configure(Txt("Capture GIF"))
		}
	}
	state := "normal"
	if recording {
		state = "disabled"
	}
	if rv.SelectButton != nil {
		rv.SelectButton.Configure(State(state))
	}
	if rv.ConfigPanel != nil {
		rv.ConfigPanel.SetEditable(!recording)
	}
}

// SetSession forwards to the session stats subview.
func (rv *RootView) SetSession(elapsed time.Duration, done, failed, frames int) {
	if rv == nil || rv.Session == nil {
		return
	}
	rv.Session.SetElapsed(elapsed)
	rv.Session.SetTallies(done, failed, frames)
}
