package view

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/soocke/pixel-gif-go/config"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// ConfigPanel encapsulates the configuration form widgets and apply logic.
// It owns its widgets and writes back into *config.Config on ApplyChanges.
type ConfigPanel interface {
	Build(startRow int) (endRow int) // constructs widgets starting at startRow, returns next free row
	SetEditable(enabled bool)
	ApplyChanges() // parses widget text into underlying config and persists
}

type configPanel struct {
	cfg      *config.Config
	cfgPath  string
	logger   *slog.Logger
	applyBtn *ButtonWidget
	widgets  map[string]*TextWidget // keyed by internal field id
}

// NewConfigPanel creates the view bound to cfg.
func NewConfigPanel(cfg *config.Config, cfgPath string, logger *slog.Logger) ConfigPanel {
	return &configPanel{cfg: cfg, cfgPath: cfgPath, logger: logger, widgets: make(map[string]*TextWidget)}
}

func (v *configPanel) Build(startRow int) (row int) {
	c := v.cfg
	row = startRow
	makeRow := func(id, label, value string) {
		lbl := Label(Txt(label), Anchor("w"))
		Grid(lbl, Row(row), Column(0), Sticky("w"), Padx("0.4m"), Pady("0.15m"))
		w := Text(Height(1), Width(16))
		Grid(w, Row(row), Column(1), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
		w.Delete("1.0", END)
		w.Insert("1.0", value)
		v.widgets[id] = w
		row++
	}
	makeRow("frames", "Frames", fmt.Sprintf("%d", c.TargetFrameCount))
	makeRow("frameDelay", "Frame Delay (ms)", fmt.Sprintf("%d", c.FrameDelayMs))
	makeRow("startDelay", "Start Delay (ms)", fmt.Sprintf("%d", c.StartDelayMs))
	makeRow("maxAttempts", "Max Attempts (0 = unlimited)", fmt.Sprintf("%d", c.MaxAttempts))
	makeRow("advance", "Advance On Duplicate (true/false)", fmt.Sprintf("%t", c.AdvanceOnDuplicate))
	makeRow("policy", "Dedup Policy (hash-verify/last-exact)", c.DedupPolicy)
	makeRow("tolerance", "Tolerance", fmt.Sprintf("%d", c.Tolerance))
	makeRow("width", "Width (0 = source)", fmt.Sprintf("%d", c.Width))
	makeRow("height", "Height (0 = source)", fmt.Sprintf("%d", c.Height))
	makeRow("quality", "Quality (1 best - 30)", fmt.Sprintf("%d", c.Quality))
	makeRow("outputDir", "Output Dir", c.OutputDir)
	makeRow("prefix", "Name Prefix", c.NamePrefix)
	v.applyBtn = Button(Txt("Apply Changes"), Command(func() { v.ApplyChanges() }))
	Grid(v.applyBtn, Row(row), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	row++
	return row
}

func (v *configPanel) SetEditable(enabled bool) {
	state := "disabled"
	if enabled {
		state = "normal"
	}
	for _, w := range v.widgets {
		if w != nil {
			w.Configure(State(state))
		}
	}
	if v.applyBtn != nil {
		v.applyBtn.Configure(State(state))
	}
}

func (v *configPanel) text(w *TextWidget) string {
	if w == nil {
		return ""
	}
	parts := w.Get("1.0", END)
	return strings.Join(parts, "")
}

func (v *configPanel) ApplyChanges() {
	if v.cfg == nil {
		return
	}
	fields := make(map[string]string, len(v.widgets))
	for id, w := range v.widgets {
		fields[id] = strings.TrimSpace(v.text(w))
	}
	cfg := applyFields(*v.cfg, fields)
	if verr := cfg.Validate(); verr != nil {
		return
	}
	*v.cfg = cfg
	if err := v.cfg.Save(v.cfgPath); err != nil {
		if v.logger != nil {
			v.logger.Error("config save failed", "error", err)
		}
	} else {
		if v.logger != nil {
			v.logger.Info("config saved", "path", v.cfgPath)
		}
	}
}

// applyFields parses form values into a copy of cfg. Unparseable fields keep
// their previous value.
func applyFields(cfg config.Config, fields map[string]string) config.Config {
	assignInt := func(id string, dst *int) {
		if i, ok := parseIntField(fields[id]); ok {
			*dst = i
		}
	}
	assignString := func(id string, dst *string) {
		if s := strings.TrimSpace(fields[id]); s != "" {
			*dst = s
		}
	}
	assignInt("frames", &cfg.TargetFrameCount)
	assignInt("frameDelay", &cfg.FrameDelayMs)
	assignInt("startDelay", &cfg.StartDelayMs)
	assignInt("maxAttempts", &cfg.MaxAttempts)
	if b, ok := parseBoolLoose(fields["advance"]); ok {
		cfg.AdvanceOnDuplicate = b
	}
	assignString("policy", &cfg.DedupPolicy)
	assignInt("tolerance", &cfg.Tolerance)
	assignInt("width", &cfg.Width)
	assignInt("height", &cfg.Height)
	assignInt("quality", &cfg.Quality)
	assignString("outputDir", &cfg.OutputDir)
	assignString("prefix", &cfg.NamePrefix)
	return cfg
}

// parsing helpers (unexported)
func parseIntField(s string) (int, bool) {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return i, true
}
func parseBoolLoose(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y", "on", "t":
		return true, true
	case "false", "0", "no", "n", "off", "f":
		return false, true
	default:
		return false, false
	}
}
