package view

import (
	"fmt"
	"image"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/soocke/pixel-gif-go/config"
	"github.com/soocke/pixel-gif-go/ui/model"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders
	. "modernc.org/tk9.0"
)

// SelectionOverlay manages the translucent window the user drags over the
// screen region to record.
type SelectionOverlay interface {
	OpenOrFocus()
	Clear()
}

type selectionOverlay struct {
	logger    *slog.Logger
	cfg       *config.Config
	cfgPath   string
	selection *model.SelectionModel
	win       *ToplevelWidget
}

// NewSelectionOverlay creates a new overlay manager writing into selection.
func NewSelectionOverlay(selection *model.SelectionModel, cfg *config.Config, cfgPath string, logger *slog.Logger) SelectionOverlay {
	return &selectionOverlay{logger: logger, cfg: cfg, cfgPath: cfgPath, selection: selection}
}

func (v *selectionOverlay) OpenOrFocus() {
	if v.win != nil {
		WmGeometry(v.win.Window)
		return
	}
	win := App.Toplevel(Borderwidth(2), Background("#008080"))
	win.WmTitle("Record Region")
	v.win = win
	initW, initH := 640, 360
	if r := v.selection.Rect(); !r.Empty() {
		WmGeometry(win.Window, fmt.Sprintf("%dx%d+%d+%d", r.Dx(), r.Dy(), r.Min.X, r.Min.Y))
	} else {
		WmGeometry(win.Window, fmt.Sprintf("%dx%d+%d+%d", initW, initH, 200, 200))
	}
	WmAttributes(win.Window, "-topmost", 1)
	WmAttributes(win.Window, "-alpha", 0.4)
	GridRowConfigure(win.Window, 0, Weight(1))
	GridColumnConfigure(win.Window, 0, Weight(1))
	center := win.Frame(Background("#008080"))
	Grid(center, Row(0), Column(0), Sticky("nsew"))
	controls := win.Frame()
	Grid(controls, Row(1), Column(0), Sticky("we"))
	confirm := win.Button(Txt("Confirm [Enter]"), Command(v.confirm))
	Grid(confirm, In(controls), Row(0), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	cancel := win.Button(Txt("Cancel [Esc]"), Command(v.cancel))
	Grid(cancel, In(controls), Row(0), Column(1), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	Bind(win, "<Return>", Command(v.confirm))
	Bind(win, "<Escape>", Command(v.cancel))
}

// Clear returns to full-screen recording.
func (v *selectionOverlay) Clear() {
	v.selection.SetRect(image.Rectangle{})
	v.persist(image.Rectangle{})
	v.destroy()
}

func (v *selectionOverlay) confirm() {
	if v.win == nil {
		return
	}
	geom := WmGeometry(v.win.Window)
	if rect, ok := parseGeometrySel(geom); ok {
		v.selection.SetRect(rect)
		v.persist(rect)
		if v.logger != nil {
			v.logger.Info("record region selected", "rect", rect.String())
		}
	}
	v.destroy()
}

func (v *selectionOverlay) persist(r image.Rectangle) {
	if v.cfg == nil {
		return
	}
	v.cfg.SelectionX, v.cfg.SelectionY = r.Min.X, r.Min.Y
	v.cfg.SelectionW, v.cfg.SelectionH = r.Dx(), r.Dy()
	if err := v.cfg.Save(v.cfgPath); err != nil && v.logger != nil {
		v.logger.Error("config save failed", "error", err)
	}
}

func (v *selectionOverlay) cancel() { v.destroy() }

func (v *selectionOverlay) destroy() {
	if v.win != nil {
		Destroy(v.win)
		v.win = nil
	}
}

// geomReSel matches window geometry strings in the format "WIDTHxHEIGHT+X+Y"
var geomReSel = regexp.MustCompile(`^(\d+)x(\d+)\+(-?\d+)\+(-?\d+)$`)

// parseGeometrySel parses a Tk geometry string and returns the corresponding rectangle.
func parseGeometrySel(g string) (image.Rectangle, bool) {
	g = strings.TrimSpace(g)
	m := geomReSel.FindStringSubmatch(g)
	if len(m) != 5 {
		return image.Rectangle{}, false
	}
	w, _ := strconv.Atoi(m[1])
	h, _ := strconv.Atoi(m[2])
	x, _ := strconv.Atoi(m[3])
	y, _ := strconv.Atoi(m[4])
	if w <= 0 || h <= 0 {
		return image.Rectangle{}, false
	}
	return image.Rect(x, y, x+w, y+h), true
}
