package theme

// Styling for the recording panel: palette constants and InitStyles, which
// activates a base theme and configures the semantic widget styles.

import (
	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// Palette defines core semantic colors used across widgets.
const (
	ColorBg        = "#f7f9fb" // app background
	ColorPrimary   = "#2563eb" // capture button
	ColorDanger    = "#dc2626"
	ColorAccent    = "#10b981" // state label
	ColorRecording = "#f59e0b"
)

// style names used with Style("primary.TButton") etc.
const (
	StylePrimaryButton = "primary.TButton"
	StyleDangerButton  = "danger.TButton"
	StyleStateLabel    = "state.TLabel"
)

// InitStyles applies the panel styles.
func InitStyles() {
	_ = ActivateTheme("azure light") // baseline metrics
	App.Configure(Background(ColorBg))
	StyleConfigure(StylePrimaryButton, Background(ColorPrimary), Foreground("white"), Padding("4p 3p"), Borderwidth(1), Relief("ridge"))
	StyleConfigure(StyleDangerButton, Background(ColorDanger), Foreground("white"), Padding("4p 3p"), Borderwidth(1), Relief("ridge"))
	SetRecording(false)
}

// SetRecording recolors the state label while a recording runs.
func SetRecording(recording bool) {
	bg := ColorAccent
	if recording {
		bg = ColorRecording
	}
	StyleConfigure(StyleStateLabel, Foreground("white"), Background(bg), Padding("4p 2p"), Borderwidth(1), Relief("groove"))
}
