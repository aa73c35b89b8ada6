package view

import (
	"fmt"
	"time"

	//lint:ignore ST1001 Dot import for concise Tk widget DSL.
	. "modernc.org/tk9.0"
)

// SessionStats shows the elapsed recording time and the session tallies.
type SessionStats interface {
	SetElapsed(d time.Duration)
	SetTallies(done, failed, frames int)
}

type sessionStats struct {
	elapsedLbl *LabelWidget
	talliesLbl *LabelWidget
}

// NewSessionStats creates the labels at (row, startCol) and (row, startCol+1).
// If parent is nil, labels are positioned relative to the App root.
func NewSessionStats(parent *FrameWidget, row, startCol int) SessionStats {
	s := &sessionStats{elapsedLbl: Label(Width(14)), talliesLbl: Label(Width(30))}
	if parent != nil {
		Grid(s.elapsedLbl, In(parent), Row(row), Column(startCol), Sticky("w"), Padx("0.2m"))
		Grid(s.talliesLbl, In(parent), Row(row), Column(startCol+1), Columnspan(2), Sticky("w"), Padx("0.2m"))
	} else {
		Grid(s.elapsedLbl, Row(row), Column(startCol), Sticky("w"), Padx("0.2m"))
		Grid(s.talliesLbl, Row(row), Column(startCol+1), Columnspan(2), Sticky("w"), Padx("0.2m"))
	}
	s.SetElapsed(0)
	s.SetTallies(0, 0, 0)
	return s
}

func (s *sessionStats) SetElapsed(d time.Duration) {
	if s == nil || s.elapsedLbl == nil {
		return
	}
	s.elapsedLbl.Configure(Txt(formatElapsed(d)))
}

func (s *sessionStats) SetTallies(done, failed, frames int) {
	if s == nil || s.talliesLbl == nil {
		return
	}
	s.talliesLbl.Configure(Txt(fmt.Sprintf("Saved: %d  Failed: %d  Frames: %d", done, failed, frames)))
}

func formatElapsed(d time.Duration) string {
	tenths := int(d / (100 * time.Millisecond))
	return fmt.Sprintf("Last: %d.%ds", tenths/10, tenths%10)
}
