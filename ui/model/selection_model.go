package model

import (
	"image"
	"sync"
)

// SelectionModel holds the screen rectangle to record, in global coordinates.
// The zero value records the whole primary screen.
type SelectionModel struct {
	mu   sync.Mutex
	rect image.Rectangle
}

func NewSelectionModel(r image.Rectangle) *SelectionModel {
	m := &SelectionModel{}
	m.SetRect(r)
	return m
}

// SetRect sets the rectangle. An empty rect clears the selection.
func (m *SelectionModel) SetRect(r image.Rectangle) {
	if m == nil {
		return
	}
	if r.Empty() {
		r = image.Rectangle{}
	}
	m.mu.Lock()
	m.rect = r
	m.mu.Unlock()
}

// Rect returns the current rectangle (may be empty).
func (m *SelectionModel) Rect() image.Rectangle {
	if m == nil {
		return image.Rectangle{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rect
}
