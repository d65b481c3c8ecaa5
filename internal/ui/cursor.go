package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"

	"LocalSketch/internal/state"
)

// cursorPreview is the outlined square that follows the pointer in eraser
// mode.
type cursorPreview struct {
	rect *canvas.Rectangle
}

func newCursorPreview() *cursorPreview {
	rect := canvas.NewRectangle(color.Transparent)
	rect.StrokeColor = color.Black
	rect.StrokeWidth = 1
	rect.Hide()
	return &cursorPreview{rect: rect}
}

// update places the preview. p is in window coordinates; origin is the
// board's top-left corner in the same space.
func (c *cursorPreview) update(p state.CursorPreview, origin state.Point) {
	if !p.Visible {
		c.hide()
		return
	}
	c.rect.Resize(fyne.NewSize(p.Size, p.Size))
	c.rect.Move(fyne.NewPos(p.X-origin.X, p.Y-origin.Y))
	c.rect.Show()
	c.rect.Refresh()
}

func (c *cursorPreview) hide() {
	if c.rect.Visible() {
		c.rect.Hide()
	}
}
