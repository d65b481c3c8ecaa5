package ui

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"LocalSketch/internal/state"
)

// BoardWidget shows a board's surface and feeds it mouse input.
type BoardWidget struct {
	widget.BaseWidget
	board    *state.Board
	raster   *canvas.Raster
	cursor   *cursorPreview
	viewport fyne.Size
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)
var _ desktop.Hoverable = (*BoardWidget)(nil)
var _ desktop.Cursorable = (*BoardWidget)(nil)

func NewBoardWidget(board *state.Board) *BoardWidget {
	b := &BoardWidget{
		board:  board,
		cursor: newCursorPreview(),
	}
	b.raster = canvas.NewRaster(func(w, h int) image.Image {
		return b.board.Snapshot()
	})
	b.raster.ScaleMode = canvas.ImageScalePixels
	board.OnChange = func() { b.raster.Refresh() }
	b.ExtendBaseWidget(b)
	return b
}

func (b *BoardWidget) Tools() state.ToolState { return b.board.Tools() }

func (b *BoardWidget) Snapshot() *image.RGBA { return b.board.Snapshot() }

func (b *BoardWidget) SetMode(m state.Mode) {
	b.board.SetMode(m)
	if m != state.ModeEraser {
		b.cursor.hide()
	}
}

func (b *BoardWidget) SetColor(c color.Color) {
	b.board.SetStrokeColor(color.NRGBAModel.Convert(c).(color.NRGBA))
}

func (b *BoardWidget) SetStrokeWidth(px int) { b.board.SetStrokeWidth(px) }

func (b *BoardWidget) SetEraserWidth(px int) { b.board.SetEraserWidth(px) }

// ClearPaths is called by the toolbar's Clear button.
func (b *BoardWidget) ClearPaths() { b.board.ClearAll() }

// pointer returns the raw pointer position and the widget's top-left corner,
// both in window coordinates. The corner is derived from the event itself so
// it is current even if the widget moved since the last event.
func pointer(e fyne.PointEvent) (raw, origin state.Point) {
	raw = state.Point{X: e.AbsolutePosition.X, Y: e.AbsolutePosition.Y}
	origin = state.Point{
		X: e.AbsolutePosition.X - e.Position.X,
		Y: e.AbsolutePosition.Y - e.Position.Y,
	}
	return raw, origin
}

func (b *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	raw, origin := pointer(e.PointEvent)
	b.board.PointerDown(raw, origin)
}

func (b *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonPrimary {
		b.board.PointerUp()
	}
}

func (b *BoardWidget) MouseIn(*desktop.MouseEvent) {}

func (b *BoardWidget) MouseMoved(e *desktop.MouseEvent) {
	b.move(e.PointEvent)
}

func (b *BoardWidget) MouseOut() {
	b.board.PointerLeave()
	b.cursor.hide()
}

// Dragged is delivered instead of MouseMoved while the button is held, even
// outside the widget. Leaving the widget ends the stroke.
func (b *BoardWidget) Dragged(e *fyne.DragEvent) {
	size := b.Size()
	area := state.Bounds{Width: size.Width, Height: size.Height}
	if !area.Contains(state.Point{X: e.Position.X, Y: e.Position.Y}) {
		b.MouseOut()
		return
	}
	b.move(e.PointEvent)
}

func (b *BoardWidget) DragEnd() {
	b.board.PointerUp()
}

func (b *BoardWidget) move(e fyne.PointEvent) {
	raw, origin := pointer(e)
	b.cursor.update(b.board.PointerMove(raw, origin), origin)
}

// Cursor hides the system pointer while the eraser outline stands in for it.
func (b *BoardWidget) Cursor() desktop.Cursor {
	if b.board.Tools().Mode == state.ModeEraser {
		return desktop.HiddenCursor
	}
	return desktop.DefaultCursor
}

// layout fits the surface to a new widget size. Resizing wipes the drawing,
// so unchanged sizes are ignored.
func (b *BoardWidget) layout(size fyne.Size) {
	if size != b.viewport {
		b.viewport = size
		b.board.ResizeViewport(size.Width, size.Height)
	}
	w, h := b.board.Size()
	b.raster.Move(fyne.NewPos(0, 0))
	b.raster.Resize(fyne.NewSize(float32(w), float32(h)))
}

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	r := &boardWidgetRenderer{board: b}
	r.background = canvas.NewRectangle(color.White)
	return r
}

type boardWidgetRenderer struct {
	board      *BoardWidget
	background *canvas.Rectangle
}

func (r *boardWidgetRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.background, r.board.raster, r.board.cursor.rect}
}

func (r *boardWidgetRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)
	r.board.layout(size)
}

func (r *boardWidgetRenderer) MinSize() fyne.Size {
	return fyne.NewSize(300, 300)
}

func (r *boardWidgetRenderer) Refresh() {
	r.board.raster.Refresh()
	r.board.cursor.rect.Refresh()
}

func (r *boardWidgetRenderer) Destroy() {}
