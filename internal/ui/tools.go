package ui

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"LocalSketch/internal/state"
)

// --- Custom Widget for Color Swatches ---
type colorSwatch struct {
	widget.BaseWidget
	Color    color.Color
	OnTapped func(color.Color)

	rect *canvas.Rectangle
}

func newColorSwatch(c color.Color, tapped func(color.Color)) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	s.rect = canvas.NewRectangle(s.Color)
	s.rect.SetMinSize(fyne.NewSize(28, 28))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(s.rect, border))
}

// SetColor changes the swatch fill.
func (s *colorSwatch) SetColor(c color.Color) {
	s.Color = c
	if s.rect != nil {
		s.rect.FillColor = c
		s.rect.Refresh()
	}
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Color)
	}
}

// toolbar echoes the board's tool state and edits it.
type toolbar struct {
	board *BoardWidget
	win   fyne.Window

	pencilBtn   *widget.Button
	eraserBtn   *widget.Button
	pencilTools *fyne.Container
	eraserTools *fyne.Container

	picker       *colorSwatch
	strokeSlider *widget.Slider
	strokeLabel  *widget.Label
	strokeDot    *canvas.Rectangle
	strokeDotBox *fyne.Container
	eraserSlider *widget.Slider
	eraserLabel  *widget.Label
	eraserBox    *canvas.Rectangle
	eraserBoxBox *fyne.Container

	content fyne.CanvasObject
}

// --- The Main Toolbar ---
func NewToolbar(board *BoardWidget, win fyne.Window) fyne.CanvasObject {
	return newToolbar(board, win).content
}

func newToolbar(board *BoardWidget, win fyne.Window) *toolbar {
	t := &toolbar{board: board, win: win}
	tools := board.Tools()

	t.pencilBtn = widget.NewButtonWithIcon("Pencil", theme.DocumentCreateIcon(), func() {
		t.selectMode(state.ModePencil)
	})
	t.eraserBtn = widget.NewButtonWithIcon("Eraser", theme.DeleteIcon(), func() {
		t.selectMode(state.ModeEraser)
	})

	// --- Pencil controls ---
	t.picker = newColorSwatch(tools.StrokeColor, func(color.Color) { t.showColorPicker() })
	palette := container.NewHBox(
		newColorSwatch(state.Red, t.setColor),
		newColorSwatch(state.Blue, t.setColor),
		newColorSwatch(state.Yellow, t.setColor),
	)

	t.strokeLabel = widget.NewLabel("")
	t.strokeDot = canvas.NewRectangle(color.Black)
	t.strokeDotBox = container.NewCenter(t.strokeDot)
	t.strokeSlider = newSizeSlider(state.MinStrokeWidth, state.MaxStrokeWidth, tools.StrokeWidth, t.setStrokeWidth)

	t.pencilTools = container.NewHBox(
		t.picker,
		palette,
		container.New(layout.NewGridWrapLayout(fyne.NewSize(150, 35)), t.strokeSlider),
		t.strokeLabel,
		container.New(layout.NewGridWrapLayout(fyne.NewSize(state.MaxStrokeWidth, state.MaxStrokeWidth)), t.strokeDotBox),
	)

	// --- Eraser controls ---
	t.eraserLabel = widget.NewLabel("")
	t.eraserBox = canvas.NewRectangle(color.Transparent)
	t.eraserBox.StrokeColor = color.Black
	t.eraserBox.StrokeWidth = 1
	t.eraserBoxBox = container.NewCenter(t.eraserBox)
	t.eraserSlider = newSizeSlider(state.MinEraserWidth, state.MaxEraserWidth, tools.EraserWidth, t.setEraserWidth)

	t.eraserTools = container.NewHBox(
		container.New(layout.NewGridWrapLayout(fyne.NewSize(150, 35)), t.eraserSlider),
		t.eraserLabel,
		container.New(layout.NewGridWrapLayout(fyne.NewSize(state.MaxEraserWidth/4, state.MaxEraserWidth/4)), t.eraserBoxBox),
	)

	t.echoStrokeWidth(tools.StrokeWidth)
	t.echoEraserWidth(tools.EraserWidth)
	t.showMode(tools.Mode)

	// --- Assemble everything ---
	t.content = container.NewHBox(
		t.pencilBtn,
		t.eraserBtn,
		widget.NewSeparator(),
		t.pencilTools,
		t.eraserTools,
		layout.NewSpacer(),
		widget.NewButtonWithIcon("Clear", theme.ContentClearIcon(), board.ClearPaths),
		widget.NewButtonWithIcon("Export", theme.DocumentSaveIcon(), func() {
			showExportDialog(win, board)
		}),
	)
	return t
}

func newSizeSlider(minPx, maxPx, value int, changed func(int)) *widget.Slider {
	s := widget.NewSlider(float64(minPx), float64(maxPx))
	s.Step = 1
	s.Value = float64(value)
	s.OnChanged = func(v float64) { changed(int(v)) }
	return s
}

func pixels(v int) string {
	return fmt.Sprintf("%dpx", v)
}

func (t *toolbar) selectMode(m state.Mode) {
	t.board.SetMode(m)
	t.showMode(m)
}

// showMode highlights the active tool and shows only its controls.
func (t *toolbar) showMode(m state.Mode) {
	eraser := m == state.ModeEraser
	t.pencilBtn.Importance = widget.HighImportance
	t.eraserBtn.Importance = widget.MediumImportance
	if eraser {
		t.pencilBtn.Importance, t.eraserBtn.Importance = t.eraserBtn.Importance, t.pencilBtn.Importance
		t.pencilTools.Hide()
		t.eraserTools.Show()
	} else {
		t.eraserTools.Hide()
		t.pencilTools.Show()
	}
	t.pencilBtn.Refresh()
	t.eraserBtn.Refresh()
}

func (t *toolbar) setColor(c color.Color) {
	t.board.SetColor(c)
	t.picker.SetColor(c)
}

func (t *toolbar) showColorPicker() {
	d := dialog.NewColorPicker("Pencil colour", "Choose the stroke colour", t.setColor, t.win)
	d.Advanced = true
	d.SetColor(t.board.Tools().StrokeColor)
	d.Show()
}

func (t *toolbar) setStrokeWidth(px int) {
	t.board.SetStrokeWidth(px)
	t.echoStrokeWidth(px)
}

func (t *toolbar) echoStrokeWidth(px int) {
	t.strokeLabel.SetText(pixels(px))
	t.strokeDot.CornerRadius = float32(px) / 2
	t.strokeDot.SetMinSize(fyne.NewSize(float32(px), float32(px)))
	t.strokeDot.Resize(fyne.NewSize(float32(px), float32(px)))
	t.strokeDotBox.Refresh()
}

func (t *toolbar) setEraserWidth(px int) {
	t.board.SetEraserWidth(px)
	t.echoEraserWidth(px)
}

// echoEraserWidth draws the size box at a quarter scale to keep the toolbar
// compact.
func (t *toolbar) echoEraserWidth(px int) {
	t.eraserLabel.SetText(pixels(px))
	side := float32(px) / 4
	t.eraserBox.SetMinSize(fyne.NewSize(side, side))
	t.eraserBox.Resize(fyne.NewSize(side, side))
	t.eraserBoxBox.Refresh()
}
