package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"

	"LocalSketch/internal/config"
	"LocalSketch/internal/state"
)

// RunApp opens the drawing window and blocks until it is closed.
func RunApp(cfg config.Config) {
	myApp := app.New()
	myWindow := myApp.NewWindow("LocalSketch")
	myWindow.Resize(fyne.NewSize(1024, 768))

	myWindow.SetContent(NewContent(cfg, myWindow))
	myWindow.ShowAndRun()
}

// NewContent builds the board and its toolbar for win.
func NewContent(cfg config.Config, win fyne.Window) fyne.CanvasObject {
	board := state.NewBoard(cfg.Tools)
	board.SetViewportScale(cfg.ViewportScale)
	board.SetMaxSurfaceSide(cfg.MaxSurfaceSide)

	// Create the interactive board widget
	boardWidget := NewBoardWidget(board)

	// Create the toolbar and pass it a reference to the board
	toolbar := NewToolbar(boardWidget, win)

	return container.NewBorder(toolbar, nil, nil, nil, boardWidget)
}
