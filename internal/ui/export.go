package ui

import (
	"fmt"
	"image"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"

	"LocalSketch/internal/export"
)

// showExportDialog asks where to save the drawing. A .pdf name exports PDF,
// anything else PNG.
func showExportDialog(win fyne.Window, board *BoardWidget) {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, win)
			return
		}
		if writer == nil {
			return // cancelled
		}
		if err := saveSnapshot(writer, board.Snapshot()); err != nil {
			log.Printf("[UI] Export failed: %v", err)
			dialog.ShowError(err, win)
		}
	}, win)
	d.SetFileName(export.DefaultFilename)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".png", ".pdf"}))
	d.Show()
}

// saveSnapshot encodes img into writer and closes it.
func saveSnapshot(writer fyne.URIWriteCloser, img image.Image) (err error) {
	defer func() {
		if cerr := writer.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", writer.URI().Name(), cerr)
		}
	}()

	format := export.FormatFor(writer.URI().Name())
	if err := export.Write(writer, format, img); err != nil {
		return err
	}
	log.Printf("[UI] Exported %s as %s", writer.URI().Name(), format)
	return nil
}
