package export

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"path/filepath"
	"strings"
)

// DefaultFilename is offered when saving a drawing.
const DefaultFilename = "drawing.png"

// Format is an export encoding.
type Format string

const (
	FormatPNG Format = "png"
	FormatPDF Format = "pdf"
)

// FormatFor picks the encoding from a file name. Anything that is not a .pdf
// is written as PNG.
func FormatFor(filename string) Format {
	if strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return FormatPDF
	}
	return FormatPNG
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "image/png"
}

// Filename returns the default download name for f.
func (f Format) Filename() string {
	return strings.TrimSuffix(DefaultFilename, filepath.Ext(DefaultFilename)) + "." + string(f)
}

// WritePNG encodes img losslessly, alpha included.
func WritePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}

// Write encodes img in format f.
func Write(w io.Writer, f Format, img image.Image) error {
	if f == FormatPDF {
		return WritePDF(w, img)
	}
	return WritePNG(w, img)
}
