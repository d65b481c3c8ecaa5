package state

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

const (
	DefaultStrokeWidth = 5
	DefaultEraserWidth = 20

	// Ranges offered by the size sliders of both front ends.
	MinStrokeWidth = 1
	MaxStrokeWidth = 50
	MinEraserWidth = 5
	MaxEraserWidth = 100
)

// Palette presets offered next to the color picker.
var (
	Red    = color.NRGBA{R: 0xff, A: 0xff}
	Blue   = color.NRGBA{B: 0xff, A: 0xff}
	Yellow = color.NRGBA{R: 0xff, G: 0xff, A: 0xff}
)

// ToolState holds the user's current tool selection.
type ToolState struct {
	Mode        Mode
	StrokeColor color.NRGBA
	StrokeWidth int
	EraserWidth int
}

// DefaultTools returns a black 5px pencil with a 20px eraser.
func DefaultTools() ToolState {
	return ToolState{
		Mode:        ModePencil,
		StrokeColor: color.NRGBA{A: 0xff},
		StrokeWidth: DefaultStrokeWidth,
		EraserWidth: DefaultEraserWidth,
	}
}

// clampWidth keeps tool sizes positive.
func clampWidth(px int) int {
	return max(px, 1)
}

// ParseHexColor parses "#rrggbb" or "#rgb". The leading '#' is optional.
func ParseHexColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: %q: %w", ErrInvalidColor, s, err)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// FormatHexColor renders c as "#rrggbb", dropping alpha.
func FormatHexColor(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
}
