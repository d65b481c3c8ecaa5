package state

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHexColor(t *testing.T) {
	cases := map[string]color.NRGBA{
		"#ff0000":   Red,
		"#0000FF":   Blue,
		"ffff00":    Yellow,
		"#fff":      {R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		" #123456 ": {R: 0x12, G: 0x34, B: 0x56, A: 0xff},
	}
	for in, want := range cases {
		got, err := ParseHexColor(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestParseHexColorRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "#12", "#12345", "#gggggg", "red"} {
		_, err := ParseHexColor(in)
		assert.ErrorIs(t, err, ErrInvalidColor, in)
	}
}

func TestFormatHexColorRoundTrips(t *testing.T) {
	assert.Equal(t, "#ff0000", FormatHexColor(Red))
	assert.Equal(t, "#000000", FormatHexColor(DefaultTools().StrokeColor))
	c, err := ParseHexColor(FormatHexColor(Yellow))
	require.NoError(t, err)
	assert.Equal(t, Yellow, c)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("Eraser")
	require.NoError(t, err)
	assert.Equal(t, ModeEraser, m)
	assert.Equal(t, "pencil", ModePencil.String())

	_, err = ParseMode("brush")
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestMapSubtractsOrigin(t *testing.T) {
	assert.Equal(t, Point{X: 5, Y: -2}, Map(Point{X: 15, Y: 8}, Point{X: 10, Y: 10}))
	assert.Equal(t, Point{X: 7, Y: 7}, Map(Point{X: 7, Y: 7}, Point{}))
}

func TestBoundsContains(t *testing.T) {
	b := Bounds{X: 10, Y: 10, Width: 20, Height: 20}
	assert.Equal(t, Point{X: 10, Y: 10}, b.Origin())
	assert.True(t, b.Contains(Point{X: 10, Y: 30}))
	assert.False(t, b.Contains(Point{X: 9, Y: 15}))
	assert.False(t, b.Contains(Point{X: 15, Y: 31}))
}

func TestPreview(t *testing.T) {
	tools := DefaultTools()
	assert.Equal(t, CursorPreview{}, Preview(tools, Point{X: 40, Y: 40}))

	tools.Mode = ModeEraser
	tools.EraserWidth = 16
	assert.Equal(t, CursorPreview{Visible: true, X: 32, Y: 12, Size: 16}, Preview(tools, Point{X: 40, Y: 20}))
}
