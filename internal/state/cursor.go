package state

// CursorPreview places the eraser outline that replaces the system cursor.
// X and Y are the top-left corner in viewport coordinates.
type CursorPreview struct {
	Visible bool
	X, Y    float32
	Size    float32
}

// Preview centers an eraser-sized square on the raw pointer position. It is
// hidden in pencil mode.
func Preview(tools ToolState, raw Point) CursorPreview {
	if tools.Mode != ModeEraser {
		return CursorPreview{}
	}
	size := float32(clampWidth(tools.EraserWidth))
	return CursorPreview{
		Visible: true,
		X:       raw.X - size/2,
		Y:       raw.Y - size/2,
		Size:    size,
	}
}
