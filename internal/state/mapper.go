package state

// Bounds is an on-screen rectangle.
type Bounds struct {
	X      float32
	Y      float32
	Width  float32
	Height float32
}

// Origin returns the top-left corner.
func (b Bounds) Origin() Point {
	return Point{X: b.X, Y: b.Y}
}

// Contains reports whether p lies inside b, edges included.
func (b Bounds) Contains(p Point) bool {
	return p.X >= b.X && p.X <= b.X+b.Width &&
		p.Y >= b.Y && p.Y <= b.Y+b.Height
}

// Map converts a viewport position into surface-local coordinates given the
// surface's current top-left offset in the viewport. The offset changes when
// the surface scrolls or is resized, so callers pass a fresh one per event.
func Map(raw, origin Point) Point {
	return raw.Sub(origin)
}
