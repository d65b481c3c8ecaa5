package state

import "image/color"

// Canvas is the painting target of a PointerSession.
type Canvas interface {
	PaintSegment(x0, y0, x1, y1 float32, c color.Color, width float32)
	ClearRegion(cx, cy, size float32)
}

// Phase is the PointerSession state.
type Phase int

const (
	Idle Phase = iota
	Stroking
)

func (p Phase) String() string {
	if p == Stroking {
		return "stroking"
	}
	return "idle"
}

// PointerSession turns a sequence of pointer events into strokes or erasures.
// Points are in surface space. The tool state is read on every event, so a
// change of mode, color or width takes effect immediately and only for what
// is painted afterwards.
//
// Pencil moves paint a segment from the previous point. Eraser moves stamp an
// independent square at each point without interpolating, so fast eraser
// motion leaves gaps.
type PointerSession struct {
	phase   Phase
	last    Point
	hasLast bool
}

func (s *PointerSession) Phase() Phase { return s.phase }

// LastPoint returns the end of the previous segment, if any.
func (s *PointerSession) LastPoint() (Point, bool) {
	return s.last, s.hasLast
}

// Down starts a stroke at p and stamps it, so a click without a drag still
// leaves a dot or an erased square. It reports whether c was modified.
func (s *PointerSession) Down(p Point, tools ToolState, c Canvas) bool {
	s.phase = Stroking
	s.hasLast = false
	s.stamp(p, p, tools, c)
	s.last, s.hasLast = p, true
	return true
}

// Move continues the current stroke. It is ignored while idle.
func (s *PointerSession) Move(p Point, tools ToolState, c Canvas) bool {
	if s.phase != Stroking {
		return false
	}
	from := p
	if s.hasLast {
		from = s.last
	}
	s.stamp(from, p, tools, c)
	s.last, s.hasLast = p, true
	return true
}

// Up ends the stroke. The next Down starts fresh and never connects to the
// end of this one.
func (s *PointerSession) Up() {
	s.phase = Idle
	s.hasLast = false
}

// Leave handles the pointer leaving the tracked area. The stroke ends as if
// the button had been released, since the matching up event may never arrive.
func (s *PointerSession) Leave() {
	s.Up()
}

func (s *PointerSession) stamp(from, to Point, tools ToolState, c Canvas) {
	switch tools.Mode {
	case ModeEraser:
		c.ClearRegion(to.X, to.Y, float32(clampWidth(tools.EraserWidth)))
	default:
		c.PaintSegment(from.X, from.Y, to.X, to.Y, tools.StrokeColor, float32(clampWidth(tools.StrokeWidth)))
	}
}
