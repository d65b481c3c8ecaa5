package state

import (
	"image"
	"image/color"
	"log"
	"math"

	"LocalSketch/internal/surface"
)

// DefaultViewportScale leaves a small margin so the surface never causes
// scrollbars in its host view.
const DefaultViewportScale = 0.99

// DefaultMaxSurfaceSide caps each surface dimension. It fits a 5K display
// with room to spare.
const DefaultMaxSurfaceSide = 8192

// Board is one user's drawing: a surface plus the tool and pointer state
// driving it. A Board is mutated from a single goroutine; only Snapshot may
// be called concurrently.
type Board struct {
	surface *surface.Surface
	tools   ToolState
	session PointerSession
	scale   float64
	maxSide int

	// OnChange is called after every change to the surface.
	OnChange func()
}

// NewBoard returns an empty board. The surface stays 0x0 until the first
// ResizeViewport.
func NewBoard(tools ToolState) *Board {
	tools.StrokeWidth = clampWidth(tools.StrokeWidth)
	tools.EraserWidth = clampWidth(tools.EraserWidth)
	return &Board{
		surface: surface.New(0, 0),
		tools:   tools,
		scale:   DefaultViewportScale,
		maxSide: DefaultMaxSurfaceSide,
	}
}

// SetViewportScale changes the fraction of the viewport the surface covers.
// It applies from the next ResizeViewport.
func (b *Board) SetViewportScale(scale float64) {
	if scale > 0 {
		b.scale = scale
	}
}

// SetMaxSurfaceSide limits the surface dimensions set by ResizeViewport.
// Values above surface.MaxSide are lowered to it.
func (b *Board) SetMaxSurfaceSide(px int) {
	if px > 0 {
		b.maxSide = min(px, surface.MaxSide)
	}
}

// ResizeViewport fits the surface to a viewport of the given size. Painted
// content does not survive a resize. Each side is clamped to
// [0, max surface side]; NaN counts as 0.
func (b *Board) ResizeViewport(width, height float32) {
	w := b.side(width)
	h := b.side(height)
	b.surface.Resize(w, h)
	b.session.Up()
	log.Printf("[BOARD] Surface resized to %dx%d", w, h)
	b.changed()
}

func (b *Board) side(viewport float32) int {
	px := math.Floor(float64(viewport) * b.scale)
	if !(px > 0) {
		return 0
	}
	return int(min(px, float64(b.maxSide)))
}

// Size returns the surface size in pixels.
func (b *Board) Size() (int, int) {
	return b.surface.Size()
}

func (b *Board) Tools() ToolState { return b.tools }

func (b *Board) Phase() Phase { return b.session.Phase() }

func (b *Board) SetMode(m Mode) {
	if m != ModePencil && m != ModeEraser {
		return
	}
	b.tools.Mode = m
}

func (b *Board) SetStrokeColor(c color.NRGBA) {
	b.tools.StrokeColor = c
}

func (b *Board) SetStrokeWidth(px int) {
	b.tools.StrokeWidth = clampWidth(px)
}

func (b *Board) SetEraserWidth(px int) {
	b.tools.EraserWidth = clampWidth(px)
}

// PointerDown starts a stroke. raw is the pointer position in viewport
// coordinates and origin the surface's top-left corner in the same space.
func (b *Board) PointerDown(raw, origin Point) {
	if b.session.Down(Map(raw, origin), b.tools, b.surface) {
		b.changed()
	}
}

// PointerMove continues the active stroke, if any, and returns where the
// cursor preview should be drawn.
func (b *Board) PointerMove(raw, origin Point) CursorPreview {
	if b.session.Move(Map(raw, origin), b.tools, b.surface) {
		b.changed()
	}
	return Preview(b.tools, raw)
}

func (b *Board) PointerUp() {
	b.session.Up()
}

func (b *Board) PointerLeave() {
	b.session.Leave()
}

// ClearAll erases everything on the surface.
func (b *Board) ClearAll() {
	b.surface.ClearAll()
	b.changed()
}

// Snapshot returns a copy of the surface suitable for display or export.
func (b *Board) Snapshot() *image.RGBA {
	return b.surface.Snapshot()
}

func (b *Board) changed() {
	if b.OnChange != nil {
		b.OnChange()
	}
}
