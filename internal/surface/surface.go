package surface

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"

	"golang.org/x/image/vector"
)

// kappa places cubic Bézier control points for a quarter circle.
const kappa = float32(0.5522847498)

// Surface is the raster buffer strokes are painted onto. The zero value is
// an empty 0x0 surface.
type Surface struct {
	mu  sync.RWMutex
	img *image.RGBA
	ras vector.Rasterizer
}

// New creates a transparent surface of the given pixel size.
func New(width, height int) *Surface {
	s := &Surface{}
	s.Resize(width, height)
	return s
}

// MaxSide bounds each buffer dimension. A full-size buffer is 1 GiB.
const MaxSide = 16384

// Resize reallocates the buffer. Everything painted so far is discarded.
// Dimensions are clamped to [0, MaxSide].
func (s *Surface) Resize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.img = image.NewRGBA(image.Rect(0, 0, min(max(width, 0), MaxSide), min(max(height, 0), MaxSide)))
}

// Size returns the buffer dimensions in pixels.
func (s *Surface) Size() (int, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.img == nil {
		return 0, 0
	}
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// PaintSegment draws a round-capped line of the given width from (x0, y0) to
// (x1, y1). A zero-length segment paints a dot of diameter width.
func (s *Surface) PaintSegment(x0, y0, x1, y1 float32, c color.Color, width float32) {
	if width <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.img == nil {
		return
	}

	r := width / 2
	box := image.Rect(
		floor(min(x0, x1)-r), floor(min(y0, y1)-r),
		ceil(max(x0, x1)+r), ceil(max(y0, y1)+r),
	).Intersect(s.img.Bounds())
	if box.Empty() {
		return
	}

	// The rasterizer covers only the segment's bounding box, so the path is
	// translated into box-local coordinates.
	ox, oy := float32(box.Min.X), float32(box.Min.Y)
	s.ras.Reset(box.Dx(), box.Dy())
	addCapsule(&s.ras, x0-ox, y0-oy, x1-ox, y1-oy, r)
	s.ras.DrawOp = draw.Over
	s.ras.Draw(s.img, box, image.NewUniform(c), image.Point{})
}

// ClearRegion resets a size x size square centered on (cx, cy) to full
// transparency.
func (s *Surface) ClearRegion(cx, cy, size float32) {
	if size <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.img == nil {
		return
	}
	x := int(math.Round(float64(cx - size/2)))
	y := int(math.Round(float64(cy - size/2)))
	side := int(math.Round(float64(size)))
	rect := image.Rect(x, y, x+side, y+side).Intersect(s.img.Bounds())
	if rect.Empty() {
		return
	}
	draw.Draw(s.img, rect, image.Transparent, image.Point{}, draw.Src)
}

// ClearAll resets the whole buffer to full transparency.
func (s *Surface) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.img != nil {
		clear(s.img.Pix)
	}
}

// Snapshot returns a copy of the current buffer.
func (s *Surface) Snapshot() *image.RGBA {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.img == nil {
		return image.NewRGBA(image.Rectangle{})
	}
	cp := image.NewRGBA(s.img.Bounds())
	copy(cp.Pix, s.img.Pix)
	return cp
}

// addCapsule adds the outline of a stadium shape of radius r around the
// segment (x0, y0)-(x1, y1). Degenerate segments become a circle.
func addCapsule(z *vector.Rasterizer, x0, y0, x1, y1, r float32) {
	dx, dy := x1-x0, y1-y0
	length := float32(math.Hypot(float64(dx), float64(dy)))
	if length < 1e-3 {
		addCircle(z, x0, y0, r)
		return
	}

	// u points along the segment, v is perpendicular to it; both have length r.
	ux, uy := dx/length*r, dy/length*r
	vx, vy := -uy, ux
	k := kappa

	z.MoveTo(x0+vx, y0+vy)
	z.LineTo(x1+vx, y1+vy)
	z.CubeTo(x1+vx+k*ux, y1+vy+k*uy, x1+ux+k*vx, y1+uy+k*vy, x1+ux, y1+uy)
	z.CubeTo(x1+ux-k*vx, y1+uy-k*vy, x1-vx+k*ux, y1-vy+k*uy, x1-vx, y1-vy)
	z.LineTo(x0-vx, y0-vy)
	z.CubeTo(x0-vx-k*ux, y0-vy-k*uy, x0-ux-k*vx, y0-uy-k*vy, x0-ux, y0-uy)
	z.CubeTo(x0-ux+k*vx, y0-uy+k*vy, x0+vx-k*ux, y0+vy-k*uy, x0+vx, y0+vy)
	z.ClosePath()
}

func addCircle(z *vector.Rasterizer, cx, cy, r float32) {
	kr := kappa * r
	z.MoveTo(cx, cy-r)
	z.CubeTo(cx+kr, cy-r, cx+r, cy-kr, cx+r, cy)
	z.CubeTo(cx+r, cy+kr, cx+kr, cy+r, cx, cy+r)
	z.CubeTo(cx-kr, cy+r, cx-r, cy+kr, cx-r, cy)
	z.CubeTo(cx-r, cy-kr, cx-kr, cy-r, cx, cy-r)
	z.ClosePath()
}

func floor(v float32) int { return int(math.Floor(float64(v))) }

func ceil(v float32) int { return int(math.Ceil(float64(v))) }
