// Package export renders strokes to raster images, PNG files and PDF
// documents. The raster renderer also backs the on-screen widget.
package export

import (
	"image"
	"image/color"
	"image/draw"

	"LocalSketch/internal/geom"
	"LocalSketch/internal/stroke"

	"github.com/chewxy/math32"
	"golang.org/x/image/vector"
)

// Renderer fills stroke polygons into an RGBA image.
type Renderer struct {
	image *image.RGBA
	ras   *vector.Rasterizer
}

func NewRenderer(w, h int) *Renderer {
	r := &Renderer{ras: &vector.Rasterizer{}}
	r.Resize(w, h)
	return r
}

func (r *Renderer) Image() *image.RGBA { return r.image }

// Resize reallocates the target when the size changed.
func (r *Renderer) Resize(w, h int) {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	if r.image != nil && r.image.Rect.Dx() == w && r.image.Rect.Dy() == h {
		return
	}
	r.image = image.NewRGBA(image.Rect(0, 0, w, h))
}

// Clear paints the whole target with bg.
func (r *Renderer) Clear(bg color.Color) {
	draw.Draw(r.image, r.image.Rect, image.NewUniform(bg), image.Point{}, draw.Src)
}

// DrawStroke fills the stroke's polygon mapped through m to device pixels.
// Strokes with a single point are drawn as a dot of the stroke width.
func (r *Renderer) DrawStroke(s *stroke.Path, m geom.Mapper) {
	if s == nil || s.IsEmpty() {
		return
	}
	poly := s.Polygon()
	if len(poly) == 0 {
		p := s.Start()
		poly = dot(p, s.Width()/2)
	}
	r.fill(poly, m, s.Color())
}

// DrawStrokes draws strokes in order, so later strokes end up on top.
func (r *Renderer) DrawStrokes(strokes []*stroke.Path, m geom.Mapper) {
	for _, s := range strokes {
		r.DrawStroke(s, m)
	}
}

// DrawBox outlines a content box with a line of the given device width.
func (r *Renderer) DrawBox(b geom.Box, m geom.Mapper, lineWidth float32, c color.Color) {
	x0, y0 := m.ToDevice(b.X0, b.Y0)
	x1, y1 := m.ToDevice(b.X1, b.Y1)
	h := lineWidth / 2
	r.rect(x0-h, y0-h, x1+h, y0+h, c)
	r.rect(x0-h, y1-h, x1+h, y1+h, c)
	r.rect(x0-h, y0-h, x0+h, y1+h, c)
	r.rect(x1-h, y0-h, x1+h, y1+h, c)
}

// DrawGrid draws content-space grid lines every spacing units. Nothing is
// drawn once lines would be closer than 4 device pixels.
func (r *Renderer) DrawGrid(m geom.Mapper, spacing float32, c color.Color) {
	if spacing <= 0 || spacing*m.Scale*m.PixelRatio < 4 {
		return
	}
	w, h := float32(r.image.Rect.Dx()), float32(r.image.Rect.Dy())
	ratio := m.Scale * m.PixelRatio
	left, top := m.Offset.X, m.Offset.Y
	right, bottom := left+w/ratio, top+h/ratio

	for x := math32.Floor(left/spacing) * spacing; x <= right; x += spacing {
		dx, _ := m.ToDevice(x, 0)
		r.rect(dx-0.5, 0, dx+0.5, h, c)
	}
	for y := math32.Floor(top/spacing) * spacing; y <= bottom; y += spacing {
		_, dy := m.ToDevice(0, y)
		r.rect(0, dy-0.5, w, dy+0.5, c)
	}
}

func (r *Renderer) fill(poly []geom.Point, m geom.Mapper, c color.Color) {
	b := r.image.Rect
	r.ras.Reset(b.Dx(), b.Dy())
	for i, p := range poly {
		x, y := m.ToDevice(p.X, p.Y)
		if i == 0 {
			r.ras.MoveTo(x, y)
			continue
		}
		r.ras.LineTo(x, y)
	}
	r.ras.ClosePath()
	r.ras.Draw(r.image, b, image.NewUniform(c), image.Point{})
}

func (r *Renderer) rect(x0, y0, x1, y1 float32, c color.Color) {
	b := r.image.Rect
	r.ras.Reset(b.Dx(), b.Dy())
	r.ras.MoveTo(x0, y0)
	r.ras.LineTo(x1, y0)
	r.ras.LineTo(x1, y1)
	r.ras.LineTo(x0, y1)
	r.ras.ClosePath()
	r.ras.Draw(r.image, b, image.NewUniform(c), image.Point{})
}

// dot approximates a disc with an octagon.
func dot(p geom.Point, radius float32) []geom.Point {
	const sides = 8
	out := make([]geom.Point, sides)
	for i := range out {
		a := float32(i) * 2 * math32.Pi / sides
		out[i] = geom.Point{X: p.X + radius*math32.Cos(a), Y: p.Y + radius*math32.Sin(a), Pressure: p.Pressure}
	}
	return out
}

// Rasterize draws strokes on a w x h image filled with bg.
func Rasterize(strokes []*stroke.Path, m geom.Mapper, w, h int, bg color.Color) *image.RGBA {
	r := NewRenderer(w, h)
	r.Clear(bg)
	r.DrawStrokes(strokes, m)
	return r.Image()
}

// Bounds returns the union of the strokes' bounding boxes, and false if
// there is no non-empty stroke.
func Bounds(strokes []*stroke.Path) (geom.Box, bool) {
	var box geom.Box
	found := false
	for _, s := range strokes {
		if s == nil || s.IsEmpty() {
			continue
		}
		if !found {
			box, found = s.Bounding(), true
			continue
		}
		box = box.Union(s.Bounding())
	}
	return box, found
}

// FitMapper returns a view that shows box inside a w x h target with margin
// on every side, preserving the aspect ratio.
func FitMapper(box geom.Box, w, h, margin float32) geom.Mapper {
	m := *geom.NewMapper()
	m.MinScale, m.MaxScale = 0, 0
	bw, bh := box.Width(), box.Height()
	if bw <= 0 {
		bw = 1
	}
	if bh <= 0 {
		bh = 1
	}
	m.Scale = math32.Min((w-2*margin)/bw, (h-2*margin)/bh)
	if m.Scale <= 0 {
		m.Scale = 1
	}
	// centre the box in the target
	padX := (w - bw*m.Scale) / 2
	padY := (h - bh*m.Scale) / 2
	m.Offset = geom.Vec{X: box.X0 - padX/m.Scale, Y: box.Y0 - padY/m.Scale}
	return m
}
