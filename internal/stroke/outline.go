package stroke

import (
	"LocalSketch/internal/geom"

	"github.com/chewxy/math32"
)

// outline holds the two edges of a variable width ribbon. left[i] and
// right[i] both belong to points[i].
type outline struct {
	left, right []geom.Point
}

func (o *outline) clone() *outline {
	c := &outline{
		left:  make([]geom.Point, len(o.left)),
		right: make([]geom.Point, len(o.right)),
	}
	copy(c.left, o.left)
	copy(c.right, o.right)
	return c
}

func (o *outline) reset() {
	o.left = o.left[:0]
	o.right = o.right[:0]
}

func (o *outline) push(p geom.Point, off geom.Vec) {
	o.left = append(o.left, p.Add(off))
	o.right = append(o.right, p.Add(off.Neg()))
}

func (o *outline) offset(d geom.Vec) {
	for i := range o.left {
		o.left[i] = o.left[i].Add(d)
	}
	for i := range o.right {
		o.right[i] = o.right[i].Add(d)
	}
}

// extend adds the edge points for the newest segment while a gesture runs.
// The second point also emits the first point's pair, using the same angle.
func (o *outline) extend(points []geom.Point, width float32) {
	n := len(points)
	if n < 2 {
		return
	}
	a, b := points[n-2], points[n-1]
	if n == 2 {
		o.push(a, normal(a, b, pressureHalfWidth(width, a.Pressure)))
	}
	o.push(b, normal(a, b, pressureHalfWidth(width, b.Pressure)))
}

// regenerateOutline rebuilds the outline from scratch. Simplification and
// resizing move point indices, so the incremental outline is stale after them.
func (s *Path) regenerateOutline() {
	if s.outline == nil {
		return
	}
	s.outline.reset()
	for i := 1; i < len(s.points); i++ {
		s.outline.extend(s.points[:i+1], s.width)
	}
}

// Outline returns the outline as one closed polygon: the left edge forward,
// then the right edge backward. It is nil for Basic strokes.
func (s *Path) Outline() []geom.Point {
	if s.outline == nil {
		return nil
	}
	o := s.outline
	poly := make([]geom.Point, 0, len(o.left)+len(o.right))
	poly = append(poly, o.left...)
	for i := len(o.right) - 1; i >= 0; i-- {
		poly = append(poly, o.right[i])
	}
	return poly
}

// pressureHalfWidth is the edge offset for a sample of the given pressure.
func pressureHalfWidth(width, pressure float32) float32 {
	return math32.Max(1, math32.Floor(math32.Pow(width*pressure, 1.15)))
}

// normal is the unit perpendicular to the travel direction a->b, scaled by
// half.
func normal(a, b geom.Point, half float32) geom.Vec {
	ang := math32.Atan2(b.Y-a.Y, b.X-a.X)
	return geom.Vec{X: -math32.Sin(ang) * half, Y: math32.Cos(ang) * half}
}

// Ribbon builds a closed polygon around a polyline, offsetting every point
// perpendicular to its incoming segment by halfWidth(point). Fewer than two
// points produce nil.
func Ribbon(points []geom.Point, halfWidth func(geom.Point) float32) []geom.Point {
	n := len(points)
	if n < 2 {
		return nil
	}
	left := make([]geom.Point, 0, n)
	right := make([]geom.Point, 0, n)
	for i, p := range points {
		a, b := p, p
		if i == 0 {
			b = points[1]
		} else {
			a = points[i-1]
		}
		off := normal(a, b, halfWidth(p))
		left = append(left, p.Add(off))
		right = append(right, p.Add(off.Neg()))
	}
	for i := n - 1; i >= 0; i-- {
		left = append(left, right[i])
	}
	return left
}
