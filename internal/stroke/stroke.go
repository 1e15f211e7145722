// Package stroke implements the stroke entity: a point buffer that is
// smoothed while it is drawn, simplified once it is finished, and can be
// hit-tested, moved and resized afterwards.
package stroke

import (
	"image/color"

	"LocalSketch/internal/geom"
)

// Kind selects the stroke variant. It is fixed at construction.
type Kind uint8

const (
	// Basic strokes are drawn as a constant width polyline.
	Basic Kind = iota
	// Pressure strokes carry a variable width outline built from pointer pressure.
	Pressure
)

func (k Kind) String() string {
	switch k {
	case Basic:
		return "basic"
	case Pressure:
		return "pressure"
	}
	return "unknown"
}

// ParseKind is the inverse of Kind.String. Unknown names map to Basic.
func ParseKind(s string) Kind {
	if s == "pressure" {
		return Pressure
	}
	return Basic
}

// Path is one continuous pointer gesture.
//
// A Path is mutated by AddPoint while the gesture runs and frozen by
// Finalize. After that only AddOffset and MoveBounding change its geometry.
type Path struct {
	id        uint64
	kind      Kind
	points    []geom.Point
	start     geom.Point
	color     color.NRGBA
	width     float32
	bounding  geom.Box
	outline   *outline // nil unless kind == Pressure
	finalized bool
}

// New returns an empty stroke. The id must come from the caller's allocator.
func New(id uint64, kind Kind, c color.NRGBA, width float32) *Path {
	if width <= 0 {
		width = 1
	}
	s := &Path{
		id:    id,
		kind:  kind,
		color: c,
		width: width,
	}
	if kind == Pressure {
		s.outline = &outline{}
	}
	return s
}

// Restore rebuilds a finished stroke from stored points. The points are
// taken as they are: no smoothing and no simplification. Bounding box and
// outline are derived again.
func Restore(id uint64, kind Kind, c color.NRGBA, width float32, points []geom.Point) *Path {
	s := New(id, kind, c, width)
	s.points = make([]geom.Point, len(points))
	copy(s.points, points)
	if len(s.points) > 0 {
		s.start = s.points[0]
	}
	s.finalized = true
	s.recomputeBounding()
	s.regenerateOutline()
	return s
}

// AddPoint appends a sample. From the third sample on, the previous sample is
// replaced by the midpoint of the quadratic Bézier through the last two
// samples and the new one. It returns false, and does nothing, once the
// stroke is finalized.
func (s *Path) AddPoint(x, y, pressure float32) bool {
	if s.finalized {
		return false
	}
	p := geom.Point{X: x, Y: y, Pressure: geom.ClampPressure(pressure)}
	half := s.width / 2

	n := len(s.points)
	if n == 0 {
		s.start = p
		s.bounding = geom.BoxAround(p, half)
	} else {
		s.bounding = s.bounding.Fold(p, half)
	}
	if n >= 2 {
		s.points[n-1] = bezierMid(s.points[n-2], s.points[n-1], p)
	}
	s.points = append(s.points, p)

	if s.outline != nil {
		s.outline.extend(s.points, s.width)
	}
	return true
}

// bezierMid evaluates the quadratic Bézier (p0,p1,p2) at t=0.5. It lies in
// the convex hull of the three points, so a box holding them still holds it.
func bezierMid(p0, p1, p2 geom.Point) geom.Point {
	return geom.Point{
		X:        0.25*p0.X + 0.5*p1.X + 0.25*p2.X,
		Y:        0.25*p0.Y + 0.5*p1.Y + 0.25*p2.Y,
		Pressure: p1.Pressure,
	}
}

// Clone returns a deep copy that shares no memory with s.
func (s *Path) Clone() *Path {
	c := *s
	c.points = make([]geom.Point, len(s.points))
	copy(c.points, s.points)
	if s.outline != nil {
		c.outline = s.outline.clone()
	}
	return &c
}

func (s *Path) ID() uint64           { return s.id }
func (s *Path) Kind() Kind           { return s.kind }
func (s *Path) Color() color.NRGBA   { return s.color }
func (s *Path) Width() float32       { return s.width }
func (s *Path) Start() geom.Point    { return s.start }
func (s *Path) Len() int             { return len(s.points) }
func (s *Path) IsEmpty() bool        { return len(s.points) == 0 }
func (s *Path) Finalized() bool      { return s.finalized }
func (s *Path) Bounding() geom.Box   { return s.bounding }
func (s *Path) Points() []geom.Point { return s.points }

// Polygon returns a closed polygon suitable for filling: the pressure
// outline for Pressure strokes, a constant width ribbon otherwise.
func (s *Path) Polygon() []geom.Point {
	if s.outline != nil {
		return s.Outline()
	}
	return Ribbon(s.points, func(geom.Point) float32 { return s.width / 2 })
}

func (s *Path) recomputeBounding() {
	if len(s.points) == 0 {
		s.bounding = geom.Box{}
		return
	}
	half := s.width / 2
	b := geom.BoxAround(s.points[0], half)
	for _, p := range s.points[1:] {
		b = b.Fold(p, half)
	}
	s.bounding = b
}
