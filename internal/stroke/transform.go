package stroke

import "LocalSketch/internal/geom"

// AddOffset translates every point, the outline and the bounding box.
func (s *Path) AddOffset(dx, dy float32) {
	if dx == 0 && dy == 0 {
		return
	}
	d := geom.Vec{X: dx, Y: dy}
	for i := range s.points {
		s.points[i] = s.points[i].Add(d)
	}
	s.start = s.start.Add(d)
	s.bounding = s.bounding.Offset(dx, dy)
	if s.outline != nil {
		s.outline.offset(d)
	}
}

// MoveBounding drags the edges of the bounding box by the four offsets in
// delta, the way a resize handle does, and stretches the points so they
// fill the new box. MoveBounding(d) followed by MoveBounding(d.Neg())
// restores the stroke.
func (s *Path) MoveBounding(delta geom.Box) {
	if len(s.points) == 0 || delta.IsZero() {
		return
	}
	old := s.bounding
	moved := old.Shift(delta)

	shift := geom.Vec{X: delta.X0, Y: delta.Y0}
	for i := range s.points {
		s.points[i] = s.points[i].Add(shift)
	}

	if dw := delta.X1 - delta.X0; dw != 0 && old.Width() != 0 {
		sx := (old.Width() + dw) / old.Width()
		for i := range s.points {
			s.points[i].X = moved.X0 + (s.points[i].X-moved.X0)*sx
		}
	}
	if dh := delta.Y1 - delta.Y0; dh != 0 && old.Height() != 0 {
		sy := (old.Height() + dh) / old.Height()
		for i := range s.points {
			s.points[i].Y = moved.Y0 + (s.points[i].Y-moved.Y0)*sy
		}
	}

	s.start = s.points[0]
	s.bounding = moved
	s.regenerateOutline()
}
