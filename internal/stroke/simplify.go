package stroke

import (
	"LocalSketch/internal/geom"

	"github.com/chewxy/math32"
)

const (
	// straightAngle is the turn, in radians, below which a run counts as
	// straight when both neighbouring segments are of similar length.
	straightAngle  = 0.3
	maxLengthRatio = 5
)

// Finalize ends the gesture: it simplifies the point buffer, computes the
// bounding box, and for Pressure strokes rebuilds the outline. Calling it
// twice is a no-op.
func (s *Path) Finalize() {
	if s.finalized {
		return
	}
	s.finalized = true
	if len(s.points) == 0 {
		return
	}
	s.simplify()
	s.regenerateOutline()
}

// simplify runs one forward pass over the points. From an anchor c0 it looks
// at c1 and two candidates c2, c3 that lie r points further on. If the path
// bends only a little at c1 and c2, and in opposite directions, c2 is
// dropped and the window grows. Otherwise c1 becomes the new anchor. Every
// point that survives is folded into the bounding box.
func (s *Path) simplify() {
	pts := s.points
	n := len(pts)
	half := s.width / 2
	drop := make([]bool, n)

	c0 := pts[0]
	box := geom.BoxAround(c0, half)
	i, r := 1, 0
	for i+r+2 < n {
		c1, c2, c3 := pts[i], pts[i+r+1], pts[i+r+2]

		a1 := turnAngle(c0, c1, c2)
		a2 := turnAngle(c1, c2, c3)
		ratio := lengthRatio(c2.Sub(c1), c3.Sub(c2))

		limit := straightAngle + ratio/maxLengthRatio
		if math32.Max(math32.Abs(a1), math32.Abs(a2)) < limit && a1*a2 <= 0 {
			drop[i+r+1] = true
			r++
			continue
		}
		c0 = c1
		box = box.Fold(c1, half)
		i += r + 1
		r = 0
	}
	// the current anchor candidate and anything after it were never committed
	for j := i; j < n; j++ {
		if !drop[j] {
			box = box.Fold(pts[j], half)
		}
	}

	kept := pts[:0]
	for j, p := range pts {
		if !drop[j] {
			kept = append(kept, p)
		}
	}
	s.points = kept
	s.start = kept[0]
	s.bounding = box
}

// turnAngle is the signed angle between p0->p1 and p1->p2, in (-π, π].
func turnAngle(p0, p1, p2 geom.Point) float32 {
	v0 := p1.Sub(p0)
	v1 := p2.Sub(p1)
	return math32.Atan2(v0.Cross(v1), v0.Dot(v1))
}

// lengthRatio compares the squared lengths of two neighbouring segments.
// Short trailing segments give a high ratio, which loosens the angle limit.
func lengthRatio(v1, v2 geom.Vec) float32 {
	l2 := v2.Len2()
	if l2 == 0 {
		return maxLengthRatio
	}
	d := v1.Len2()/l2/10 - 1
	switch {
	case d < 0:
		return 0
	case d > maxLengthRatio:
		return maxLengthRatio
	}
	return d
}
