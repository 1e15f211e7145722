package stroke

import (
	"LocalSketch/internal/geom"

	"github.com/chewxy/math32"
)

// DistanceTo returns the shortest distance from (x,y) to the polyline. An
// empty stroke is infinitely far away.
func (s *Path) DistanceTo(x, y float32) float32 {
	q := geom.Point{X: x, Y: y}
	switch len(s.points) {
	case 0:
		return math32.Inf(1)
	case 1:
		return geom.Dist(q, s.points[0])
	}

	shortest := math32.Inf(1)
	for i := 1; i < len(s.points); i++ {
		if d := segmentDistance(q, s.points[i-1], s.points[i]); d < shortest {
			shortest = d
		}
	}
	return shortest
}

// segmentDistance is the distance from p to the segment a-b. The foot of the
// perpendicular is inside the segment only if both end angles are acute;
// otherwise the nearer endpoint wins.
func segmentDistance(p, a, b geom.Point) float32 {
	u := p.Sub(a)
	v := b.Sub(a)
	w := p.Sub(b)

	if u.Dot(v) <= 0 {
		return u.Len()
	}
	if v.Neg().Dot(w) <= 0 {
		return w.Len()
	}
	return math32.Abs(u.Cross(v)) / v.Len()
}
