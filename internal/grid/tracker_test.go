package grid

import (
	"testing"

	"LocalSketch/internal/geom"

	"github.com/stretchr/testify/assert"
)

// raw is a Trackable that keeps its vertices exactly as given.
type raw struct {
	id  uint64
	pts []geom.Point
}

func (r *raw) ID() uint64           { return r.id }
func (r *raw) Points() []geom.Point { return r.pts }

func newRaw(id uint64, xy ...float32) *raw {
	r := &raw{id: id}
	for i := 0; i+1 < len(xy); i += 2 {
		r.pts = append(r.pts, geom.Point{X: xy[i], Y: xy[i+1], Pressure: 1})
	}
	return r
}

func verify(t *testing.T, tr *Tracker, x, y float32, want ...uint64) {
	t.Helper()
	if want == nil {
		want = []uint64{}
	}
	assert.Equal(t, want, tr.Query(x, y), "query(%v, %v)", x, y)
}

func TestEmptyTrackerUnequalSegments(t *testing.T) {
	tr := NewGriddedTracker(100, 100, 3, 3)
	for _, p := range [][2]float32{{55, 20}, {29, 0}, {78, 78}, {0, 0}, {0, 99}, {99, 0}, {99, 99}} {
		verify(t, tr, p[0], p[1])
	}
}

func TestRegisterOneStroke(t *testing.T) {
	s := newRaw(1, 20, 20, 32, 20, 95, 50)
	tr := NewGriddedTracker(100, 100, 10, 10)
	assert.True(t, tr.RegisterStroke(s))

	verify(t, tr, 25, 25, 1)
	verify(t, tr, 20, 20, 1)
	verify(t, tr, 39, 20, 1)
	verify(t, tr, 30, 29, 1)
	verify(t, tr, 90, 50, 1)
	verify(t, tr, 95, 50, 1)

	verify(t, tr, 19, 20)
	verify(t, tr, 40, 20)
	verify(t, tr, 20, 30)
	verify(t, tr, 30, 19)
	verify(t, tr, 90, 49)
	verify(t, tr, 90, 60)
	verify(t, tr, 0, 0)
	verify(t, tr, 99, 99)
}

func TestRegisterTwoStrokesApart(t *testing.T) {
	tr := NewGriddedTracker(100, 100, 10, 10)
	tr.RegisterStroke(newRaw(1, 20, 20, 32, 20, 95, 50))
	tr.RegisterStroke(newRaw(2, 5, 23, 47, 23))

	verify(t, tr, 20, 20, 1)
	verify(t, tr, 30, 20, 1)
	verify(t, tr, 90, 50, 1)
	verify(t, tr, 0, 20, 2)
	verify(t, tr, 40, 20, 2)
	verify(t, tr, 50, 50)
	verify(t, tr, 10, 20)
}

func threeOverlapping() (*Tracker, *raw, *raw, *raw) {
	s1 := newRaw(1, 20, 20, 32, 20, 95, 50)
	s2 := newRaw(2, 95, 40, 95, 50, 20, 20)
	s3 := newRaw(3, 95, 50, 95, 90)
	tr := NewGriddedTracker(100, 100, 10, 10)
	tr.RegisterStroke(s1)
	tr.RegisterStroke(s2)
	tr.RegisterStroke(s3)
	return tr, s1, s2, s3
}

func TestRegisterOverlappingKeepsOrder(t *testing.T) {
	tr, _, _, _ := threeOverlapping()

	verify(t, tr, 30, 20, 1)
	verify(t, tr, 90, 40, 2)
	verify(t, tr, 90, 90, 3)
	verify(t, tr, 20, 20, 1, 2)
	verify(t, tr, 90, 50, 1, 2, 3)
	verify(t, tr, 50, 50)
	verify(t, tr, 10, 20)
}

func TestRegisterIdempotent(t *testing.T) {
	s := newRaw(1, 54, 52, 20, 70)
	tr := NewGriddedTracker(100, 100, 10, 10)

	assert.False(t, tr.DeregisterStroke(s), "never registered")
	assert.True(t, tr.RegisterStroke(s))
	assert.False(t, tr.RegisterStroke(s))
	assert.Equal(t, 1, tr.Len())
	assert.True(t, tr.DeregisterStroke(s))
	assert.False(t, tr.DeregisterStroke(s))

	verify(t, tr, 50, 50)
	verify(t, tr, 20, 70)
	assert.False(t, tr.Has(1))
}

func TestDeregisterRepeatedVertices(t *testing.T) {
	s := newRaw(1, 50, 50, 50, 50, 54, 52, 20, 70)
	tr := NewGriddedTracker(100, 100, 10, 10)
	tr.RegisterStroke(s)
	verify(t, tr, 50, 50, 1)

	tr.DeregisterStroke(s)
	verify(t, tr, 50, 50)
	verify(t, tr, 20, 70)
}

func TestDeregisterOneOfTwo(t *testing.T) {
	tr := NewGriddedTracker(100, 100, 10, 10)
	tr.RegisterStroke(newRaw(1, 50, 30, 40, 20))
	s2 := newRaw(2, 53, 30, 60, 10)
	tr.RegisterStroke(s2)
	tr.DeregisterStroke(s2)

	verify(t, tr, 50, 30, 1)
	verify(t, tr, 40, 20, 1)
	verify(t, tr, 60, 10)
}

func TestDeregisterReverseOrder(t *testing.T) {
	tr, s1, s2, s3 := threeOverlapping()
	tr.DeregisterStroke(s3)
	tr.DeregisterStroke(s2)
	tr.DeregisterStroke(s1)

	for _, p := range [][2]float32{{30, 20}, {90, 40}, {90, 90}, {20, 20}, {90, 50}, {50, 50}, {10, 20}} {
		verify(t, tr, p[0], p[1])
	}
	assert.Zero(t, tr.Len())
}

func TestDeregisterUnderneathIsLIFO(t *testing.T) {
	tr, s1, s2, s3 := threeOverlapping()
	assert.True(t, tr.DeregisterStroke(s1))
	assert.False(t, tr.Has(1))

	// only cells where 1 was on top lose it
	verify(t, tr, 30, 20)
	verify(t, tr, 90, 40, 2)
	verify(t, tr, 90, 90, 3)
	verify(t, tr, 20, 20, 1, 2)
	verify(t, tr, 90, 50, 1, 2, 3)

	// the stale entry is reused when the id comes back, then removed with it
	tr.DeregisterStroke(s3)
	tr.DeregisterStroke(s2)
	verify(t, tr, 20, 20, 1)
	assert.True(t, tr.RegisterStroke(s1))
	verify(t, tr, 20, 20, 1)
	tr.DeregisterStroke(s1)
	verify(t, tr, 20, 20)
	verify(t, tr, 90, 50)
}

func TestOutOfRangeClamps(t *testing.T) {
	tr := NewGriddedTracker(100, 100, 10, 10)
	tr.RegisterStroke(newRaw(1, -50, -50, 250, 40))

	verify(t, tr, 0, 0, 1)
	verify(t, tr, 99, 45, 1)
	verify(t, tr, 1e9, 41, 1)

	col, row := tr.Cell(-1, 1000)
	assert.Equal(t, 0, col)
	assert.Equal(t, 9, row)
}

func TestOriginAndQueryBox(t *testing.T) {
	tr := NewGriddedTrackerAt(-100, -100, 200, 200, 4, 4)
	tr.RegisterStroke(newRaw(1, -90, -90))
	tr.RegisterStroke(newRaw(2, 10, 10, -10, -10))
	tr.RegisterStroke(newRaw(3, 90, 90))

	col, row := tr.Cell(-90, -90)
	assert.Equal(t, 0, col)
	assert.Equal(t, 0, row)

	assert.Equal(t, []uint64{2}, tr.QueryBox(geom.Box{X0: -20, X1: 20, Y0: -20, Y1: 20}))
	assert.ElementsMatch(t, []uint64{1, 2, 3}, tr.QueryBox(geom.Box{X0: -1000, X1: 1000, Y0: -1000, Y1: 1000}))
}

func TestDegenerateConstruction(t *testing.T) {
	tr := NewGriddedTracker(-5, 0, 0, -1)
	tr.RegisterStroke(newRaw(1, 3, 3))
	verify(t, tr, 1000, -1000, 1)
}
