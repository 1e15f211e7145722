package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapperRoundTrip(t *testing.T) {
	views := []struct {
		name   string
		offset Vec
		scale  float32
	}{
		{"identity", Vec{}, 1},
		{"panned", Vec{X: -250, Y: 130}, 1},
		{"zoomed in", Vec{X: 12, Y: -7}, 3.5},
		{"zoomed out", Vec{X: 400, Y: 400}, 0.25},
	}
	points := []Vec{{0, 0}, {1, 1}, {640, 480}, {-35.5, 1200}, {1919, 3}}

	for _, v := range views {
		t.Run(v.name, func(t *testing.T) {
			m := NewMapper()
			m.Offset = v.offset
			m.Scale = v.scale
			for _, p := range points {
				rx, ry := m.ToRelative(p.X, p.Y)
				ax, ay := m.ToAbsolute(rx, ry)
				assert.InDelta(t, p.X, ax, 1e-2)
				assert.InDelta(t, p.Y, ay, 1e-2)
			}
		})
	}
}

func TestMapperZoomKeepsAnchor(t *testing.T) {
	m := NewMapper()
	m.Offset = Vec{X: 100, Y: 50}

	bx, by := m.ToRelative(300, 200)
	m.ZoomAt(2, 300, 200)
	ax, ay := m.ToRelative(300, 200)

	assert.Equal(t, float32(2), m.Scale)
	assert.InDelta(t, bx, ax, 1e-3)
	assert.InDelta(t, by, ay, 1e-3)
}

func TestMapperZoomClamps(t *testing.T) {
	m := NewMapper()
	m.ZoomAt(1000, 0, 0)
	assert.Equal(t, float32(DefaultMaxScale), m.Scale)
	m.ZoomAt(0.00001, 0, 0)
	assert.Equal(t, float32(DefaultMinScale), m.Scale)

	m.ZoomAt(0, 0, 0)
	assert.Equal(t, float32(DefaultMinScale), m.Scale, "non-positive factor is ignored")
}

func TestMapperPan(t *testing.T) {
	m := NewMapper()
	m.Scale = 2
	m.Pan(20, -10)
	assert.Equal(t, Vec{X: -10, Y: 5}, m.Offset)

	x, y := m.ToDevice(0, 0)
	assert.Equal(t, float32(20), x)
	assert.Equal(t, float32(-10), y)
}

func TestBoxOps(t *testing.T) {
	b := BoxAround(Point{X: 1, Y: 2}, 1)
	assert.Equal(t, Box{X0: 0, X1: 2, Y0: 1, Y1: 3}, b)

	b = b.Fold(Point{X: 10, Y: -4}, 1)
	assert.Equal(t, Box{X0: 0, X1: 11, Y0: -5, Y1: 3}, b)

	d := Box{X0: 1, X1: 2, Y0: -1, Y1: 3}
	assert.Equal(t, b, b.Shift(d).Shift(d.Neg()))
	assert.True(t, b.Contains(5, 0))
	assert.False(t, b.Contains(12, 0))
	assert.Equal(t, Box{X0: -1, X1: 11, Y0: -5, Y1: 4}, b.Union(Box{X0: -1, X1: 3, Y0: 0, Y1: 4}))
}

func TestBoxSpanningAndEncloses(t *testing.T) {
	band := BoxSpanning(10, 20, -10, -5)
	assert.Equal(t, Box{X0: -10, X1: 10, Y0: -5, Y1: 20}, band)
	assert.True(t, band.Encloses(Box{X0: -2, X1: 3, Y0: 0, Y1: 4}))
	assert.True(t, band.Encloses(band))
	assert.False(t, band.Encloses(Box{X0: -2, X1: 11, Y0: 0, Y1: 4}))
}

func TestClampPressure(t *testing.T) {
	assert.Equal(t, float32(1), ClampPressure(0))
	assert.Equal(t, float32(0.4), ClampPressure(0.4))
	assert.Equal(t, float32(1), ClampPressure(7))
}
