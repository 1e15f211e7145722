// Package geom holds the small value types shared by the stroke engine.
package geom

import "github.com/chewxy/math32"

// Point is a single sample of a stroke. Pressure is in [0,1].
type Point struct {
	X        float32 `json:"x"`
	Y        float32 `json:"y"`
	Pressure float32 `json:"p"`
}

// Vec is a plain 2D offset.
type Vec struct {
	X, Y float32
}

func (p Point) Sub(q Point) Vec {
	return Vec{X: p.X - q.X, Y: p.Y - q.Y}
}

// Add returns p translated by v, keeping its pressure.
func (p Point) Add(v Vec) Point {
	return Point{X: p.X + v.X, Y: p.Y + v.Y, Pressure: p.Pressure}
}

func (v Vec) Dot(w Vec) float32   { return v.X*w.X + v.Y*w.Y }
func (v Vec) Cross(w Vec) float32 { return v.X*w.Y - v.Y*w.X }
func (v Vec) Len() float32        { return math32.Hypot(v.X, v.Y) }
func (v Vec) Len2() float32       { return v.X*v.X + v.Y*v.Y }
func (v Vec) Neg() Vec            { return Vec{X: -v.X, Y: -v.Y} }

// Dist returns the euclidean distance between two points.
func Dist(a, b Point) float32 {
	return a.Sub(b).Len()
}

// ClampPressure pins a raw pointer pressure into [0,1]. Devices that do not
// report pressure send 0, which is treated as full pressure.
func ClampPressure(p float32) float32 {
	switch {
	case math32.IsNaN(p) || p <= 0:
		return 1
	case p > 1:
		return 1
	}
	return p
}
