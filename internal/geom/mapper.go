package geom

const (
	DefaultMinScale = 0.1
	DefaultMaxScale = 20
)

// Mapper converts between content (relative) coordinates, where stroke
// geometry is stored, and screen (absolute) coordinates. Pan and zoom only
// touch Offset and Scale, never stored geometry.
type Mapper struct {
	Offset Vec     // content coordinate shown at the screen origin
	Scale  float32 // screen units per content unit
	// PixelRatio is the device pixel ratio. It only affects ToDevice.
	PixelRatio float32

	MinScale, MaxScale float32
}

func NewMapper() *Mapper {
	return &Mapper{
		Scale:      1,
		PixelRatio: 1,
		MinScale:   DefaultMinScale,
		MaxScale:   DefaultMaxScale,
	}
}

// ToRelative maps a screen coordinate into content space.
func (m *Mapper) ToRelative(x, y float32) (float32, float32) {
	return x/m.Scale + m.Offset.X, y/m.Scale + m.Offset.Y
}

// ToAbsolute maps a content coordinate onto the screen. It is the exact
// inverse of ToRelative.
func (m *Mapper) ToAbsolute(x, y float32) (float32, float32) {
	return (x - m.Offset.X) * m.Scale, (y - m.Offset.Y) * m.Scale
}

// ToDevice maps a content coordinate to device pixels.
func (m *Mapper) ToDevice(x, y float32) (float32, float32) {
	ax, ay := m.ToAbsolute(x, y)
	return ax * m.PixelRatio, ay * m.PixelRatio
}

// BoxToAbsolute maps a content box onto the screen.
func (m *Mapper) BoxToAbsolute(b Box) Box {
	x0, y0 := m.ToAbsolute(b.X0, b.Y0)
	x1, y1 := m.ToAbsolute(b.X1, b.Y1)
	return Box{X0: x0, X1: x1, Y0: y0, Y1: y1}
}

// Pan moves the view by a screen space delta. Dragging right reveals
// content further left.
func (m *Mapper) Pan(dx, dy float32) {
	m.Offset.X -= dx / m.Scale
	m.Offset.Y -= dy / m.Scale
}

// ZoomAt multiplies the scale by factor while keeping the content point
// under the screen coordinate (x,y) fixed. The new scale is clamped.
func (m *Mapper) ZoomAt(factor, x, y float32) {
	if factor <= 0 {
		return
	}
	rx, ry := m.ToRelative(x, y)
	m.Scale = m.clamp(m.Scale * factor)
	m.Offset.X = rx - x/m.Scale
	m.Offset.Y = ry - y/m.Scale
}

// Reset returns to the identity view.
func (m *Mapper) Reset() {
	m.Offset = Vec{}
	m.Scale = 1
}

func (m *Mapper) clamp(s float32) float32 {
	if m.MinScale > 0 && s < m.MinScale {
		return m.MinScale
	}
	if m.MaxScale > 0 && s > m.MaxScale {
		return m.MaxScale
	}
	return s
}
