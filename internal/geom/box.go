package geom

// Box is an axis aligned rectangle given by its edges. X0/Y0 is the top left.
//
// When a Box is used as a delta (see stroke.Path.MoveBounding) every field is
// an independent offset for that edge.
type Box struct {
	X0 float32 `json:"x0"`
	X1 float32 `json:"x1"`
	Y0 float32 `json:"y0"`
	Y1 float32 `json:"y1"`
}

// BoxAround returns the box of a single point padded by pad on every side.
func BoxAround(p Point, pad float32) Box {
	return Box{X0: p.X - pad, X1: p.X + pad, Y0: p.Y - pad, Y1: p.Y + pad}
}

func (b Box) Width() float32  { return b.X1 - b.X0 }
func (b Box) Height() float32 { return b.Y1 - b.Y0 }

func (b Box) Center() (float32, float32) {
	return (b.X0 + b.X1) / 2, (b.Y0 + b.Y1) / 2
}

// Fold grows b so it contains p padded by pad.
func (b Box) Fold(p Point, pad float32) Box {
	if p.X-pad < b.X0 {
		b.X0 = p.X - pad
	}
	if p.X+pad > b.X1 {
		b.X1 = p.X + pad
	}
	if p.Y-pad < b.Y0 {
		b.Y0 = p.Y - pad
	}
	if p.Y+pad > b.Y1 {
		b.Y1 = p.Y + pad
	}
	return b
}

// Union returns the smallest box containing both.
func (b Box) Union(o Box) Box {
	if o.X0 < b.X0 {
		b.X0 = o.X0
	}
	if o.X1 > b.X1 {
		b.X1 = o.X1
	}
	if o.Y0 < b.Y0 {
		b.Y0 = o.Y0
	}
	if o.Y1 > b.Y1 {
		b.Y1 = o.Y1
	}
	return b
}

// Offset translates the whole box.
func (b Box) Offset(dx, dy float32) Box {
	return Box{X0: b.X0 + dx, X1: b.X1 + dx, Y0: b.Y0 + dy, Y1: b.Y1 + dy}
}

// Shift adds a per-edge delta.
func (b Box) Shift(d Box) Box {
	return Box{X0: b.X0 + d.X0, X1: b.X1 + d.X1, Y0: b.Y0 + d.Y0, Y1: b.Y1 + d.Y1}
}

// Neg negates every edge; used to invert a Shift delta.
func (b Box) Neg() Box {
	return Box{X0: -b.X0, X1: -b.X1, Y0: -b.Y0, Y1: -b.Y1}
}

func (b Box) IsZero() bool {
	return b == Box{}
}

// Contains reports whether (x,y) lies inside b, edges included.
func (b Box) Contains(x, y float32) bool {
	return x >= b.X0 && x <= b.X1 && y >= b.Y0 && y <= b.Y1
}

// Encloses reports whether o lies entirely inside b, edges included.
func (b Box) Encloses(o Box) bool {
	return o.X0 >= b.X0 && o.X1 <= b.X1 && o.Y0 >= b.Y0 && o.Y1 <= b.Y1
}

// BoxSpanning is the box with corners (x0,y0) and (x1,y1) in any order.
func BoxSpanning(x0, y0, x1, y1 float32) Box {
	return Box{X0: min(x0, x1), X1: max(x0, x1), Y0: min(y0, y1), Y1: max(y0, y1)}
}

// Grow pads every side of b by pad.
func (b Box) Grow(pad float32) Box {
	return Box{X0: b.X0 - pad, X1: b.X1 + pad, Y0: b.Y0 - pad, Y1: b.Y1 + pad}
}
