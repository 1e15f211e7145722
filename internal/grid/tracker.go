// Package grid is a uniform grid index from canvas cells to the strokes
// that have a vertex in them. It only sees ids and coordinates.
package grid

import (
	"LocalSketch/internal/geom"

	"github.com/chewxy/math32"
)

// Trackable is anything with a stable id and a vertex list.
type Trackable interface {
	ID() uint64
	Points() []geom.Point
}

type cell struct {
	col, row int
}

// Tracker keeps, per cell, a stack of the ids registered there. The last
// element of a stack is the most recently registered stroke.
//
// Removal is LIFO per cell: a stroke is only popped from a cell where it is
// the top entry. Strokes sharing a cell must be deregistered in reverse
// registration order, otherwise a stale id stays in that cell until the
// entries above it are gone. Callers must check returned ids against their
// own store. A per-cell counted multiset would lift this restriction.
type Tracker struct {
	grid    [][][]uint64      // grid[col][row] is a stack of ids
	touched map[uint64][]cell // cells each registered id was pushed into

	originX, originY float32
	dimX, dimY       float32
	scaleX, scaleY   int
}

// NewGriddedTracker tracks the region [0,dimX) x [0,dimY) split into
// scaleX x scaleY cells.
func NewGriddedTracker(dimX, dimY float32, scaleX, scaleY int) *Tracker {
	return NewGriddedTrackerAt(0, 0, dimX, dimY, scaleX, scaleY)
}

// NewGriddedTrackerAt is NewGriddedTracker for a region whose top left
// corner is (x, y). Non-positive sizes are raised to 1.
func NewGriddedTrackerAt(x, y, dimX, dimY float32, scaleX, scaleY int) *Tracker {
	if dimX <= 0 {
		dimX = 1
	}
	if dimY <= 0 {
		dimY = 1
	}
	if scaleX < 1 {
		scaleX = 1
	}
	if scaleY < 1 {
		scaleY = 1
	}

	g := make([][][]uint64, scaleX)
	for i := range g {
		g[i] = make([][]uint64, scaleY)
	}
	return &Tracker{
		grid:    g,
		touched: make(map[uint64][]cell),
		originX: x,
		originY: y,
		dimX:    dimX,
		dimY:    dimY,
		scaleX:  scaleX,
		scaleY:  scaleY,
	}
}

// RegisterStroke pushes the stroke's id onto the stack of every cell one of
// its points falls in, skipping cells where it already is the top entry.
// It returns false if the id is already registered.
func (t *Tracker) RegisterStroke(s Trackable) bool {
	id := s.ID()
	if _, ok := t.touched[id]; ok {
		return false
	}

	var cells []cell
	seen := make(map[cell]struct{})
	for _, p := range s.Points() {
		c := t.cellOf(p.X, p.Y)
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		cells = append(cells, c)

		// a stale entry of the same id left by an earlier out-of-order
		// removal is reused rather than stacked twice
		stack := t.grid[c.col][c.row]
		if len(stack) > 0 && stack[len(stack)-1] == id {
			continue
		}
		t.grid[c.col][c.row] = append(stack, id)
	}
	t.touched[id] = cells
	return true
}

// DeregisterStroke pops the stroke's id from every cell it was pushed into,
// but only where it is still the top entry. It returns false for unknown ids.
//
// The cells come from registration time, so a stroke whose points changed
// since then is still removed from the right cells.
func (t *Tracker) DeregisterStroke(s Trackable) bool {
	id := s.ID()
	cells, ok := t.touched[id]
	if !ok {
		return false
	}
	delete(t.touched, id)

	for i := len(cells) - 1; i >= 0; i-- {
		c := cells[i]
		stack := t.grid[c.col][c.row]
		if n := len(stack); n > 0 && stack[n-1] == id {
			t.grid[c.col][c.row] = stack[:n-1]
		}
	}
	return true
}

// Query returns a copy of the stack for the cell holding (x,y), oldest
// first. Coordinates outside the region use the nearest edge cell.
func (t *Tracker) Query(x, y float32) []uint64 {
	c := t.cellOf(x, y)
	stack := t.grid[c.col][c.row]
	out := make([]uint64, len(stack))
	copy(out, stack)
	return out
}

// QueryBox returns the ids found in every cell overlapping b, each id once,
// in the order first seen scanning columns then rows.
func (t *Tracker) QueryBox(b geom.Box) []uint64 {
	lo := t.cellOf(b.X0, b.Y0)
	hi := t.cellOf(b.X1, b.Y1)
	seen := make(map[uint64]struct{})
	out := []uint64{}
	for col := lo.col; col <= hi.col; col++ {
		for row := lo.row; row <= hi.row; row++ {
			for _, id := range t.grid[col][row] {
				if _, dup := seen[id]; dup {
					continue
				}
				seen[id] = struct{}{}
				out = append(out, id)
			}
		}
	}
	return out
}

// Has reports whether id is currently registered.
func (t *Tracker) Has(id uint64) bool {
	_, ok := t.touched[id]
	return ok
}

// Len is the number of registered ids.
func (t *Tracker) Len() int {
	return len(t.touched)
}

// Cell returns the clamped cell coordinates of (x,y).
func (t *Tracker) Cell(x, y float32) (col, row int) {
	c := t.cellOf(x, y)
	return c.col, c.row
}

func (t *Tracker) cellOf(x, y float32) cell {
	return cell{
		col: index(x-t.originX, t.dimX, t.scaleX),
		row: index(y-t.originY, t.dimY, t.scaleY),
	}
}

// index is floor(v/dim*scale) clamped to [0, scale).
func index(v, dim float32, scale int) int {
	f := math32.Floor(v / dim * float32(scale))
	switch {
	case math32.IsNaN(f) || f < 0:
		return 0
	case f >= float32(scale):
		return scale - 1
	}
	return int(f)
}
