// Package tile composes a stroke store with a spatial index over a square
// region of the canvas and answers hit tests against it.
package tile

import (
	"LocalSketch/internal/geom"
	"LocalSketch/internal/grid"
	"LocalSketch/internal/stroke"
)

// Neighbors links a tile to the tiles around it. Nothing walks these links
// while a single tile covers the canvas.
type Neighbors struct {
	Left, Right, Up, Down *Tile
}

// Tile owns the strokes routed to it by their start point. The region is
// [startX, startX+size) x [startY, startY+size). Strokes may extend past it;
// the index clamps them to the edge cells.
type Tile struct {
	id             uint64
	startX, startY float32
	size           float32
	cells          int

	strokes map[uint64]*stroke.Path
	order   []uint64 // z-order, oldest first
	index   *grid.Tracker

	neighbors Neighbors
}

// New returns an empty tile whose index splits the region into cells x cells.
func New(id uint64, startX, startY, size float32, cells int) *Tile {
	if size <= 0 {
		size = 1
	}
	return &Tile{
		id:      id,
		startX:  startX,
		startY:  startY,
		size:    size,
		cells:   cells,
		strokes: make(map[uint64]*stroke.Path),
		index:   grid.NewGriddedTrackerAt(startX, startY, size, size, cells, cells),
	}
}

func (t *Tile) ID() uint64 { return t.id }

// Bounds returns the tile region as a box.
func (t *Tile) Bounds() geom.Box {
	return geom.Box{X0: t.startX, X1: t.startX + t.size, Y0: t.startY, Y1: t.startY + t.size}
}

// AddStroke puts s on top of the z-order and indexes it. Empty strokes and
// ids already present are refused.
func (t *Tile) AddStroke(s *stroke.Path) bool {
	if s == nil || s.IsEmpty() {
		return false
	}
	if _, ok := t.strokes[s.ID()]; ok {
		return false
	}
	t.strokes[s.ID()] = s
	t.order = append(t.order, s.ID())
	t.index.RegisterStroke(s)
	return true
}

// RemoveStroke drops the stroke with the given id and returns it, or nil if
// the tile does not hold it.
func (t *Tile) RemoveStroke(id uint64) *stroke.Path {
	s, ok := t.strokes[id]
	if !ok {
		return nil
	}
	t.index.DeregisterStroke(s)
	delete(t.strokes, id)
	if i := t.position(id); i >= 0 {
		t.order = append(t.order[:i], t.order[i+1:]...)
	}
	return s
}

// ReplaceStroke swaps the stored stroke that has s's id for s, keeping its
// z position. A stroke the tile does not hold is added on top instead.
func (t *Tile) ReplaceStroke(s *stroke.Path) bool {
	if s == nil {
		return false
	}
	old, ok := t.strokes[s.ID()]
	if !ok {
		return t.AddStroke(s)
	}
	t.index.DeregisterStroke(old)
	t.strokes[s.ID()] = s
	t.index.RegisterStroke(s)
	return true
}

// Transform runs fn on the stored stroke with the given id, re-indexing it
// around the change. It returns false if the id is unknown.
func (t *Tile) Transform(id uint64, fn func(*stroke.Path)) bool {
	s, ok := t.strokes[id]
	if !ok {
		return false
	}
	t.index.DeregisterStroke(s)
	fn(s)
	t.index.RegisterStroke(s)
	return true
}

// NearestStroke returns the topmost stroke whose distance to (x,y) is below
// radius, or nil.
//
// Every stroke is a candidate, scanned from the top of the z-order down,
// with its padded bounding box as a cheap reject. The grid only knows about
// vertices, and a long simplified segment can cross a cell without leaving
// a vertex in it, so the grid is not used to prune here.
func (t *Tile) NearestStroke(x, y, radius float32) *stroke.Path {
	for i := len(t.order) - 1; i >= 0; i-- {
		s := t.strokes[t.order[i]]
		if !s.Bounding().Grow(radius).Contains(x, y) {
			continue
		}
		if s.DistanceTo(x, y) < radius {
			return s
		}
	}
	return nil
}

// strokesNear returns the live strokes the index lists for the cell holding
// (x,y), oldest first.
func (t *Tile) strokesNear(x, y float32) []*stroke.Path {
	return t.live(t.index.Query(x, y))
}

// StrokesIn returns the live strokes the index lists for the cells
// overlapping b. Every stroke whose bounding box lies inside b is among
// them, since all of its vertices do.
func (t *Tile) StrokesIn(b geom.Box) []*stroke.Path {
	return t.live(t.index.QueryBox(b))
}

// live resolves ids against the store. The index may still list ids that
// were removed out of LIFO order, and may list an id more than once.
func (t *Tile) live(ids []uint64) []*stroke.Path {
	out := make([]*stroke.Path, 0, len(ids))
	seen := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if s, ok := t.strokes[id]; ok {
			out = append(out, s)
		}
	}
	return out
}

// EnclosesPoint reports whether (x,y) falls inside the tile region. The
// right and bottom edges are excluded.
func (t *Tile) EnclosesPoint(x, y float32) bool {
	return x >= t.startX && x < t.startX+t.size &&
		y >= t.startY && y < t.startY+t.size
}

// Get returns the stored stroke with the given id.
func (t *Tile) Get(id uint64) (*stroke.Path, bool) {
	s, ok := t.strokes[id]
	return s, ok
}

// Strokes returns the strokes in z-order, oldest first.
func (t *Tile) Strokes() []*stroke.Path {
	out := make([]*stroke.Path, len(t.order))
	for i, id := range t.order {
		out[i] = t.strokes[id]
	}
	return out
}

func (t *Tile) Len() int      { return len(t.order) }
func (t *Tile) IsEmpty() bool { return len(t.order) == 0 }

// Clear removes every stroke and returns them in z-order.
func (t *Tile) Clear() []*stroke.Path {
	all := t.Strokes()
	t.index = grid.NewGriddedTrackerAt(t.startX, t.startY, t.size, t.size, t.cells, t.cells)
	t.strokes = make(map[uint64]*stroke.Path)
	t.order = nil
	return all
}

func (t *Tile) Neighbors() Neighbors     { return t.neighbors }
func (t *Tile) SetNeighbors(n Neighbors) { t.neighbors = n }

func (t *Tile) position(id uint64) int {
	for i := len(t.order) - 1; i >= 0; i-- {
		if t.order[i] == id {
			return i
		}
	}
	return -1
}
