package tile

import (
	"LocalSketch/internal/geom"
	"LocalSketch/internal/stroke"
)

// Manager routes content coordinates to tiles. It holds one default tile
// covering the working area; further tiles can be attached with Link, and
// TileAt falls back to the default for points no tile encloses.
type Manager struct {
	tiles []*Tile
	def   *Tile
}

// NewManager creates the default tile at (startX, startY).
func NewManager(id uint64, startX, startY, size float32, cells int) *Manager {
	def := New(id, startX, startY, size, cells)
	return &Manager{tiles: []*Tile{def}, def: def}
}

func (m *Manager) Default() *Tile { return m.def }

// TileAt returns the tile enclosing (x,y), or the default tile.
func (m *Manager) TileAt(x, y float32) *Tile {
	for _, t := range m.tiles {
		if t.EnclosesPoint(x, y) {
			return t
		}
	}
	return m.def
}

// Tiles returns every managed tile, default first.
func (m *Manager) Tiles() []*Tile {
	out := make([]*Tile, len(m.tiles))
	copy(out, m.tiles)
	return out
}

// Link adds t to the manager and wires the neighbour links between t and
// any managed tile sharing an edge with it.
func (m *Manager) Link(t *Tile) {
	for _, o := range m.tiles {
		if o == t {
			return
		}
	}
	for _, o := range m.tiles {
		tn, on := t.Neighbors(), o.Neighbors()
		switch {
		case o.startY == t.startY && o.startX+o.size == t.startX:
			tn.Left, on.Right = o, t
		case o.startY == t.startY && t.startX+t.size == o.startX:
			tn.Right, on.Left = o, t
		case o.startX == t.startX && o.startY+o.size == t.startY:
			tn.Up, on.Down = o, t
		case o.startX == t.startX && t.startY+t.size == o.startY:
			tn.Down, on.Up = o, t
		default:
			continue
		}
		t.SetNeighbors(tn)
		o.SetNeighbors(on)
	}
	m.tiles = append(m.tiles, t)
}

// AddStroke routes s to the tile enclosing its start point.
func (m *Manager) AddStroke(s *stroke.Path) bool {
	if s == nil || s.IsEmpty() {
		return false
	}
	start := s.Start()
	return m.TileAt(start.X, start.Y).AddStroke(s)
}

// RemoveStroke removes the stroke from whichever tile holds it.
func (m *Manager) RemoveStroke(id uint64) *stroke.Path {
	if t := m.holder(id); t != nil {
		return t.RemoveStroke(id)
	}
	return nil
}

// ReplaceStroke replaces the stroke in the tile holding it, or routes it
// like AddStroke when no tile does.
func (m *Manager) ReplaceStroke(s *stroke.Path) bool {
	if s == nil {
		return false
	}
	if t := m.holder(s.ID()); t != nil {
		return t.ReplaceStroke(s)
	}
	return m.AddStroke(s)
}

// Transform runs fn on the stroke with the given id in whichever tile
// holds it.
func (m *Manager) Transform(id uint64, fn func(*stroke.Path)) bool {
	if t := m.holder(id); t != nil {
		return t.Transform(id, fn)
	}
	return false
}

func (m *Manager) Get(id uint64) (*stroke.Path, bool) {
	if t := m.holder(id); t != nil {
		return t.Get(id)
	}
	return nil, false
}

// NearestStroke asks every tile, default first, and returns the first hit.
func (m *Manager) NearestStroke(x, y, radius float32) *stroke.Path {
	for _, t := range m.tiles {
		if s := t.NearestStroke(x, y, radius); s != nil {
			return s
		}
	}
	return nil
}

// StrokesIn collects Tile.StrokesIn from every tile. A tile can hold
// strokes outside its own bounds, so none is skipped.
func (m *Manager) StrokesIn(b geom.Box) []*stroke.Path {
	var out []*stroke.Path
	for _, t := range m.tiles {
		out = append(out, t.StrokesIn(b)...)
	}
	return out
}

// Strokes returns the strokes of every tile, each tile in z-order.
func (m *Manager) Strokes() []*stroke.Path {
	var out []*stroke.Path
	for _, t := range m.tiles {
		out = append(out, t.Strokes()...)
	}
	return out
}

func (m *Manager) Len() int {
	n := 0
	for _, t := range m.tiles {
		n += t.Len()
	}
	return n
}

// Clear empties every tile and returns what was removed.
func (m *Manager) Clear() []*stroke.Path {
	var out []*stroke.Path
	for _, t := range m.tiles {
		out = append(out, t.Clear()...)
	}
	return out
}

func (m *Manager) holder(id uint64) *Tile {
	for _, t := range m.tiles {
		if _, ok := t.Get(id); ok {
			return t
		}
	}
	return nil
}
