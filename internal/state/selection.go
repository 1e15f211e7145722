package state

import (
	"LocalSketch/internal/geom"
	"LocalSketch/internal/stroke"
)

// Selection is the ordered set of selected stroke ids.
type Selection struct {
	ids []uint64
}

func (sel *Selection) Has(id uint64) bool {
	for _, v := range sel.ids {
		if v == id {
			return true
		}
	}
	return false
}

// Add selects id. It returns false if it already was selected.
func (sel *Selection) Add(id uint64) bool {
	if sel.Has(id) {
		return false
	}
	sel.ids = append(sel.ids, id)
	return true
}

// Toggle flips the selection state of id and reports whether it is now
// selected.
func (sel *Selection) Toggle(id uint64) bool {
	if sel.Remove(id) {
		return false
	}
	sel.ids = append(sel.ids, id)
	return true
}

func (sel *Selection) Remove(id uint64) bool {
	for i, v := range sel.ids {
		if v == id {
			sel.ids = append(sel.ids[:i], sel.ids[i+1:]...)
			return true
		}
	}
	return false
}

// Set replaces the selection with the ids of strokes.
func (sel *Selection) Set(strokes []*stroke.Path) {
	sel.ids = sel.ids[:0]
	for _, s := range strokes {
		sel.Add(s.ID())
	}
}

func (sel *Selection) Clear()        { sel.ids = nil }
func (sel *Selection) Len() int      { return len(sel.ids) }
func (sel *Selection) IsEmpty() bool { return len(sel.ids) == 0 }

// IDs returns a copy of the selected ids in selection order.
func (sel *Selection) IDs() []uint64 {
	out := make([]uint64, len(sel.ids))
	copy(out, sel.ids)
	return out
}

// boundsOf returns the union of the bounding boxes of the strokes lookup
// resolves, and false if none resolve.
func (sel *Selection) boundsOf(lookup func(uint64) (*stroke.Path, bool)) (geom.Box, bool) {
	var box geom.Box
	found := false
	for _, id := range sel.ids {
		s, ok := lookup(id)
		if !ok {
			continue
		}
		if !found {
			box, found = s.Bounding(), true
			continue
		}
		box = box.Union(s.Bounding())
	}
	return box, found
}
