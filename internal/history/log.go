// Package history keeps a bounded ring of invertible edits and replays them
// against a stroke store for undo and redo.
package history

import (
	"LocalSketch/internal/geom"
	"LocalSketch/internal/stroke"
)

// Action is the kind of edit an Entry records.
type Action uint8

const (
	Draw Action = iota
	Erase
	Move
	Scale
)

func (a Action) String() string {
	switch a {
	case Draw:
		return "draw"
	case Erase:
		return "erase"
	case Move:
		return "move"
	case Scale:
		return "scale"
	}
	return "unknown"
}

// Delta is what a Move or Scale needs to be inverted: the content offset
// of a move, or the per-edge delta passed to MoveBounding for a scale.
// Boxes, when set, holds one delta per entry stroke and overrides Box.
type Delta struct {
	DX, DY float32
	Box    geom.Box
	Boxes  []geom.Box
}

// Entry is one recorded edit. Strokes are private clones: for Draw and Erase
// the stroke as it was added or removed, for Move and Scale the state after
// the edit.
type Entry struct {
	Action  Action
	Strokes []*stroke.Path
	Delta   Delta
}

// boxFor is the MoveBounding delta that was applied to the i-th stroke.
func (e *Entry) boxFor(i int) geom.Box {
	if i < len(e.Delta.Boxes) {
		return e.Delta.Boxes[i]
	}
	return e.Delta.Box
}

// Target is the store entries are replayed against.
type Target interface {
	AddStroke(s *stroke.Path) bool
	RemoveStroke(id uint64) *stroke.Path
	ReplaceStroke(s *stroke.Path) bool
}

// DefaultCapacity is the ring size used when none is configured.
const DefaultCapacity = 100

// Log is a fixed size ring of entries with two cursors. index is the slot
// of the last applied entry and origin is the first slot past the redo
// horizon. The slot at origin is always empty, so at most capacity-1 edits
// can be undone.
type Log struct {
	entries []*Entry
	index   int
	origin  int
}

// New returns an empty log. Capacities below 2 are raised to 2.
func New(capacity int) *Log {
	if capacity < 2 {
		capacity = 2
	}
	return &Log{entries: make([]*Entry, capacity)}
}

// Record stores a new entry after the current one and discards anything
// that could have been redone from here. The strokes are cloned.
func (l *Log) Record(a Action, strokes []*stroke.Path, d Delta) {
	e := &Entry{Action: a, Delta: d, Strokes: make([]*stroke.Path, len(strokes))}
	if d.Boxes != nil {
		e.Delta.Boxes = append([]geom.Box(nil), d.Boxes...)
	}
	for i, s := range strokes {
		e.Strokes[i] = s.Clone()
	}
	c := len(l.entries)
	l.index = (l.index + 1) % c
	l.entries[l.index] = e
	l.origin = (l.index + 1) % c
	l.entries[l.origin] = nil
}

// CanUndo reports whether Undo would do anything.
func (l *Log) CanUndo() bool {
	return l.index != l.origin && l.entries[l.index] != nil
}

// CanRedo reports whether Redo would do anything.
func (l *Log) CanRedo() bool {
	next := (l.index + 1) % len(l.entries)
	return next != l.origin && l.entries[next] != nil
}

// Undo reverts the current entry against t and steps back. It returns the
// strokes that are live in t as a result (none for an undone Draw), and
// false when there is nothing to undo.
func (l *Log) Undo(t Target) ([]*stroke.Path, bool) {
	if !l.CanUndo() {
		return nil, false
	}
	e := l.entries[l.index]
	var live []*stroke.Path
	for i, s := range e.Strokes {
		switch e.Action {
		case Draw:
			t.RemoveStroke(s.ID())
		case Erase:
			c := s.Clone()
			t.AddStroke(c)
			live = append(live, c)
		case Move:
			c := s.Clone()
			c.AddOffset(-e.Delta.DX, -e.Delta.DY)
			t.ReplaceStroke(c)
			live = append(live, c)
		case Scale:
			c := s.Clone()
			c.MoveBounding(e.boxFor(i).Neg())
			t.ReplaceStroke(c)
			live = append(live, c)
		}
	}
	l.index = (l.index - 1 + len(l.entries)) % len(l.entries)
	return live, true
}

// Redo steps forward and applies that entry against t again. It returns
// the strokes that are live in t as a result (none for a redone Erase), and
// false when there is nothing to redo.
func (l *Log) Redo(t Target) ([]*stroke.Path, bool) {
	if !l.CanRedo() {
		return nil, false
	}
	l.index = (l.index + 1) % len(l.entries)
	e := l.entries[l.index]
	var live []*stroke.Path
	for _, s := range e.Strokes {
		switch e.Action {
		case Draw:
			c := s.Clone()
			t.AddStroke(c)
			live = append(live, c)
		case Erase:
			t.RemoveStroke(s.ID())
		case Move, Scale:
			c := s.Clone()
			t.ReplaceStroke(c)
			live = append(live, c)
		}
	}
	return live, true
}

// Current returns the entry Undo would revert, or nil.
func (l *Log) Current() *Entry {
	if !l.CanUndo() {
		return nil
	}
	return l.entries[l.index]
}

// Len is the number of entries held, undoable or redoable.
func (l *Log) Len() int {
	n := 0
	for _, e := range l.entries {
		if e != nil {
			n++
		}
	}
	return n
}

func (l *Log) Capacity() int { return len(l.entries) }

// Reset drops every entry.
func (l *Log) Reset() {
	for i := range l.entries {
		l.entries[i] = nil
	}
	l.index, l.origin = 0, 0
}
