package state

import (
	"image/color"
	"log"
	"sync"
	"time"

	"LocalSketch/internal/geom"
	"LocalSketch/internal/history"
	"LocalSketch/internal/stroke"
	"LocalSketch/internal/tile"

	"github.com/google/uuid"
)

// Tool is the pointer mode of the board.
type Tool uint8

const (
	ToolDraw Tool = iota
	ToolErase
	ToolSelect
)

func (t Tool) String() string {
	switch t {
	case ToolDraw:
		return "draw"
	case ToolErase:
		return "erase"
	case ToolSelect:
		return "select"
	}
	return "unknown"
}

// Options configures a Board. Zero fields fall back to DefaultOptions.
type Options struct {
	TileSize         float32
	TileOriginX      float32
	TileOriginY      float32
	GridCells        int
	HistoryCapacity  int
	PenWidth         float32
	PenColor         color.NRGBA
	Pressure         bool
	EraserRadius     float32 // screen units
	SelectRadius     float32 // screen units
	MinZoom, MaxZoom float32
}

func DefaultOptions() Options {
	return Options{
		TileSize:        3000,
		TileOriginX:     -1500,
		TileOriginY:     -1500,
		GridCells:       30,
		HistoryCapacity: history.DefaultCapacity,
		PenWidth:        2,
		PenColor:        color.NRGBA{A: 0xff},
		EraserRadius:    5,
		SelectRadius:    8,
		MinZoom:         geom.DefaultMinScale,
		MaxZoom:         geom.DefaultMaxScale,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.TileSize <= 0 {
		o.TileSize, o.TileOriginX, o.TileOriginY = d.TileSize, d.TileOriginX, d.TileOriginY
	}
	if o.GridCells <= 0 {
		o.GridCells = d.GridCells
	}
	if o.HistoryCapacity <= 0 {
		o.HistoryCapacity = d.HistoryCapacity
	}
	if o.PenWidth <= 0 {
		o.PenWidth = d.PenWidth
	}
	if o.PenColor == (color.NRGBA{}) {
		o.PenColor = d.PenColor
	}
	if o.EraserRadius <= 0 {
		o.EraserRadius = d.EraserRadius
	}
	if o.SelectRadius <= 0 {
		o.SelectRadius = d.SelectRadius
	}
	if o.MinZoom <= 0 {
		o.MinZoom = d.MinZoom
	}
	if o.MaxZoom < o.MinZoom {
		o.MaxZoom = d.MaxZoom
	}
	return o
}

// Board is one drawing session. It turns pointer input in screen
// coordinates into strokes stored in content coordinates, owns the tiles,
// the history and the selection, and serialises access for the UI and the
// mirror.
type Board struct {
	sessionID string
	strokeIDs Clock
	tileIDs   Clock

	mapper    *geom.Mapper
	tiles     *tile.Manager
	history   *history.Log
	selection Selection
	active    *stroke.Path

	tool     Tool
	color    color.NRGBA
	width    float32
	pressure bool
	opts     Options

	dragging       bool
	dragDX, dragDY float32

	// OnChange runs after every mutation, outside the board lock.
	OnChange func()

	mu sync.RWMutex
}

// NewBoard creates an empty board with a fresh session id.
func NewBoard(opts Options) *Board {
	opts = opts.withDefaults()
	b := &Board{
		sessionID: uuid.NewString(),
		history:   history.New(opts.HistoryCapacity),
		mapper:    geom.NewMapper(),
		color:     opts.PenColor,
		width:     opts.PenWidth,
		pressure:  opts.Pressure,
		opts:      opts,
	}
	b.mapper.MinScale, b.mapper.MaxScale = opts.MinZoom, opts.MaxZoom
	b.tiles = tile.NewManager(b.tileIDs.Tick(), opts.TileOriginX, opts.TileOriginY, opts.TileSize, opts.GridCells)

	log.Printf("[BOARD] Session %s started", b.sessionID)
	return b
}

func (b *Board) SessionID() string { return b.sessionID }

func (b *Board) changed() {
	if b.OnChange != nil {
		b.OnChange()
	}
}

// SetTool switches the pointer mode. A stroke or drag in progress is
// finished first.
func (b *Board) SetTool(t Tool) {
	b.mu.Lock()
	b.endDragLocked()
	if b.active != nil {
		b.endStrokeLocked()
	}
	if t != ToolSelect {
		b.selection.Clear()
	}
	b.tool = t
	b.mu.Unlock()
	b.changed()
}

func (b *Board) Tool() Tool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tool
}

func (b *Board) SetColor(c color.NRGBA) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.color = c
}

func (b *Board) Color() color.NRGBA {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.color
}

func (b *Board) SetWidth(w float32) {
	if w <= 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.width = w
}

func (b *Board) Width() float32 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.width
}

// SetPressure picks the stroke variant for new strokes.
func (b *Board) SetPressure(on bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pressure = on
}

func (b *Board) Pressure() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.pressure
}

// BeginStroke starts a gesture at the screen point (absX, absY).
func (b *Board) BeginStroke(absX, absY, pressure float32) {
	b.mu.Lock()
	if b.active != nil {
		b.endStrokeLocked()
	}
	kind := stroke.Basic
	if b.pressure {
		kind = stroke.Pressure
	}
	b.active = stroke.New(b.strokeIDs.Tick(), kind, b.color, b.width)
	x, y := b.mapper.ToRelative(absX, absY)
	b.active.AddPoint(x, y, pressure)
	b.mu.Unlock()
	b.changed()
}

// ExtendStroke feeds another sample to the stroke in progress.
func (b *Board) ExtendStroke(absX, absY, pressure float32) {
	b.mu.Lock()
	if b.active == nil {
		b.mu.Unlock()
		return
	}
	x, y := b.mapper.ToRelative(absX, absY)
	b.active.AddPoint(x, y, pressure)
	b.mu.Unlock()
	b.changed()
}

// EndStroke finalizes the stroke in progress, stores it and records it. It
// returns the stored stroke, or nil if there was nothing to store.
func (b *Board) EndStroke() *stroke.Path {
	b.mu.Lock()
	s := b.endStrokeLocked()
	b.mu.Unlock()
	if s != nil {
		b.changed()
	}
	return s
}

func (b *Board) endStrokeLocked() *stroke.Path {
	s := b.active
	b.active = nil
	if s == nil {
		return nil
	}
	s.Finalize()
	if !b.tiles.AddStroke(s) {
		return nil
	}
	b.history.Record(history.Draw, []*stroke.Path{s}, history.Delta{})
	return s
}

// CancelStroke drops the stroke in progress without storing it.
func (b *Board) CancelStroke() {
	b.mu.Lock()
	b.active = nil
	b.mu.Unlock()
	b.changed()
}

// EraseAt removes the topmost stroke near the screen point and records it.
func (b *Board) EraseAt(absX, absY float32) bool {
	b.mu.Lock()
	x, y := b.mapper.ToRelative(absX, absY)
	s := b.tiles.NearestStroke(x, y, b.opts.EraserRadius/b.mapper.Scale)
	if s == nil {
		b.mu.Unlock()
		return false
	}
	b.tiles.RemoveStroke(s.ID())
	b.selection.Remove(s.ID())
	b.history.Record(history.Erase, []*stroke.Path{s}, history.Delta{})
	b.mu.Unlock()

	b.changed()
	return true
}

// SelectAt selects the topmost stroke near the screen point. With additive
// set the hit is toggled in the current selection; otherwise it replaces
// it. A miss clears the selection either way.
func (b *Board) SelectAt(absX, absY float32, additive bool) bool {
	b.mu.Lock()
	x, y := b.mapper.ToRelative(absX, absY)
	s := b.tiles.NearestStroke(x, y, b.opts.SelectRadius/b.mapper.Scale)
	switch {
	case s == nil:
		b.selection.Clear()
	case additive:
		b.selection.Toggle(s.ID())
	default:
		if !b.selection.Has(s.ID()) {
			b.selection.Clear()
			b.selection.Add(s.ID())
		}
	}
	b.mu.Unlock()

	b.changed()
	return s != nil
}

// SelectIn selects every stroke whose bounding box lies inside the screen
// rectangle with corners (absX0, absY0) and (absX1, absY1). Without
// additive the previous selection is replaced. It returns the number of
// strokes inside the rectangle.
func (b *Board) SelectIn(absX0, absY0, absX1, absY1 float32, additive bool) int {
	b.mu.Lock()
	x0, y0 := b.mapper.ToRelative(absX0, absY0)
	x1, y1 := b.mapper.ToRelative(absX1, absY1)
	band := geom.BoxSpanning(x0, y0, x1, y1)
	if !additive {
		b.selection.Clear()
	}
	n := 0
	for _, s := range b.tiles.StrokesIn(band) {
		if band.Encloses(s.Bounding()) {
			b.selection.Add(s.ID())
			n++
		}
	}
	b.mu.Unlock()

	b.changed()
	return n
}

// SelectAll selects every stored stroke.
func (b *Board) SelectAll() {
	b.mu.Lock()
	b.selection.Set(b.tiles.Strokes())
	b.mu.Unlock()
	b.changed()
}

// ClearSelection drops the selection.
func (b *Board) ClearSelection() {
	b.mu.Lock()
	b.selection.Clear()
	b.mu.Unlock()
	b.changed()
}

// Selected returns the ids of the selected strokes.
func (b *Board) Selected() []uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.selection.IDs()
}

// SelectionBox is the union of the selected strokes' bounding boxes in
// content coordinates.
func (b *Board) SelectionBox() (geom.Box, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.selection.boundsOf(b.tiles.Get)
}

// DragSelection moves the selection by a screen space delta. The move is
// recorded once, by EndDrag.
func (b *Board) DragSelection(absDX, absDY float32) {
	b.mu.Lock()
	if b.selection.IsEmpty() {
		b.mu.Unlock()
		return
	}
	dx, dy := absDX/b.mapper.Scale, absDY/b.mapper.Scale
	for _, id := range b.selection.IDs() {
		b.tiles.Transform(id, func(s *stroke.Path) { s.AddOffset(dx, dy) })
	}
	b.dragging = true
	b.dragDX += dx
	b.dragDY += dy
	b.mu.Unlock()
	b.changed()
}

// EndDrag records the accumulated drag as one Move.
func (b *Board) EndDrag() {
	b.mu.Lock()
	recorded := b.endDragLocked()
	b.mu.Unlock()
	if recorded {
		b.changed()
	}
}

// endDragLocked commits a drag in progress to the history. It reports
// whether an entry was recorded.
func (b *Board) endDragLocked() bool {
	if !b.dragging {
		return false
	}
	dx, dy := b.dragDX, b.dragDY
	b.dragging, b.dragDX, b.dragDY = false, 0, 0
	if dx == 0 && dy == 0 {
		return false
	}
	moved := b.selectedLocked()
	if len(moved) == 0 {
		return false
	}
	b.history.Record(history.Move, moved, history.Delta{DX: dx, DY: dy})
	return true
}

// ResizeSelection drags the edges of every selected stroke's bounding box
// by delta, in content units, and records one Scale. A delta that would
// leave any box with no width or height is refused.
func (b *Board) ResizeSelection(delta geom.Box) bool {
	if delta.IsZero() {
		return false
	}
	b.mu.Lock()
	selected := b.selectedLocked()
	deltas := make([]geom.Box, len(selected))
	for i := range deltas {
		deltas[i] = delta
	}
	ok := b.resizeLocked(selected, deltas)
	b.mu.Unlock()
	if ok {
		b.changed()
	}
	return ok
}

// ScaleSelection grows or shrinks the selection by factor about the top
// left corner of its union box. Every stroke keeps its place in the group.
func (b *Board) ScaleSelection(factor float32) bool {
	if factor <= 0 || factor == 1 {
		return false
	}
	b.mu.Lock()
	union, ok := b.selection.boundsOf(b.tiles.Get)
	if !ok {
		b.mu.Unlock()
		return false
	}
	f := factor - 1
	selected := b.selectedLocked()
	deltas := make([]geom.Box, len(selected))
	for i, s := range selected {
		box := s.Bounding()
		deltas[i] = geom.Box{
			X0: (box.X0 - union.X0) * f,
			X1: (box.X1 - union.X0) * f,
			Y0: (box.Y0 - union.Y0) * f,
			Y1: (box.Y1 - union.Y0) * f,
		}
	}
	ok = b.resizeLocked(selected, deltas)
	b.mu.Unlock()
	if ok {
		b.changed()
	}
	return ok
}

// resizeLocked applies deltas[i] to strokes[i] and records one Scale. Nothing
// changes unless every resulting box keeps a positive width and height.
func (b *Board) resizeLocked(strokes []*stroke.Path, deltas []geom.Box) bool {
	if len(strokes) == 0 {
		return false
	}
	for i, s := range strokes {
		box := s.Bounding().Shift(deltas[i])
		if box.Width() <= 0 || box.Height() <= 0 {
			return false
		}
	}
	for i, s := range strokes {
		d := deltas[i]
		b.tiles.Transform(s.ID(), func(p *stroke.Path) { p.MoveBounding(d) })
	}
	b.history.Record(history.Scale, strokes, history.Delta{Boxes: deltas})
	return true
}

// DeleteSelection erases every selected stroke as one edit.
func (b *Board) DeleteSelection() int {
	b.mu.Lock()
	removed := b.selectedLocked()
	for _, s := range removed {
		b.tiles.RemoveStroke(s.ID())
	}
	b.selection.Clear()
	if len(removed) > 0 {
		b.history.Record(history.Erase, removed, history.Delta{})
	}
	b.mu.Unlock()

	if len(removed) > 0 {
		b.changed()
	}
	return len(removed)
}

// Clear erases every stroke as one edit, so it can be undone.
func (b *Board) Clear() int {
	b.mu.Lock()
	removed := b.tiles.Clear()
	b.selection.Clear()
	b.active = nil
	if len(removed) > 0 {
		b.history.Record(history.Erase, removed, history.Delta{})
	}
	b.mu.Unlock()

	log.Printf("[BOARD] Cleared %d strokes", len(removed))
	b.changed()
	return len(removed)
}

// Undo reverts the last edit. A drag in progress is recorded first, so it
// is the edit undone. It returns false when there is nothing more to undo.
func (b *Board) Undo() bool {
	b.mu.Lock()
	b.endDragLocked()
	b.selection.Clear()
	entry := b.history.Current()
	live, ok := b.history.Undo(b.tiles)
	if ok && (entry.Action == history.Move || entry.Action == history.Scale) {
		b.selection.Set(live)
	}
	b.mu.Unlock()

	if !ok {
		log.Printf("[HISTORY] Nothing more to undo")
		return false
	}
	log.Printf("[HISTORY] Undid %s of %d strokes", entry.Action, len(entry.Strokes))
	b.changed()
	return true
}

// Redo re-applies the next edit. It returns false when there is nothing
// more to redo.
func (b *Board) Redo() bool {
	b.mu.Lock()
	b.endDragLocked()
	b.selection.Clear()
	live, ok := b.history.Redo(b.tiles)
	entry := b.history.Current()
	if ok && (entry.Action == history.Move || entry.Action == history.Scale) {
		b.selection.Set(live)
	}
	b.mu.Unlock()

	if !ok {
		log.Printf("[HISTORY] Nothing more to redo")
		return false
	}
	log.Printf("[HISTORY] Redid %s of %d strokes", entry.Action, len(entry.Strokes))
	b.changed()
	return true
}

func (b *Board) CanUndo() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.history.CanUndo()
}

func (b *Board) CanRedo() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.history.CanRedo()
}

// Pan moves the view by a screen space delta.
func (b *Board) Pan(absDX, absDY float32) {
	b.mu.Lock()
	b.mapper.Pan(absDX, absDY)
	b.mu.Unlock()
	b.changed()
}

// ZoomAt scales the view by factor around the screen point (absX, absY).
func (b *Board) ZoomAt(factor, absX, absY float32) {
	b.mu.Lock()
	b.mapper.ZoomAt(factor, absX, absY)
	b.mu.Unlock()
	b.changed()
}

// ResetView returns to scale 1 with the content origin at the screen origin.
func (b *Board) ResetView() {
	b.mu.Lock()
	b.mapper.Reset()
	b.mu.Unlock()
	b.changed()
}

// SetPixelRatio records the device pixel ratio used by renderers.
func (b *Board) SetPixelRatio(r float32) {
	if r <= 0 {
		return
	}
	b.mu.Lock()
	b.mapper.PixelRatio = r
	b.mu.Unlock()
}

// Mapper returns a copy of the current view.
func (b *Board) Mapper() geom.Mapper {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return *b.mapper
}

// ToRelative maps a screen point into content coordinates.
func (b *Board) ToRelative(absX, absY float32) (float32, float32) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.mapper.ToRelative(absX, absY)
}

// View runs fn under the read lock with the stored strokes in z-order, the
// stroke in progress (or nil) and the current view. fn must not keep the
// strokes or mutate them.
func (b *Board) View(fn func(strokes []*stroke.Path, active *stroke.Path, m geom.Mapper)) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	fn(b.tiles.Strokes(), b.active, *b.mapper)
}

// Strokes returns clones of the stored strokes in z-order.
func (b *Board) Strokes() []*stroke.Path {
	b.mu.RLock()
	defer b.mu.RUnlock()
	live := b.tiles.Strokes()
	out := make([]*stroke.Path, len(live))
	for i, s := range live {
		out[i] = s.Clone()
	}
	return out
}

// Active returns a clone of the stroke in progress, or nil.
func (b *Board) Active() *stroke.Path {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.active == nil {
		return nil
	}
	return b.active.Clone()
}

func (b *Board) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tiles.Len()
}

// Document captures the board for saving or mirroring.
func (b *Board) Document() Document {
	b.mu.RLock()
	defer b.mu.RUnlock()
	d := Document{
		Version: DocumentVersion,
		Session: b.sessionID,
		Saved:   time.Now().UTC(),
		Strokes: []StrokeRecord{},
	}
	for _, s := range b.tiles.Strokes() {
		d.Strokes = append(d.Strokes, RecordOf(s))
	}
	return d
}

// Load replaces the board's strokes with those of d. Ids are kept and new
// ids continue after the largest one. History and selection are reset.
func (b *Board) Load(d Document) error {
	strokes := make([]*stroke.Path, 0, len(d.Strokes))
	for _, r := range d.Strokes {
		s, err := r.Path()
		if err != nil {
			return err
		}
		if !s.IsEmpty() {
			strokes = append(strokes, s)
		}
	}

	b.mu.Lock()
	b.tiles.Clear()
	b.active = nil
	b.selection.Clear()
	b.history.Reset()
	loaded := 0
	for _, s := range strokes {
		if b.tiles.AddStroke(s) {
			loaded++
			b.strokeIDs.Update(s.ID())
		}
	}
	b.mu.Unlock()

	log.Printf("[BOARD] Loaded %d strokes from session %s", loaded, d.Session)
	b.changed()
	return nil
}

func (b *Board) selectedLocked() []*stroke.Path {
	var out []*stroke.Path
	for _, id := range b.selection.IDs() {
		if s, ok := b.tiles.Get(id); ok {
			out = append(out, s)
		}
	}
	return out
}
