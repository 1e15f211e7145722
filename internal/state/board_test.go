package state

import (
	"bytes"
	"image/color"
	"testing"

	"LocalSketch/internal/geom"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drawLine(b *Board, xy ...float32) {
	b.BeginStroke(xy[0], xy[1], 1)
	for i := 2; i+1 < len(xy); i += 2 {
		b.ExtendStroke(xy[i], xy[i+1], 1)
	}
	b.EndStroke()
}

func strokeIDs(b *Board) []uint64 {
	var ids []uint64
	for _, s := range b.Strokes() {
		ids = append(ids, s.ID())
	}
	return ids
}

func TestDrawUndoRedo(t *testing.T) {
	b := NewBoard(Options{})
	drawLine(b, 0, 0, 10, 0)
	drawLine(b, 0, 20, 10, 30)
	require.Equal(t, 2, b.Len())
	before := b.Strokes()

	assert.True(t, b.Undo())
	assert.True(t, b.Undo())
	assert.Zero(t, b.Len())
	assert.False(t, b.Undo())

	assert.True(t, b.Redo())
	assert.True(t, b.Redo())
	assert.False(t, b.Redo())

	after := b.Strokes()
	require.Len(t, after, 2)
	for i := range before {
		assert.Equal(t, before[i].ID(), after[i].ID())
		assert.Equal(t, before[i].Points(), after[i].Points())
		assert.Equal(t, before[i].Bounding(), after[i].Bounding())
	}
}

func TestNewEditTruncatesRedo(t *testing.T) {
	b := NewBoard(Options{})
	drawLine(b, 0, 0, 10, 0)
	drawLine(b, 0, 20, 10, 20)
	ids := strokeIDs(b)
	b.Undo()
	drawLine(b, 0, 40, 10, 40)

	assert.False(t, b.CanRedo())
	assert.False(t, b.Redo())
	got := strokeIDs(b)
	require.Len(t, got, 2)
	assert.Equal(t, ids[0], got[0])
	assert.NotContains(t, got, ids[1])
}

func TestEmptyGestureIsDiscarded(t *testing.T) {
	b := NewBoard(Options{})
	assert.Nil(t, b.EndStroke())

	b.BeginStroke(5, 5, 1)
	b.CancelStroke()
	assert.Nil(t, b.EndStroke())
	assert.Zero(t, b.Len())
	assert.False(t, b.CanUndo())
}

func TestStrokeVariantFollowsPressure(t *testing.T) {
	b := NewBoard(Options{})
	b.SetPressure(true)
	b.SetColor(color.NRGBA{R: 0xff, A: 0xff})
	b.SetWidth(4)
	b.BeginStroke(0, 0, 0.5)
	b.ExtendStroke(10, 0, 0.5)
	active := b.Active()
	require.NotNil(t, active)
	assert.NotEmpty(t, active.Outline())

	s := b.EndStroke()
	require.NotNil(t, s)
	assert.Equal(t, float32(4), s.Width())
	assert.Equal(t, color.NRGBA{R: 0xff, A: 0xff}, s.Color())
	assert.Nil(t, b.Active())
}

func TestEraseScalesRadiusWithZoom(t *testing.T) {
	b := NewBoard(Options{})
	drawLine(b, 0, 0, 10, 0)

	assert.False(t, b.EraseAt(5, 8), "8 units away, radius 5")

	b.ZoomAt(0.5, 0, 0)
	// screen (2.5,4) is content (5,8); radius is now 10 content units
	assert.True(t, b.EraseAt(2.5, 4))
	assert.Zero(t, b.Len())

	assert.True(t, b.Undo())
	assert.Equal(t, 1, b.Len())
}

func TestSelectDragUndo(t *testing.T) {
	b := NewBoard(Options{})
	drawLine(b, 0, 0, 10, 0)
	orig, ok := b.SelectionBox()
	assert.False(t, ok)

	require.True(t, b.SelectAt(5, 1, false))
	orig, ok = b.SelectionBox()
	require.True(t, ok)

	b.DragSelection(4, 8)
	b.DragSelection(6, 12)
	b.EndDrag()
	moved, _ := b.SelectionBox()
	assert.Equal(t, orig.Offset(10, 20), moved)

	require.True(t, b.Undo())
	box, ok := b.SelectionBox()
	require.True(t, ok, "undone strokes are reselected")
	assert.Equal(t, orig, box)

	require.True(t, b.Redo())
	box, _ = b.SelectionBox()
	assert.Equal(t, moved, box)

	assert.False(t, b.SelectAt(500, 500, false))
	assert.Empty(t, b.Selected())
}

func TestDragFollowsZoom(t *testing.T) {
	b := NewBoard(Options{})
	drawLine(b, 0, 0, 10, 0)
	b.SelectAll()
	orig, _ := b.SelectionBox()

	b.ZoomAt(2, 0, 0)
	b.DragSelection(20, 0)
	b.EndDrag()
	box, _ := b.SelectionBox()
	assert.Equal(t, orig.Offset(10, 0), box)
}

func TestAdditiveSelect(t *testing.T) {
	b := NewBoard(Options{})
	drawLine(b, 0, 0, 10, 0)
	drawLine(b, 0, 50, 10, 50)

	b.SelectAt(5, 0, false)
	b.SelectAt(5, 50, true)
	assert.Len(t, b.Selected(), 2)
	b.SelectAt(5, 50, true)
	assert.Len(t, b.Selected(), 1)

	b.SetTool(ToolErase)
	assert.Empty(t, b.Selected())
	assert.Equal(t, ToolErase, b.Tool())
}

func TestResizeSelectionUndo(t *testing.T) {
	b := NewBoard(Options{})
	drawLine(b, 0, 0, 10, 10)
	b.SelectAll()
	orig, _ := b.SelectionBox()

	b.ResizeSelection(geom.Box{})
	assert.Equal(t, 1, countUndo(b), "zero delta is not recorded")
	b.SelectAll()

	b.ScaleSelection(2)
	grown, _ := b.SelectionBox()
	assert.InDelta(t, orig.Width()*2, grown.Width(), 1e-4)
	assert.InDelta(t, orig.X0, grown.X0, 1e-4)

	require.True(t, b.Undo())
	box, _ := b.SelectionBox()
	assert.InDelta(t, orig.X1, box.X1, 1e-4)
	assert.InDelta(t, orig.Y1, box.Y1, 1e-4)
}

func TestScaleGroupKeepsLayout(t *testing.T) {
	for _, factor := range []float32{1 / 1.2, 2} {
		b := NewBoard(Options{})
		drawLine(b, 0, 0, 10, 0)
		drawLine(b, 100, 0, 300, 0)
		b.SelectAll()
		union, _ := b.SelectionBox()
		var before []geom.Box
		for _, s := range b.Strokes() {
			before = append(before, s.Bounding())
		}

		require.True(t, b.ScaleSelection(factor))
		scaled, _ := b.SelectionBox()
		assert.InDelta(t, union.Width()*factor, scaled.Width(), 1e-3)
		assert.InDelta(t, union.Height()*factor, scaled.Height(), 1e-3)
		assert.InDelta(t, union.X0, scaled.X0, 1e-4)
		assert.InDelta(t, union.Y0, scaled.Y0, 1e-4)
		var after []geom.Box
		for _, s := range b.Strokes() {
			box := s.Bounding()
			assert.Greater(t, box.X1, box.X0)
			assert.Greater(t, box.Y1, box.Y0)
			after = append(after, box)
		}
		assert.InDelta(t, before[0].Width()*factor, after[0].Width(), 1e-3)

		require.True(t, b.Undo())
		for i, s := range b.Strokes() {
			box := s.Bounding()
			assert.InDelta(t, before[i].X0, box.X0, 1e-3)
			assert.InDelta(t, before[i].X1, box.X1, 1e-3)
			assert.InDelta(t, before[i].Y1, box.Y1, 1e-3)
		}
		assert.Len(t, b.Selected(), 2)

		require.True(t, b.Redo())
		for i, s := range b.Strokes() {
			assert.InDelta(t, after[i].X1, s.Bounding().X1, 1e-3)
		}
	}
}

func TestResizeRefusesInvertedBox(t *testing.T) {
	b := NewBoard(Options{})
	drawLine(b, 0, 0, 10, 0)
	b.SelectAll()
	orig, _ := b.SelectionBox()

	assert.False(t, b.ResizeSelection(geom.Box{X1: -100}))
	assert.False(t, b.ScaleSelection(0))
	assert.False(t, b.ScaleSelection(-2))
	box, _ := b.SelectionBox()
	assert.Equal(t, orig, box)
	assert.Equal(t, 1, countUndo(b))

	b.ClearSelection()
	assert.False(t, b.ScaleSelection(2), "nothing selected")
}

func TestUndoDuringDrag(t *testing.T) {
	b := NewBoard(Options{})
	drawLine(b, 0, 0, 10, 0)
	require.True(t, b.SelectAt(5, 0, false))
	b.DragSelection(20, 0)

	require.True(t, b.Undo(), "the drag is recorded and undone")
	assert.Equal(t, float32(0), b.Strokes()[0].Start().X)
	b.EndDrag()
	assert.True(t, b.CanRedo(), "a late EndDrag keeps the redo branch")

	require.True(t, b.Undo())
	assert.Zero(t, b.Len())
	require.True(t, b.Redo())
	require.True(t, b.Redo())
	assert.Equal(t, float32(20), b.Strokes()[0].Start().X)
	assert.False(t, b.CanRedo())
}

func TestEndDragWithoutSelection(t *testing.T) {
	b := NewBoard(Options{})
	drawLine(b, 0, 0, 10, 0)
	require.True(t, b.SelectAt(5, 0, false))
	b.DragSelection(20, 0)
	b.mu.Lock()
	b.selection.Clear()
	b.mu.Unlock()

	b.EndDrag()
	assert.Equal(t, 1, countUndo(b), "no Move without strokes")
}

func TestSetToolCommitsDrag(t *testing.T) {
	b := NewBoard(Options{})
	drawLine(b, 0, 0, 10, 0)
	require.True(t, b.SelectAt(5, 0, false))
	b.DragSelection(0, 30)

	b.SetTool(ToolDraw)
	assert.Equal(t, 2, countUndo(b))
	b.EndDrag()
	assert.Equal(t, 2, countUndo(b))
	assert.Equal(t, float32(30), b.Strokes()[0].Start().Y)
}

func TestEndDragNotifies(t *testing.T) {
	b := NewBoard(Options{})
	drawLine(b, 0, 0, 10, 0)
	b.SelectAll()
	b.DragSelection(5, 0)

	calls := 0
	b.OnChange = func() { calls++ }
	b.EndDrag()
	assert.Equal(t, 1, calls)
	b.EndDrag()
	assert.Equal(t, 1, calls, "nothing left to record")
}

func TestSelectIn(t *testing.T) {
	b := NewBoard(Options{})
	drawLine(b, 0, 0, 10, 0)
	drawLine(b, 0, 50, 10, 50)
	drawLine(b, 100, 0, 200, 0)

	assert.Equal(t, 2, b.SelectIn(-20, -20, 30, 60, false))
	assert.Len(t, b.Selected(), 2)
	assert.Equal(t, 1, b.SelectIn(90, -20, 250, 20, true))
	assert.Len(t, b.Selected(), 3)
	assert.Equal(t, 1, b.SelectIn(250, 20, 90, -20, false))
	assert.Len(t, b.Selected(), 1)

	assert.Zero(t, b.SelectIn(-20, -20, 5, 60, false), "partly covered strokes are left out")
	assert.Empty(t, b.Selected())

	b.ZoomAt(2, 0, 0)
	assert.Equal(t, 2, b.SelectIn(-40, -40, 60, 120, false))
	assert.Equal(t, 1, b.SelectIn(-20, -20, 30, 60, false), "the band maps through the zoom")
}

func countUndo(b *Board) int {
	n := 0
	for b.Undo() {
		n++
	}
	for b.Redo() {
	}
	return n
}

func TestDeleteSelectionAndClearUndo(t *testing.T) {
	b := NewBoard(Options{})
	drawLine(b, 0, 0, 10, 0)
	drawLine(b, 0, 50, 10, 50)
	drawLine(b, 0, 100, 10, 100)

	b.SelectAt(5, 50, false)
	assert.Equal(t, 1, b.DeleteSelection())
	assert.Equal(t, 2, b.Len())
	assert.Zero(t, b.DeleteSelection())

	assert.Equal(t, 2, b.Clear())
	assert.Zero(t, b.Len())

	b.Undo()
	assert.Equal(t, 2, b.Len())
	b.Undo()
	assert.Equal(t, 3, b.Len())
}

func TestPanAndResetView(t *testing.T) {
	b := NewBoard(Options{})
	b.Pan(100, 50)
	x, y := b.ToRelative(100, 50)
	assert.InDelta(t, 0, x, 1e-5)
	assert.InDelta(t, 0, y, 1e-5)

	b.ZoomAt(1000, 0, 0)
	assert.Equal(t, float32(geom.DefaultMaxScale), b.Mapper().Scale)

	b.ResetView()
	m := b.Mapper()
	assert.Equal(t, float32(1), m.Scale)
	assert.Equal(t, geom.Vec{}, m.Offset)
}

func TestStrokesLandInContentSpace(t *testing.T) {
	b := NewBoard(Options{})
	b.Pan(-100, 0)
	b.ZoomAt(2, 0, 0)
	drawLine(b, 0, 0, 20, 0)

	s := b.Strokes()[0]
	// offset 100 after the pan, unchanged by zooming about the screen origin
	assert.InDelta(t, 100, s.Start().X, 1e-4)
	assert.InDelta(t, 110, s.Points()[s.Len()-1].X, 1e-4)
}

func TestSaveLoadKeepsIDs(t *testing.T) {
	b := NewBoard(Options{})
	b.SetPressure(true)
	drawLine(b, 0, 0, 10, 0, 20, 5)
	b.SetPressure(false)
	drawLine(b, 0, 50, 10, 50)
	want := b.Strokes()

	var buf bytes.Buffer
	require.NoError(t, b.Save(&buf))

	other := NewBoard(Options{})
	require.NoError(t, other.LoadFrom(&buf))
	got := other.Strokes()
	require.Len(t, got, 2)
	for i := range want {
		assert.Equal(t, want[i].ID(), got[i].ID())
		assert.Equal(t, want[i].Kind(), got[i].Kind())
		assert.Equal(t, want[i].Points(), got[i].Points())
		assert.Equal(t, want[i].Bounding(), got[i].Bounding())
	}
	assert.False(t, other.CanUndo(), "loading resets history")

	drawLine(other, 0, 80, 10, 80)
	last := other.Strokes()[2]
	assert.Greater(t, last.ID(), want[1].ID())
}

func TestOnChange(t *testing.T) {
	b := NewBoard(Options{})
	calls := 0
	b.OnChange = func() { calls++ }

	drawLine(b, 0, 0, 10, 0)
	assert.Equal(t, 3, calls, "begin, extend, end")

	b.Undo()
	assert.Equal(t, 4, calls)
	b.Undo()
	assert.Equal(t, 4, calls, "no-op undo does not notify")
}

func TestOptionsDefaults(t *testing.T) {
	o := Options{GridCells: 10, MaxZoom: 5}.withDefaults()
	assert.Equal(t, float32(3000), o.TileSize)
	assert.Equal(t, float32(-1500), o.TileOriginX)
	assert.Equal(t, 10, o.GridCells)
	assert.Equal(t, 100, o.HistoryCapacity)
	assert.Equal(t, float32(5), o.MaxZoom)
	assert.Equal(t, color.NRGBA{A: 0xff}, o.PenColor)
}

func TestToolString(t *testing.T) {
	assert.Equal(t, "select", ToolSelect.String())
	assert.Equal(t, "unknown", Tool(9).String())
}

func TestClock(t *testing.T) {
	var c Clock
	assert.Equal(t, uint64(1), c.Tick())
	c.Update(10)
	c.Update(3)
	assert.Equal(t, uint64(10), c.Current())
	assert.Equal(t, uint64(11), c.Tick())
}
