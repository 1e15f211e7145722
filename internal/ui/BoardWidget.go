package ui

import (
	"image"
	"image/color"
	"sync"

	"LocalSketch/internal/export"
	"LocalSketch/internal/geom"
	"LocalSketch/internal/state"
	"LocalSketch/internal/stroke"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

const (
	zoomStep        = 1.2
	defaultGridSize = 50
)

var (
	paperColor     = color.NRGBA{R: 245, G: 246, B: 248, A: 255}
	gridColor      = color.NRGBA{R: 220, G: 220, B: 220, A: 255}
	selectionColor = color.NRGBA{R: 30, G: 120, B: 230, A: 200}
)

// BoardWidget is the drawing surface. It turns pointer events into Board
// operations and paints the board through a raster.
type BoardWidget struct {
	widget.BaseWidget
	board     *state.Board
	statusBar *widget.Label

	showGrid bool
	gridSize float32

	panning  bool
	moving   bool
	lastDrag fyne.Position

	// rubber band of the select tool, in screen coordinates
	banding          bool
	bandAdd          bool
	bandFrom, bandTo fyne.Position

	// the renderer's image is reused between frames
	rmu      sync.Mutex
	renderer *export.Renderer
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ fyne.Scrollable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)
var _ desktop.Hoverable = (*BoardWidget)(nil)

func NewBoardWidget(board *state.Board) *BoardWidget {
	b := &BoardWidget{
		board:     board,
		statusBar: widget.NewLabel("Ready"),
		showGrid:  true,
		gridSize:  defaultGridSize,
		renderer:  export.NewRenderer(1, 1),
	}
	b.ExtendBaseWidget(b)
	return b
}

func (b *BoardWidget) Board() *state.Board { return b.board }

// StatusBar is the label SetStatus writes to.
func (b *BoardWidget) StatusBar() *widget.Label { return b.statusBar }

// SetStatus is safe to call from any goroutine.
func (b *BoardWidget) SetStatus(text string) {
	fyne.Do(func() {
		b.statusBar.SetText(text)
	})
}

func (b *BoardWidget) SetGrid(on bool) {
	b.showGrid = on
	b.Refresh()
}

func (b *BoardWidget) ZoomIn()  { b.zoomCentered(zoomStep) }
func (b *BoardWidget) ZoomOut() { b.zoomCentered(1 / zoomStep) }

func (b *BoardWidget) zoomCentered(factor float32) {
	size := b.Size()
	b.board.ZoomAt(factor, size.Width/2, size.Height/2)
	b.showZoom()
}

func (b *BoardWidget) ResetView() {
	b.board.ResetView()
	b.showZoom()
}

func (b *BoardWidget) showZoom() {
	m := b.board.Mapper()
	b.SetStatus(percent(m.Scale) + " zoom")
}

func (b *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	x, y := e.Position.X, e.Position.Y
	switch e.Button {
	case desktop.MouseButtonSecondary, desktop.MouseButtonTertiary:
		b.panning = true
		b.lastDrag = e.Position
		return
	case desktop.MouseButtonPrimary:
	default:
		return
	}

	switch b.board.Tool() {
	case state.ToolDraw:
		b.board.BeginStroke(x, y, 1)
	case state.ToolErase:
		b.board.EraseAt(x, y)
	case state.ToolSelect:
		additive := e.Modifier&fyne.KeyModifierShift != 0
		hit := b.board.SelectAt(x, y, additive)
		b.moving = hit && !additive
		if !hit {
			b.banding, b.bandAdd = true, additive
			b.bandFrom, b.bandTo = e.Position, e.Position
		}
		n := len(b.board.Selected())
		if n > 0 {
			b.SetStatus(plural(n, "stroke") + " selected")
		}
	}
	b.lastDrag = e.Position
}

func (b *BoardWidget) Dragged(e *fyne.DragEvent) {
	x, y := e.Position.X, e.Position.Y
	switch b.board.Tool() {
	case state.ToolDraw:
		b.board.ExtendStroke(x, y, 1)
	case state.ToolErase:
		b.board.EraseAt(x, y)
	case state.ToolSelect:
		if b.moving {
			b.board.DragSelection(e.Dragged.DX, e.Dragged.DY)
		} else if b.banding {
			b.bandTo = e.Position
			b.Refresh()
		}
	}
	b.lastDrag = e.Position
}

func (b *BoardWidget) DragEnd() {
	b.finishGesture()
}

func (b *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		b.panning = false
		return
	}
	b.finishGesture()
}

// finishGesture runs for both MouseUp and DragEnd; the second call is a
// no-op on the board.
func (b *BoardWidget) finishGesture() {
	switch b.board.Tool() {
	case state.ToolDraw:
		b.board.EndStroke()
	case state.ToolSelect:
		if b.moving {
			b.board.EndDrag()
			b.moving = false
		}
		if b.banding {
			b.banding = false
			from, to := b.bandFrom, b.bandTo
			if n := b.board.SelectIn(from.X, from.Y, to.X, to.Y, b.bandAdd); n > 0 {
				b.SetStatus(plural(n, "stroke") + " selected")
			}
		}
	}
}

// Secondary button drags do not produce drag events, so panning follows
// the hover position while the button is held.
func (b *BoardWidget) MouseMoved(e *desktop.MouseEvent) {
	if !b.panning {
		return
	}
	b.board.Pan(e.Position.X-b.lastDrag.X, e.Position.Y-b.lastDrag.Y)
	b.lastDrag = e.Position
}

func (b *BoardWidget) MouseIn(*desktop.MouseEvent) {}

func (b *BoardWidget) MouseOut() {
	b.panning = false
}

// Scrolled zooms around the cursor.
func (b *BoardWidget) Scrolled(e *fyne.ScrollEvent) {
	factor := float32(zoomStep)
	if e.Scrolled.DY < 0 {
		factor = 1 / zoomStep
	} else if e.Scrolled.DY == 0 {
		b.board.Pan(e.Scrolled.DX, 0)
		return
	}
	b.board.ZoomAt(factor, e.Position.X, e.Position.Y)
	b.showZoom()
}

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	r := &boardWidgetRenderer{board: b}
	r.raster = canvas.NewRaster(b.paint)
	return r
}

// paint draws the board into a w x h device pixel image.
func (b *BoardWidget) paint(w, h int) image.Image {
	b.rmu.Lock()
	defer b.rmu.Unlock()

	ratio := float32(1)
	if size := b.Size(); size.Width > 0 {
		ratio = float32(w) / size.Width
	}
	box, selected := b.board.SelectionBox()

	b.renderer.Resize(w, h)
	b.renderer.Clear(paperColor)
	b.board.View(func(strokes []*stroke.Path, active *stroke.Path, m geom.Mapper) {
		m.PixelRatio = ratio
		if b.showGrid {
			b.renderer.DrawGrid(m, b.gridSize, gridColor)
		}
		b.renderer.DrawStrokes(strokes, m)
		b.renderer.DrawStroke(active, m)
		if selected {
			b.renderer.DrawBox(box.Grow(4/m.Scale), m, ratio, selectionColor)
		}
		if b.banding {
			x0, y0 := m.ToRelative(b.bandFrom.X, b.bandFrom.Y)
			x1, y1 := m.ToRelative(b.bandTo.X, b.bandTo.Y)
			b.renderer.DrawBox(geom.BoxSpanning(x0, y0, x1, y1), m, ratio, selectionColor)
		}
	})
	// the raster keeps a reference, so hand it a copy
	out := image.NewRGBA(b.renderer.Image().Rect)
	copy(out.Pix, b.renderer.Image().Pix)
	return out
}

type boardWidgetRenderer struct {
	board  *BoardWidget
	raster *canvas.Raster
}

func (r *boardWidgetRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.raster}
}

func (r *boardWidgetRenderer) Refresh() {
	r.raster.Refresh()
}

func (r *boardWidgetRenderer) Destroy() {}
func (r *boardWidgetRenderer) Layout(size fyne.Size) {
	r.raster.Resize(size)
}
func (r *boardWidgetRenderer) MinSize() fyne.Size {
	return fyne.NewSize(300, 300)
}
