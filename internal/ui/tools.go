package ui

import (
	"image/color"

	"LocalSketch/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// palette is the swatch row of the toolbar.
var palette = []color.NRGBA{
	{A: 255},
	{R: 255, A: 255},
	{G: 180, A: 255},
	{B: 255, A: 255},
	{R: 255, G: 200, A: 255},
}

// --- Custom Widget for Color Swatches ---
type colorSwatch struct {
	widget.BaseWidget
	Color    color.NRGBA
	OnTapped func(color.NRGBA)
}

func newColorSwatch(c color.NRGBA, tapped func(color.NRGBA)) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(s.Color)
	rect.SetMinSize(fyne.NewSize(32, 32))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Color)
	}
}

// selectTool switches the board tool and reports it on the status bar.
func selectTool(b *BoardWidget, t state.Tool) {
	b.board.SetTool(t)
	b.SetStatus("Tool: " + t.String())
}

func undo(b *BoardWidget) {
	if !b.board.Undo() {
		b.SetStatus("Nothing more to undo")
	}
}

func redo(b *BoardWidget) {
	if !b.board.Redo() {
		b.SetStatus("Nothing more to redo")
	}
}

// --- The Main Toolbar ---
func NewToolbar(b *BoardWidget, w fyne.Window) fyne.CanvasObject {
	tb := widget.NewToolbar(
		widget.NewToolbarAction(theme.DocumentCreateIcon(), func() { selectTool(b, state.ToolDraw) }), // Pen
		widget.NewToolbarAction(theme.ContentRemoveIcon(), func() { selectTool(b, state.ToolErase) }), // Eraser
		widget.NewToolbarAction(theme.ViewRestoreIcon(), func() { selectTool(b, state.ToolSelect) }),  // Select
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ContentUndoIcon(), func() { undo(b) }),
		widget.NewToolbarAction(theme.ContentRedoIcon(), func() { redo(b) }),
		widget.NewToolbarAction(theme.DeleteIcon(), func() {
			if n := b.board.DeleteSelection(); n > 0 {
				b.SetStatus("Deleted " + plural(n, "stroke"))
			}
		}),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.FolderOpenIcon(), func() { ShowOpen(b, w) }),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), func() { ShowSave(b, w) }),
		widget.NewToolbarAction(theme.DownloadIcon(), func() { ShowExport(b, w) }),
	)

	// --- Color Palette ---
	onColorTapped := func(c color.NRGBA) {
		b.board.SetColor(c)
		if b.board.Tool() != state.ToolDraw {
			selectTool(b, state.ToolDraw)
		}
	}
	colorBox := container.NewHBox()
	for _, c := range palette {
		colorBox.Add(newColorSwatch(c, onColorTapped))
	}

	// --- Stroke Width Slider ---
	strokeSlider := widget.NewSlider(1.0, 50.0)
	strokeSlider.SetValue(float64(b.board.Width()))
	strokeSlider.OnChanged = func(val float64) {
		b.board.SetWidth(float32(val))
	}
	sliderContainer := container.New(layout.NewGridWrapLayout(fyne.NewSize(150, 35)), strokeSlider)

	pressure := widget.NewCheck("Pressure", nil)
	pressure.SetChecked(b.board.Pressure())
	pressure.OnChanged = b.board.SetPressure

	clearButton := widget.NewButtonWithIcon("Clear", theme.ContentClearIcon(), func() {
		n := b.board.Clear()
		b.SetStatus("Cleared " + plural(n, "stroke"))
	})

	// --- Assemble everything ---
	return container.NewHBox(
		widget.NewLabel("Tool:"),
		tb,
		widget.NewSeparator(),
		widget.NewLabel("Color:"),
		colorBox,
		widget.NewSeparator(),
		widget.NewLabel("Size:"),
		sliderContainer,
		pressure,
		layout.NewSpacer(),
		clearButton,
	)
}
