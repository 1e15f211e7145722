package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// NewViewControls builds the zoom, reset and grid buttons shown under the
// board next to the status bar.
func NewViewControls(b *BoardWidget) fyne.CanvasObject {
	zoomOut := widget.NewButtonWithIcon("", theme.ZoomOutIcon(), b.ZoomOut)
	zoomIn := widget.NewButtonWithIcon("", theme.ZoomInIcon(), b.ZoomIn)
	reset := widget.NewButtonWithIcon("", theme.ZoomFitIcon(), b.ResetView)
	grid := widget.NewCheck("Grid", nil)
	grid.SetChecked(b.showGrid)
	grid.OnChanged = b.SetGrid

	return container.NewBorder(nil, nil, nil,
		container.NewHBox(grid, zoomOut, zoomIn, reset),
		b.statusBar,
	)
}

func percent(scale float32) string {
	return fmt.Sprintf("%.0f%%", scale*100)
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
