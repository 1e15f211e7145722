package ui

import (
	"LocalSketch/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// RunApp shows the board window and blocks until it is closed. A non-empty
// shareLink is shown in the title bar area so viewers can be pointed at it.
func RunApp(shareLink string, b *BoardWidget) {
	myApp := app.New()
	myWindow := myApp.NewWindow("LocalSketch")
	myWindow.Resize(fyne.NewSize(1024, 768))

	toolbar := NewToolbar(b, myWindow)
	top := toolbar
	if shareLink != "" {
		link := widget.NewEntry()
		link.SetText(shareLink)
		link.Disable()
		top = container.NewVBox(toolbar, container.NewBorder(nil, nil, widget.NewLabel("Mirror:"), nil, link))
	}

	content := container.NewBorder(top, NewViewControls(b), nil, nil, b)
	myWindow.SetContent(content)
	addShortcuts(b, myWindow)

	myWindow.ShowAndRun()
}

func addShortcuts(b *BoardWidget, w fyne.Window) {
	c := w.Canvas()
	shortcut := func(key fyne.KeyName, mod fyne.KeyModifier, fn func()) {
		c.AddShortcut(&desktop.CustomShortcut{KeyName: key, Modifier: mod}, func(fyne.Shortcut) { fn() })
	}
	shortcut(fyne.KeyZ, fyne.KeyModifierShortcutDefault, func() { undo(b) })
	shortcut(fyne.KeyY, fyne.KeyModifierShortcutDefault, func() { redo(b) })
	shortcut(fyne.KeyZ, fyne.KeyModifierShortcutDefault|fyne.KeyModifierShift, func() { redo(b) })
	shortcut(fyne.KeyA, fyne.KeyModifierShortcutDefault, func() {
		selectTool(b, state.ToolSelect)
		b.board.SelectAll()
	})
	shortcut(fyne.KeyS, fyne.KeyModifierShortcutDefault, func() { ShowSave(b, w) })
	shortcut(fyne.KeyO, fyne.KeyModifierShortcutDefault, func() { ShowOpen(b, w) })

	c.SetOnTypedKey(func(e *fyne.KeyEvent) {
		switch e.Name {
		case fyne.KeyDelete, fyne.KeyBackspace:
			b.board.DeleteSelection()
		case fyne.KeyEscape:
			b.board.CancelStroke()
			b.board.ClearSelection()
		}
	})
	c.SetOnTypedRune(func(r rune) {
		switch r {
		case '+', '=':
			b.ZoomIn()
		case '-':
			b.ZoomOut()
		case '0':
			b.ResetView()
		case 'p':
			selectTool(b, state.ToolDraw)
		case 'e':
			selectTool(b, state.ToolErase)
		case 's':
			selectTool(b, state.ToolSelect)
		case ']':
			b.board.ScaleSelection(zoomStep)
		case '[':
			b.board.ScaleSelection(1 / zoomStep)
		}
	})
}
