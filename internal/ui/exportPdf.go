package ui

import (
	"fmt"
	"log"
	"strings"

	"LocalSketch/internal/export"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
)

// pngMaxSide bounds the longer side of exported PNG files.
const pngMaxSide = 4096

// ShowSave asks for a file and writes the board as a JSON document.
func ShowSave(b *BoardWidget, w fyne.Window) {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		if writer == nil {
			return
		}
		defer func() {
			if err := writer.Close(); err != nil {
				log.Printf("[BOARD] Error closing %s: %v", writer.URI(), err)
			}
		}()
		if err := b.board.Save(writer); err != nil {
			log.Printf("[BOARD] Save failed: %v", err)
			b.SetStatus("Error saving file")
			return
		}
		b.SetStatus(fmt.Sprintf("Saved %s", plural(b.board.Len(), "drawing")))
	}, w)
	d.SetFileName("board.json")
	d.SetFilter(storage.NewExtensionFileFilter([]string{".json"}))
	d.Show()
}

// ShowOpen asks for a JSON document and replaces the board with it.
func ShowOpen(b *BoardWidget, w fyne.Window) {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		if reader == nil {
			return
		}
		defer reader.Close()

		b.SetStatus("Loading file...")
		if err := b.board.LoadFrom(reader); err != nil {
			log.Printf("[BOARD] Load of %s failed: %v", reader.URI(), err)
			b.SetStatus("Error parsing file - invalid format")
			return
		}
		b.SetStatus(fmt.Sprintf("Loaded %s", plural(b.board.Len(), "drawing")))
	}, w)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".json"}))
	d.Show()
}

// ShowExport asks for a .pdf or .png path and renders the board to it.
func ShowExport(b *BoardWidget, w fyne.Window) {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		if writer == nil {
			return
		}
		defer writer.Close()

		strokes := b.board.Strokes()
		if strings.EqualFold(writer.URI().Extension(), ".png") {
			err = export.WritePNG(writer, strokes, pngMaxSide)
		} else {
			err = export.WritePDF(writer, strokes)
		}
		if err != nil {
			log.Printf("[EXPORT] Export to %s failed: %v", writer.URI(), err)
			b.SetStatus("Export failed: " + err.Error())
			return
		}
		log.Printf("[EXPORT] Wrote %d strokes to %s", len(strokes), writer.URI())
		b.SetStatus("Exported to " + writer.URI().Name())
	}, w)
	d.SetFileName("board.pdf")
	d.SetFilter(storage.NewExtensionFileFilter([]string{".pdf", ".png"}))
	d.Show()
}
