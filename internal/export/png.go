package export

import (
	"errors"
	"fmt"
	"image/color"
	"image/png"
	"io"
	"log"
	"os"

	"LocalSketch/internal/stroke"

	"github.com/chewxy/math32"
)

var ErrNothingToExport = errors.New("nothing to export")

// pngMargin is the blank border around exported content, in pixels.
const pngMargin = 16

// WritePNG renders strokes on white, fitted so the longer side of the
// image is maxSide pixels.
func WritePNG(w io.Writer, strokes []*stroke.Path, maxSide int) error {
	box, ok := Bounds(strokes)
	if !ok {
		return ErrNothingToExport
	}
	if maxSide < 2*pngMargin+1 {
		maxSide = 2*pngMargin + 1
	}

	bw, bh := math32.Max(box.Width(), 1), math32.Max(box.Height(), 1)
	iw, ih := maxSide, maxSide
	if bw >= bh {
		ih = max(int(math32.Ceil(float32(maxSide)*bh/bw)), 2*pngMargin+1)
	} else {
		iw = max(int(math32.Ceil(float32(maxSide)*bw/bh)), 2*pngMargin+1)
	}

	m := FitMapper(box, float32(iw), float32(ih), pngMargin)
	img := Rasterize(strokes, m, iw, ih, color.White)
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

// SavePNG writes the PNG export to path.
func SavePNG(path string, strokes []*stroke.Path, maxSide int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := WritePNG(f, strokes, maxSide); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	log.Printf("[EXPORT] Wrote %d strokes to %s", len(strokes), path)
	return nil
}
