package export

import (
	"fmt"
	"io"
	"log"

	"LocalSketch/internal/geom"
	"LocalSketch/internal/stroke"

	"github.com/jung-kurt/gofpdf"
)

// pdfMargin is the page margin in millimetres.
const pdfMargin = 10

// NewPDF lays strokes out on a single A4 page, fitted inside the margins.
// The page is landscape when the content is wider than tall.
func NewPDF(strokes []*stroke.Path) (*gofpdf.Fpdf, error) {
	box, ok := Bounds(strokes)
	if !ok {
		return nil, ErrNothingToExport
	}
	orientation := "P"
	if box.Width() > box.Height() {
		orientation = "L"
	}
	p := gofpdf.New(orientation, "mm", "A4", "")
	p.SetCreator("LocalSketch", true)
	p.AddPage()
	p.SetLineCapStyle("round")
	p.SetLineJoinStyle("round")

	pw, ph := p.GetPageSize()
	m := FitMapper(box, float32(pw), float32(ph), pdfMargin)
	for _, s := range strokes {
		drawPDFStroke(p, s, m)
	}
	if err := p.Error(); err != nil {
		return nil, fmt.Errorf("failed to build pdf: %w", err)
	}
	return p, nil
}

func drawPDFStroke(p *gofpdf.Fpdf, s *stroke.Path, m geom.Mapper) {
	if s.IsEmpty() {
		return
	}
	c := s.Color()
	p.SetAlpha(float64(c.A)/255, "Normal")
	p.SetDrawColor(int(c.R), int(c.G), int(c.B))
	p.SetFillColor(int(c.R), int(c.G), int(c.B))

	pts := s.Points()
	if len(pts) == 1 {
		x, y := m.ToAbsolute(pts[0].X, pts[0].Y)
		p.Circle(float64(x), float64(y), float64(s.Width()*m.Scale/2), "F")
		return
	}

	if s.Kind() == stroke.Pressure {
		outline := s.Outline()
		poly := make([]gofpdf.PointType, len(outline))
		for i, q := range outline {
			x, y := m.ToAbsolute(q.X, q.Y)
			poly[i] = gofpdf.PointType{X: float64(x), Y: float64(y)}
		}
		p.Polygon(poly, "F")
		return
	}

	p.SetLineWidth(float64(s.Width() * m.Scale))
	for i := 1; i < len(pts); i++ {
		x0, y0 := m.ToAbsolute(pts[i-1].X, pts[i-1].Y)
		x1, y1 := m.ToAbsolute(pts[i].X, pts[i].Y)
		p.Line(float64(x0), float64(y0), float64(x1), float64(y1))
	}
}

// WritePDF writes the PDF export to w.
func WritePDF(w io.Writer, strokes []*stroke.Path) error {
	p, err := NewPDF(strokes)
	if err != nil {
		return err
	}
	if err := p.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

// ExportPDF writes the PDF export to path.
func ExportPDF(path string, strokes []*stroke.Path) error {
	p, err := NewPDF(strokes)
	if err != nil {
		return err
	}
	if err := p.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	log.Printf("[EXPORT] Wrote %d strokes to %s", len(strokes), path)
	return nil
}
