package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"
	"time"

	"LocalSketch/internal/geom"
	"LocalSketch/internal/stroke"
)

// DocumentVersion is written into every saved document.
const DocumentVersion = 1

var (
	ErrEmptyDocument      = errors.New("empty document")
	ErrUnsupportedVersion = errors.New("unsupported document version")
)

// StrokeRecord is the stored form of one stroke: id, ordered points with
// pressure, colour and width. Bounding box and outline are derived on load.
type StrokeRecord struct {
	ID     uint64       `json:"id"`
	Kind   string       `json:"kind"`
	Points []geom.Point `json:"points"`
	Color  string       `json:"color"`
	Width  float32      `json:"width"`
}

// Document is a whole board as saved to disk or sent to mirror peers.
type Document struct {
	Version int            `json:"version"`
	Session string         `json:"session"`
	Saved   time.Time      `json:"saved"`
	Strokes []StrokeRecord `json:"strokes"`
}

// RecordOf captures s. The points are copied.
func RecordOf(s *stroke.Path) StrokeRecord {
	pts := make([]geom.Point, s.Len())
	copy(pts, s.Points())
	return StrokeRecord{
		ID:     s.ID(),
		Kind:   s.Kind().String(),
		Points: pts,
		Color:  EncodeColor(s.Color()),
		Width:  s.Width(),
	}
}

// Path rebuilds the stroke without re-simplifying it.
func (r StrokeRecord) Path() (*stroke.Path, error) {
	c, err := ParseColor(r.Color)
	if err != nil {
		return nil, fmt.Errorf("stroke %d: %w", r.ID, err)
	}
	return stroke.Restore(r.ID, stroke.ParseKind(r.Kind), c, r.Width, r.Points), nil
}

// WriteDocument encodes d as indented JSON.
func WriteDocument(w io.Writer, d Document) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}

// ReadDocument decodes a document and checks its version.
func ReadDocument(r io.Reader) (Document, error) {
	var d Document
	data, err := io.ReadAll(r)
	if err != nil {
		return d, fmt.Errorf("failed to read document: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return d, ErrEmptyDocument
	}
	if err := json.Unmarshal(data, &d); err != nil {
		return d, fmt.Errorf("failed to parse document: %w", err)
	}
	if d.Version != DocumentVersion {
		return d, fmt.Errorf("%w: %d", ErrUnsupportedVersion, d.Version)
	}
	return d, nil
}

// EncodeColor formats c as #rrggbb, or #rrggbbaa when it is not opaque.
func EncodeColor(c color.NRGBA) string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// ParseColor reads #rrggbb or #rrggbbaa. A few names are accepted too.
func ParseColor(s string) (color.NRGBA, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "black":
		return color.NRGBA{A: 0xff}, nil
	case "red":
		return color.NRGBA{R: 0xff, A: 0xff}, nil
	case "green":
		return color.NRGBA{G: 0xff, A: 0xff}, nil
	case "blue":
		return color.NRGBA{B: 0xff, A: 0xff}, nil
	case "white":
		return color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, nil
	}

	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	if len(hex) == 6 {
		v = v<<8 | 0xff
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// Save writes the board as a document.
func (b *Board) Save(w io.Writer) error {
	return WriteDocument(w, b.Document())
}

// LoadFrom reads a document and loads it into the board.
func (b *Board) LoadFrom(r io.Reader) error {
	d, err := ReadDocument(r)
	if err != nil {
		return err
	}
	return b.Load(d)
}
