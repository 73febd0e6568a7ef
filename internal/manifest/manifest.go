// Package manifest records where each frame landed on a sheet, as JSON
// next to the sheet image.
package manifest

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/delp/framesheet/internal/grid"
	"github.com/delp/framesheet/internal/output"
	"github.com/delp/framesheet/internal/sheet"
	"github.com/pkg/errors"
)

// Frame is one placed input.
type Frame struct {
	Index  int    `json:"index"`
	Source string `json:"source"`
	Column int    `json:"column"`
	Row    int    `json:"row"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	// Clipped is set for frames placed in rows past the last one.
	Clipped bool `json:"clipped,omitempty"`
}

// Manifest describes a sheet.
type Manifest struct {
	// Sheet is the image file name, relative to the manifest.
	Sheet  string       `json:"sheet"`
	Width  int          `json:"width"`
	Height int          `json:"height"`
	Tile   sheet.Extent `json:"tile"`
	Grid   grid.Spec    `json:"grid"`
	Frames []Frame      `json:"frames"`
}

// DefaultPath is the manifest path used for a sheet written to sheetPath.
func DefaultPath(sheetPath string) string {
	return strings.TrimSuffix(sheetPath, filepath.Ext(sheetPath)) + ".json"
}

// Build describes layout l of the frames read from sources, for a sheet
// written to sheetPath.
func Build(sheetPath string, sources []string, l *sheet.Layout) *Manifest {
	b := l.Bounds()
	m := &Manifest{
		Sheet:  filepath.Base(sheetPath),
		Width:  b.Dx(),
		Height: b.Dy(),
		Tile:   l.Tile,
		Grid:   l.Grid,
		Frames: make([]Frame, 0, len(l.Cells)),
	}
	for _, c := range l.Cells {
		m.Frames = append(m.Frames, Frame{
			Index:   c.Index,
			Source:  sources[c.Index],
			Column:  c.Column,
			Row:     c.Row,
			X:       c.Rect.Min.X,
			Y:       c.Rect.Min.Y,
			Width:   c.Rect.Dx(),
			Height:  c.Rect.Dy(),
			Clipped: !l.Visible(c),
		})
	}
	return m
}

// Visible returns the frames placed inside the grid.
func (m *Manifest) Visible() []Frame {
	var out []Frame
	for _, f := range m.Frames {
		if !f.Clipped {
			out = append(out, f)
		}
	}
	return out
}

// SheetPath resolves the sheet file relative to the manifest at path.
func (m *Manifest) SheetPath(manifestPath string) string {
	if filepath.IsAbs(m.Sheet) {
		return m.Sheet
	}
	return filepath.Join(filepath.Dir(manifestPath), m.Sheet)
}

// Write stores m at path.
func Write(m *Manifest, path string) error {
	s, err := Stage(m, path)
	if err != nil {
		return err
	}
	return s.Commit()
}

// Stage writes m for path without moving it into place.
func Stage(m *Manifest, path string) (*output.Staged, error) {
	return output.Stage(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	})
}

// Read loads a manifest written by Write.
func Read(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening manifest")
	}
	defer f.Close()

	var m Manifest
	if err := json.NewDecoder(f).Decode(&m); err != nil {
		return nil, errors.Wrapf(err, "parsing manifest %s", path)
	}
	return &m, nil
}
