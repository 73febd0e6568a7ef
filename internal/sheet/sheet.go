// Package sheet composites frames into a single sprite sheet.
//
// Every frame gets a tile of the same size: the widest frame's width by the
// tallest frame's height. Frames are placed unscaled at the top-left of
// their tile in row-major order. Frames larger than the tile spill into the
// neighbouring tiles and are overdrawn by later frames; frames whose tile
// lies below the last row are clipped away. Neither case is an error.
package sheet

import (
	"image"

	"github.com/delp/framesheet/internal/grid"
	"github.com/delp/framesheet/internal/progress"
	"golang.org/x/image/draw"
)

// Extent is the tile size.
type Extent struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// MaxExtent returns the largest width and the largest height among images,
// each axis maximised on its own.
func MaxExtent(images []image.Image) Extent {
	var e Extent
	for _, img := range images {
		size := img.Bounds().Size()
		e.Width = max(e.Width, size.X)
		e.Height = max(e.Height, size.Y)
	}
	return e
}

// Cell is where one frame lands on the sheet.
type Cell struct {
	Index  int
	Column int
	Row    int
	// Rect is the frame's destination, which may extend past its tile and
	// past the canvas.
	Rect image.Rectangle
}

// Layout is the full placement of a set of frames.
type Layout struct {
	Grid  grid.Spec
	Tile  Extent
	Cells []Cell
}

// MaxPixels bounds the canvas area accepted by Fits.
const MaxPixels = 1 << 28

// Fits reports whether the canvas has at most maxPixels pixels. It never
// overflows, however large the grid.
func (l *Layout) Fits(maxPixels int) bool {
	w, ok := mulWithin(l.Tile.Width, l.Grid.Columns, maxPixels)
	if !ok {
		return false
	}
	h, ok := mulWithin(l.Tile.Height, l.Grid.Rows, maxPixels)
	if !ok {
		return false
	}
	_, ok = mulWithin(w, h, maxPixels)
	return ok
}

// mulWithin returns a*b if it does not exceed limit. a and b are non-negative.
func mulWithin(a, b, limit int) (int, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if a > limit/b {
		return 0, false
	}
	return a * b, true
}

// Bounds returns the canvas rectangle. Check Fits first for untrusted grids.
func (l *Layout) Bounds() image.Rectangle {
	return image.Rect(0, 0, l.Tile.Width*l.Grid.Columns, l.Tile.Height*l.Grid.Rows)
}

// Visible reports whether c's tile is inside the grid. Cells in rows past
// the last one are clipped off the canvas.
func (l *Layout) Visible(c Cell) bool {
	return c.Row < l.Grid.Rows
}

// Plan places images on g. The cursor keeps advancing past the last row.
func Plan(images []image.Image, g grid.Spec) *Layout {
	l := &Layout{
		Grid:  g,
		Tile:  MaxExtent(images),
		Cells: make([]Cell, 0, len(images)),
	}

	x, y := 0, 0
	for i, img := range images {
		origin := image.Pt(x*l.Tile.Width, y*l.Tile.Height)
		l.Cells = append(l.Cells, Cell{
			Index:  i,
			Column: x,
			Row:    y,
			Rect:   image.Rectangle{Min: origin, Max: origin.Add(img.Bounds().Size())},
		})
		x++
		if x == g.Columns {
			x = 0
			y++
		}
	}
	return l
}

type options struct {
	reporter progress.Reporter
}

// Option configures Compose.
type Option func(*options)

// WithReporter sends a progress step after each frame is pasted.
func WithReporter(r progress.Reporter) Option {
	return func(o *options) { o.reporter = r }
}

// Compose pastes images onto a fresh transparent canvas laid out by l.
// It runs as one ordered pass: later frames overwrite earlier ones where
// they overlap.
func Compose(images []image.Image, l *Layout, opts ...Option) *image.NRGBA {
	o := options{reporter: progress.Nop{}}
	for _, opt := range opts {
		opt(&o)
	}

	canvas := image.NewNRGBA(l.Bounds())
	total := len(l.Cells)
	o.reporter.Start(progress.Compose, total)
	for i, c := range l.Cells {
		src := images[c.Index]
		// draw.Draw clips to the canvas, so off-sheet frames write nothing.
		draw.Draw(canvas, c.Rect, src, src.Bounds().Min, draw.Src)
		o.reporter.Step(progress.Compose, i+1, total)
	}
	o.reporter.Finish(progress.Compose)
	return canvas
}
