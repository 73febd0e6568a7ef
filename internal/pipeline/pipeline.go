// Package pipeline runs a full sheet build: decode → lay out → composite →
// encode, plus the manifest and animation side files.
package pipeline

import (
	"context"

	"github.com/pkg/errors"

	"github.com/delp/framesheet/internal/anim"
	"github.com/delp/framesheet/internal/grid"
	"github.com/delp/framesheet/internal/loader"
	"github.com/delp/framesheet/internal/logging"
	"github.com/delp/framesheet/internal/manifest"
	"github.com/delp/framesheet/internal/output"
	"github.com/delp/framesheet/internal/progress"
	"github.com/delp/framesheet/internal/sheet"
)

// Options controls a build.
type Options struct {
	Inputs  []string // frame files, in placement order
	Output  string   // sheet path; format from extension
	Rows    *int     // nil when not given
	Columns *int     // nil when not given
	// NoInfer uses grid.Legacy instead of inferring a square grid when
	// neither Rows nor Columns is given.
	NoInfer bool
	Workers int
	Quality int
	// Manifest is the JSON manifest path; empty skips it.
	Manifest string
	// AnimsOut is a descriptor path with one animation per row; empty skips it.
	AnimsOut string
	Reporter progress.Reporter
	Decode   loader.DecodeFunc
}

// Result summarises a finished build.
type Result struct {
	Grid    grid.Spec
	Tile    sheet.Extent
	Width   int
	Height  int
	Frames  int
	Clipped int
}

// Run executes the build. Any error aborts it before anything is moved
// into place at the output paths.
func Run(ctx context.Context, opts Options) (res *Result, err error) {
	logger := logging.FromContext(ctx)

	// 1. Resolve the grid before decoding anything
	if len(opts.Inputs) == 0 {
		return nil, errors.Wrap(grid.ErrInvalidArgument, "no input frames")
	}
	var g grid.Spec
	if opts.NoInfer && opts.Rows == nil && opts.Columns == nil {
		g = grid.Legacy
	} else if g, err = grid.Resolve(len(opts.Inputs), opts.Rows, opts.Columns); err != nil {
		return nil, err
	}
	outOpts := output.Options{Quality: opts.Quality}
	if err := output.Check(opts.Output, outOpts); err != nil {
		return nil, err
	}
	logger.Debug("Grid resolved.", "rows", g.Rows, "columns", g.Columns, "frames", len(opts.Inputs))

	// 2. Decode frames
	images, err := loader.Load(ctx, opts.Inputs, loader.Options{
		Workers:  opts.Workers,
		Reporter: opts.Reporter,
		Decode:   opts.Decode,
	})
	if err != nil {
		return nil, err
	}

	// 3. Lay out and composite
	layout := sheet.Plan(images, g)
	if !layout.Fits(sheet.MaxPixels) {
		return nil, errors.Wrapf(grid.ErrInvalidArgument, "grid %s of %dx%d tiles exceeds %d pixels",
			g, layout.Tile.Width, layout.Tile.Height, sheet.MaxPixels)
	}
	canvas := sheet.Compose(images, layout, sheet.WithReporter(progress.OrNop(opts.Reporter)))

	// 4. Stage the sheet and side files, then move them into place together.
	// Existing files at the destinations are untouched until every write succeeded.
	var staged []*output.Staged
	defer func() {
		if err != nil {
			for _, s := range staged {
				s.Discard()
			}
		}
	}()

	s, err := output.StageImage(canvas, opts.Output, outOpts)
	if err != nil {
		return nil, err
	}
	staged = append(staged, s)

	m := manifest.Build(opts.Output, opts.Inputs, layout)
	if opts.Manifest != "" {
		if s, err = manifest.Stage(m, opts.Manifest); err != nil {
			return nil, err
		}
		staged = append(staged, s)
	}
	if opts.AnimsOut != "" {
		if s, err = anim.Stage(opts.AnimsOut, anim.ByRow(m)); err != nil {
			return nil, err
		}
		staged = append(staged, s)
	}

	for _, s := range staged {
		if err = s.Commit(); err != nil {
			return nil, err
		}
		logger.Debug("Output written.", "path", s.Path())
	}

	res = &Result{
		Grid:    g,
		Tile:    layout.Tile,
		Width:   canvas.Bounds().Dx(),
		Height:  canvas.Bounds().Dy(),
		Frames:  len(images),
		Clipped: len(m.Frames) - len(m.Visible()),
	}
	if res.Clipped > 0 {
		logger.Warn("Frames fell outside the sheet and were clipped.", "clipped", res.Clipped, "cells", g.Cells())
	}
	return res, nil
}
