// Package loader decodes input frames from disk, several at a time, and
// hands them back in input order.
package loader

import (
	"context"
	"fmt"
	"image"
	"os"
	"runtime"
	"sync/atomic"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/delp/framesheet/internal/logging"
	"github.com/delp/framesheet/internal/progress"
	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"
)

// DecodeError reports an input that could not be read or decoded.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// DecodeFunc turns a path into an image.
type DecodeFunc func(path string) (image.Image, error)

// Decode reads the image at path. GIF inputs yield their first frame only.
func Decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	return img, nil
}

// Options configures Load.
type Options struct {
	// Workers bounds the number of concurrent decodes. Zero means GOMAXPROCS.
	Workers  int
	Reporter progress.Reporter
	// Decode defaults to the package Decode.
	Decode DecodeFunc
}

// Load decodes every path and returns the images in the order of paths.
// The first failure cancels the remaining decodes and is returned; no
// partial result is produced.
func Load(ctx context.Context, paths []string, opts Options) ([]image.Image, error) {
	logger := logging.FromContext(ctx)
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	decode := opts.Decode
	if decode == nil {
		decode = Decode
	}
	reporter := progress.OrNop(opts.Reporter)

	total := len(paths)
	images := make([]image.Image, total)
	var done atomic.Int64

	reporter.Start(progress.Load, total)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range paths {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			img, err := decode(path)
			if err != nil {
				var de *DecodeError
				if !errors.As(err, &de) {
					err = &DecodeError{Path: path, Err: err}
				}
				return err
			}
			images[i] = img
			size := img.Bounds().Size()
			logger.Debug("Frame decoded.", "index", i, "path", path, "width", size.X, "height", size.Y)
			reporter.Step(progress.Load, int(done.Add(1)), total)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "loading frames")
	}
	reporter.Finish(progress.Load)
	return images, nil
}
