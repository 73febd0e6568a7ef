// Package output writes the finished sheet and its side files. Every write
// goes to a temporary file beside the destination and is renamed into
// place only on success, so a failed run leaves nothing behind.
package output

import (
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// DefaultQuality is the JPEG quality used when none is set.
const DefaultQuality = 90

// WriteError reports an output that could not be created or written.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Options configures Encode.
type Options struct {
	// Quality applies to JPEG output, 1-100.
	Quality int
}

type encodeFunc func(w io.Writer, img image.Image, opts Options) error

var encoders = map[string]encodeFunc{
	".png": func(w io.Writer, img image.Image, _ Options) error {
		return png.Encode(w, img)
	},
	".jpg":  encodeJPEG,
	".jpeg": encodeJPEG,
	".gif": func(w io.Writer, img image.Image, _ Options) error {
		return gif.Encode(w, img, nil)
	},
	".bmp": func(w io.Writer, img image.Image, _ Options) error {
		return bmp.Encode(w, img)
	},
	".tif":  encodeTIFF,
	".tiff": encodeTIFF,
}

func encodeJPEG(w io.Writer, img image.Image, opts Options) error {
	if err := checkQuality(opts.Quality); err != nil {
		return err
	}
	q := opts.Quality
	if q == 0 {
		q = DefaultQuality
	}
	return jpeg.Encode(w, img, &jpeg.Options{Quality: q})
}

// checkQuality accepts zero, meaning DefaultQuality.
func checkQuality(q int) error {
	if q < 0 || q > 100 {
		return errors.Errorf("jpeg quality %d out of range 1-100", q)
	}
	return nil
}

func encodeTIFF(w io.Writer, img image.Image, _ Options) error {
	return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
}

// Supported reports whether path has an extension Encode can write.
func Supported(path string) bool {
	_, ok := encoders[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Check validates path and opts without writing anything.
func Check(path string, opts Options) error {
	if !Supported(path) {
		return &WriteError{Path: path, Err: errors.Errorf("unsupported output format %q", filepath.Ext(path))}
	}
	if err := checkQuality(opts.Quality); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

// Encode writes img to path in the format named by its extension.
func Encode(img image.Image, path string, opts Options) error {
	s, err := StageImage(img, path, opts)
	if err != nil {
		return err
	}
	return s.Commit()
}

// StageImage encodes img for path without moving it into place.
func StageImage(img image.Image, path string, opts Options) (*Staged, error) {
	if err := Check(path, opts); err != nil {
		return nil, err
	}
	enc := encoders[strings.ToLower(filepath.Ext(path))]
	return Stage(path, func(w io.Writer) error {
		return enc(w, img, opts)
	})
}

// WriteFile creates path with the content produced by write. The file
// appears only if write and every filesystem step succeed.
func WriteFile(path string, write func(w io.Writer) error) error {
	s, err := Stage(path, write)
	if err != nil {
		return err
	}
	return s.Commit()
}

// Staged is a fully written temporary file waiting to replace its
// destination. Until Commit, the destination is untouched.
type Staged struct {
	path string
	tmp  string
	done bool
}

// Stage writes the content produced by write to a temporary file beside
// path.
func Stage(path string, write func(w io.Writer) error) (s *Staged, err error) {
	defer func() {
		if err != nil {
			var we *WriteError
			if !errors.As(err, &we) {
				err = &WriteError{Path: path, Err: err}
			}
		}
	}()

	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = write(tmp); err != nil {
		return nil, err
	}
	if err = tmp.Close(); err != nil {
		return nil, err
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return nil, err
	}
	return &Staged{path: path, tmp: tmp.Name()}, nil
}

// Path returns the destination.
func (s *Staged) Path() string { return s.path }

// Commit moves the file into place.
func (s *Staged) Commit() error {
	if s.done {
		return nil
	}
	s.done = true
	if err := os.Rename(s.tmp, s.path); err != nil {
		os.Remove(s.tmp)
		return &WriteError{Path: s.path, Err: err}
	}
	return nil
}

// Discard drops an uncommitted file. It is a no-op after Commit.
func (s *Staged) Discard() {
	if s.done {
		return
	}
	s.done = true
	os.Remove(s.tmp)
}
