// Package grid resolves the row and column counts of a sprite sheet from
// the number of input frames and any dimensions given explicitly.
package grid

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrInvalidArgument is returned, wrapped with detail, for an unusable
// frame count or grid dimension.
var ErrInvalidArgument = errors.New("invalid argument")

// Spec is a concrete grid. Rows and Columns are always at least 1, but
// Rows*Columns need not equal the number of frames: spare cells stay
// empty and frames past the last cell are clipped.
type Spec struct {
	Rows    int `json:"rows"`
	Columns int `json:"columns"`
}

// Legacy is the grid used when no dimensions are given and inference is
// turned off.
var Legacy = Spec{Rows: 1, Columns: 1}

// Cells returns the number of cells in the grid.
func (s Spec) Cells() int { return s.Rows * s.Columns }

func (s Spec) String() string { return fmt.Sprintf("%dx%d", s.Columns, s.Rows) }

// Resolve computes the grid for count frames. A nil rows or columns means
// the dimension was not given.
//
//   - both given: used as is.
//   - rows only: columns = count / rows.
//   - columns only: rows = count / columns.
//   - neither: the smallest n with n*n >= count for both.
func Resolve(count int, rows, columns *int) (Spec, error) {
	if count <= 0 {
		return Spec{}, errors.Wrapf(ErrInvalidArgument, "frame count must be positive, got %d", count)
	}
	if err := checkDim("rows", rows); err != nil {
		return Spec{}, err
	}
	if err := checkDim("columns", columns); err != nil {
		return Spec{}, err
	}

	var s Spec
	switch {
	case rows != nil && columns != nil:
		s = Spec{Rows: *rows, Columns: *columns}
	case rows != nil:
		s = Spec{Rows: *rows, Columns: count / *rows}
	case columns != nil:
		s = Spec{Rows: count / *columns, Columns: *columns}
	default:
		n := ceilSqrt(count)
		s = Spec{Rows: n, Columns: n}
	}

	// floor division leaves an empty axis when the divisor exceeds count
	if s.Rows < 1 || s.Columns < 1 {
		return Spec{}, errors.Wrapf(ErrInvalidArgument, "grid %s for %d frames has an empty axis", s, count)
	}
	return s, nil
}

func checkDim(name string, v *int) error {
	if v == nil {
		return nil
	}
	if *v == 0 {
		return errors.Wrapf(ErrInvalidArgument, "%s must not be zero", name)
	}
	if *v < 0 {
		return errors.Wrapf(ErrInvalidArgument, "%s must be positive, got %d", name, *v)
	}
	return nil
}

// ceilSqrt returns the smallest n with n*n >= x, for x >= 1.
func ceilSqrt(x int) int {
	n := 1
	for n*n < x {
		n++
	}
	return n
}
