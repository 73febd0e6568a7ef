// Package anim reads and writes animation descriptors and steps through
// their frames. A descriptor is CSV with one animation per record:
//
//	name,start,end
//
// where start and end are inclusive frame indices in the sheet manifest.
package anim

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"

	pixel "github.com/gopxl/pixel/v2"
	"github.com/pkg/errors"

	"github.com/delp/framesheet/internal/manifest"
	"github.com/delp/framesheet/internal/output"
)

// Range is a named run of frames.
type Range struct {
	Name  string
	Start int
	End   int
}

// Len returns the number of frames in r.
func (r Range) Len() int { return r.End - r.Start + 1 }

// Parse reads a descriptor.
func Parse(r io.Reader) (ranges []Range, err error) {
	defer func() {
		if err != nil {
			err = errors.Wrap(err, "error reading animation descriptor")
		}
	}()

	desc := csv.NewReader(r)
	desc.FieldsPerRecord = 3
	desc.TrimLeadingSpace = true
	for {
		rec, err := desc.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		start, err := strconv.Atoi(rec[1])
		if err != nil {
			return nil, errors.Wrapf(err, "animation %q start", rec[0])
		}
		end, err := strconv.Atoi(rec[2])
		if err != nil {
			return nil, errors.Wrapf(err, "animation %q end", rec[0])
		}
		ranges = append(ranges, Range{Name: rec[0], Start: start, End: end})
	}
	return ranges, nil
}

// Load reads the descriptor at path.
func Load(path string) ([]Range, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening animation descriptor")
	}
	defer f.Close()
	return Parse(f)
}

// Write stores ranges as a descriptor at path.
func Write(path string, ranges []Range) error {
	s, err := Stage(path, ranges)
	if err != nil {
		return err
	}
	return s.Commit()
}

// Stage writes the descriptor for path without moving it into place.
func Stage(path string, ranges []Range) (*output.Staged, error) {
	return output.Stage(path, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		for _, r := range ranges {
			if err := cw.Write([]string{r.Name, strconv.Itoa(r.Start), strconv.Itoa(r.End)}); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	})
}

// Validate checks that every range is non-empty and within frameCount.
func Validate(ranges []Range, frameCount int) error {
	seen := make(map[string]bool, len(ranges))
	for _, r := range ranges {
		if r.Name == "" {
			return errors.New("animation with empty name")
		}
		if seen[r.Name] {
			return errors.Errorf("animation %q defined twice", r.Name)
		}
		seen[r.Name] = true
		if r.Start < 0 || r.End < r.Start || r.End >= frameCount {
			return errors.Errorf("animation %q range %d-%d outside frames 0-%d", r.Name, r.Start, r.End, frameCount-1)
		}
	}
	return nil
}

// All is a single range spanning n frames.
func All(n int) []Range {
	return []Range{{Name: "all", Start: 0, End: n - 1}}
}

// ByRow returns one range per sheet row that holds at least one frame,
// named row0, row1, and so on.
func ByRow(m *manifest.Manifest) []Range {
	var ranges []Range
	for _, f := range m.Visible() {
		if n := len(ranges); n > 0 && ranges[n-1].Name == rowName(f.Row) {
			ranges[n-1].End = f.Index
			continue
		}
		ranges = append(ranges, Range{Name: rowName(f.Row), Start: f.Index, End: f.Index})
	}
	return ranges
}

func rowName(row int) string { return "row" + strconv.Itoa(row) }

// Frames converts manifest frames into picture rectangles. Pixel pictures
// have their origin at the bottom left, so rows are flipped against the
// sheet height.
func Frames(m *manifest.Manifest) []pixel.Rect {
	h := float64(m.Height)
	rects := make([]pixel.Rect, len(m.Frames))
	for i, f := range m.Frames {
		rects[i] = pixel.R(
			float64(f.X),
			h-float64(f.Y+f.Height),
			float64(f.X+f.Width),
			h-float64(f.Y),
		)
	}
	return rects
}

// Player steps through one range at a fixed rate.
type Player struct {
	ranges  []Range
	current int
	rate    float64
	counter float64
}

// NewPlayer plays ranges at fps frames per second, starting with the range
// named start, or the first one if start is empty.
func NewPlayer(ranges []Range, fps float64, start string) (*Player, error) {
	if len(ranges) == 0 {
		return nil, errors.New("no animations to play")
	}
	if fps <= 0 {
		return nil, errors.Errorf("frame rate must be positive, got %v", fps)
	}
	p := &Player{ranges: ranges, rate: 1 / fps}
	if start == "" {
		return p, nil
	}
	for i, r := range ranges {
		if r.Name == start {
			p.current = i
			return p, nil
		}
	}
	return nil, errors.Errorf("unknown animation %q", start)
}

// Update advances the clock by dt seconds.
func (p *Player) Update(dt float64) {
	p.counter += dt
}

// Range returns the animation being played.
func (p *Player) Range() Range { return p.ranges[p.current] }

// Frame returns the frame index to show now.
func (p *Player) Frame() int {
	r := p.Range()
	i := int(math.Floor(p.counter / p.rate))
	return r.Start + i%r.Len()
}

// Next switches to the animation dir steps away, wrapping, and restarts
// the clock.
func (p *Player) Next(dir int) {
	n := len(p.ranges)
	p.current = ((p.current+dir)%n + n) % n
	p.counter = 0
}
