package anim

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	pixel "github.com/gopxl/pixel/v2"
	"github.com/stretchr/testify/require"

	"github.com/delp/framesheet/internal/manifest"
)

func TestParse(t *testing.T) {
	ranges, err := Parse(strings.NewReader("Front,0,0\nRun, 1, 4\nJump,5,6\n"))
	require.NoError(t, err)
	want := []Range{{"Front", 0, 0}, {"Run", 1, 4}, {"Jump", 5, 6}}
	if diff := cmp.Diff(want, ranges); diff != "" {
		t.Errorf("Parse mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, 4, ranges[1].Len())
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{"Run,1\n", "Run,a,2\n", "Run,1,b\n"} {
		_, err := Parse(strings.NewReader(in))
		require.ErrorContains(t, err, "animation descriptor", "input %q", in)
	}
}

func TestWriteLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "walk.csv")
	want := []Range{{"row0", 0, 3}, {"row1", 4, 5}}
	require.NoError(t, Write(path, want))

	got, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate([]Range{{"a", 0, 2}, {"b", 3, 3}}, 4))

	bad := [][]Range{
		{{"", 0, 0}},
		{{"a", 0, 0}, {"a", 1, 1}},
		{{"a", -1, 0}},
		{{"a", 2, 1}},
		{{"a", 0, 4}},
	}
	for _, ranges := range bad {
		require.Error(t, Validate(ranges, 4), "ranges %v", ranges)
	}
}

func TestByRow(t *testing.T) {
	m := &manifest.Manifest{Frames: []manifest.Frame{
		{Index: 0, Row: 0}, {Index: 1, Row: 0}, {Index: 2, Row: 0},
		{Index: 3, Row: 1},
		{Index: 4, Row: 2, Clipped: true},
	}}
	require.Equal(t, []Range{{"row0", 0, 2}, {"row1", 3, 3}}, ByRow(m))
	require.Equal(t, []Range{{"all", 0, 4}}, All(5))
}

func TestFramesFlipRows(t *testing.T) {
	m := &manifest.Manifest{
		Height: 20,
		Frames: []manifest.Frame{
			{X: 0, Y: 0, Width: 8, Height: 10},
			{X: 8, Y: 10, Width: 6, Height: 4},
		},
	}
	require.Equal(t, []pixel.Rect{pixel.R(0, 10, 8, 20), pixel.R(8, 6, 14, 10)}, Frames(m))
}

func TestPlayer(t *testing.T) {
	ranges := []Range{{"idle", 0, 0}, {"run", 1, 3}}
	p, err := NewPlayer(ranges, 4, "run")
	require.NoError(t, err)

	var seen []int
	for i := 0; i < 5; i++ {
		seen = append(seen, p.Frame())
		p.Update(0.25)
	}
	require.Equal(t, []int{1, 2, 3, 1, 2}, seen)

	p.Next(1)
	require.Equal(t, "idle", p.Range().Name)
	require.Equal(t, 0, p.Frame())
	p.Next(-1)
	require.Equal(t, "run", p.Range().Name)
	require.Equal(t, 1, p.Frame())
}

func TestNewPlayerErrors(t *testing.T) {
	_, err := NewPlayer(nil, 10, "")
	require.Error(t, err)
	_, err = NewPlayer(All(2), 0, "")
	require.Error(t, err)
	_, err = NewPlayer(All(2), 10, "jump")
	require.ErrorContains(t, err, "jump")

	p, err := NewPlayer(All(2), 10, "")
	require.NoError(t, err)
	require.Equal(t, "all", p.Range().Name)
}
