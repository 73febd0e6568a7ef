package manifest

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/delp/framesheet/internal/grid"
	"github.com/delp/framesheet/internal/sheet"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func frames(sizes ...image.Point) []image.Image {
	var out []image.Image
	for _, s := range sizes {
		out = append(out, image.NewAlpha(image.Rectangle{Max: s}))
	}
	return out
}

func TestBuild(t *testing.T) {
	images := frames(image.Pt(4, 2), image.Pt(3, 3), image.Pt(1, 1))
	l := sheet.Plan(images, grid.Spec{Rows: 1, Columns: 2})

	got := Build("out/walk.png", []string{"a.png", "b.png", "c.png"}, l)
	want := &Manifest{
		Sheet:  "walk.png",
		Width:  8,
		Height: 3,
		Tile:   sheet.Extent{Width: 4, Height: 3},
		Grid:   grid.Spec{Rows: 1, Columns: 2},
		Frames: []Frame{
			{Index: 0, Source: "a.png", X: 0, Y: 0, Width: 4, Height: 2},
			{Index: 1, Source: "b.png", Column: 1, X: 4, Y: 0, Width: 3, Height: 3},
			{Index: 2, Source: "c.png", Row: 1, X: 0, Y: 3, Width: 1, Height: 1, Clipped: true},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Build mismatch (-want +got):\n%s", diff)
	}
	require.Len(t, got.Visible(), 2)
}

func TestWriteRead(t *testing.T) {
	dir := t.TempDir()
	images := frames(image.Pt(2, 2), image.Pt(2, 2))
	m := Build(filepath.Join(dir, "s.png"), []string{"x.png", "y.png"}, sheet.Plan(images, grid.Spec{Rows: 1, Columns: 2}))

	path := DefaultPath(filepath.Join(dir, "s.png"))
	require.Equal(t, filepath.Join(dir, "s.json"), path)
	require.NoError(t, Write(m, path))

	got, err := Read(path)
	require.NoError(t, err)
	if diff := cmp.Diff(m, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, filepath.Join(dir, "s.png"), got.SheetPath(path))
}

func TestReadErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := Read(filepath.Join(dir, "none.json"))
	require.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o644))
	_, err = Read(bad)
	require.ErrorContains(t, err, "parsing manifest")
}
