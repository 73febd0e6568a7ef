// Package preview plays a sheet's animations in a window.
//
// Run must be called from the function passed to opengl.Run.
package preview

import (
	"context"
	"image"
	"math"
	"os"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	pixel "github.com/gopxl/pixel/v2"
	"github.com/gopxl/pixel/v2/backends/opengl"
	"github.com/gopxl/pixel/v2/ext/imdraw"
	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/colornames"
	_ "golang.org/x/image/tiff"

	"github.com/delp/framesheet/internal/anim"
	"github.com/delp/framesheet/internal/logging"
	"github.com/delp/framesheet/internal/manifest"
)

// Options configures a preview window.
type Options struct {
	ManifestPath string
	// SheetPath overrides the sheet named in the manifest.
	SheetPath string
	// AnimsPath is a descriptor; without one every frame plays in order.
	AnimsPath string
	Start     string
	FPS       float64
	Width     float64
	Height    float64
}

func loadSheet(path string) (sheet pixel.Picture, err error) {
	defer func() {
		if err != nil {
			err = errors.Wrap(err, "error loading sheet")
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}
	return pixel.PictureDataFromImage(img), nil
}

// Run opens the window and blocks until it is closed or Escape is pressed.
// Left and Right switch animation, Tab plays in slow motion.
func Run(ctx context.Context, opts Options) error {
	logger := logging.FromContext(ctx)

	m, err := manifest.Read(opts.ManifestPath)
	if err != nil {
		return err
	}
	sheetPath := opts.SheetPath
	if sheetPath == "" {
		sheetPath = m.SheetPath(opts.ManifestPath)
	}
	sheet, err := loadSheet(sheetPath)
	if err != nil {
		return err
	}

	ranges := anim.ByRow(m)
	if opts.AnimsPath != "" {
		if ranges, err = anim.Load(opts.AnimsPath); err != nil {
			return err
		}
	}
	if err := anim.Validate(ranges, len(m.Visible())); err != nil {
		return err
	}
	player, err := anim.NewPlayer(ranges, opts.FPS, opts.Start)
	if err != nil {
		return err
	}
	frames := anim.Frames(m)

	win, err := opengl.NewWindow(opengl.WindowConfig{
		Title:  "framesheet: " + m.Sheet,
		Bounds: pixel.R(0, 0, opts.Width, opts.Height),
		VSync:  true,
	})
	if err != nil {
		return errors.Wrap(err, "opening preview window")
	}
	defer win.Destroy()

	tile := pixel.R(0, 0, float64(m.Tile.Width), float64(m.Tile.Height))
	outline := tile.Moved(tile.Center().Scaled(-1))
	sprite := pixel.NewSprite(sheet, frames[player.Frame()])
	imd := imdraw.New(nil)

	logger.Info("Preview started.", "sheet", sheetPath, "animation", player.Range().Name, "frames", len(frames))

	last := time.Now()
	shown := ""
	for !win.Closed() {
		dt := time.Since(last).Seconds()
		last = time.Now()

		if win.JustPressed(pixel.KeyEscape) {
			return nil
		}
		if win.Pressed(pixel.KeyTab) {
			dt /= 8
		}
		if win.JustPressed(pixel.KeyRight) {
			player.Next(1)
		}
		if win.JustPressed(pixel.KeyLeft) {
			player.Next(-1)
		}
		if name := player.Range().Name; name != shown {
			logger.Info("Playing animation.", "animation", name)
			shown = name
		}

		player.Update(dt)
		sprite.Set(sheet, frames[player.Frame()])

		// scale the tile to fit the window, keeping its aspect ratio
		scale := math.Min(win.Bounds().W()/tile.W(), win.Bounds().H()/tile.H()) * 0.9
		cam := pixel.IM.Scaled(pixel.ZV, scale).Moved(win.Bounds().Center())

		imd.Clear()
		imd.Color = colornames.Gray
		imd.SetMatrix(cam)
		imd.Push(outline.Min, outline.Max)
		imd.Rectangle(1 / scale)

		win.Clear(colornames.White)
		imd.Draw(win)
		// sprites draw centred; shift so the frame sits top-left in the tile like on the sheet
		offset := pixel.V(sprite.Frame().W()-tile.W(), tile.H()-sprite.Frame().H()).Scaled(0.5)
		sprite.Draw(win, pixel.IM.Moved(offset).Scaled(pixel.ZV, scale).Moved(win.Bounds().Center()))
		win.Update()
	}
	return nil
}
