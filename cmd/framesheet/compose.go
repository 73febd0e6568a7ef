package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/delp/framesheet/internal/grid"
	"github.com/delp/framesheet/internal/logging"
	"github.com/delp/framesheet/internal/manifest"
	"github.com/delp/framesheet/internal/output"
	"github.com/delp/framesheet/internal/pipeline"
	"github.com/delp/framesheet/internal/progress"
)

var composeCmd = &cobra.Command{
	Use:   "compose [flags] [input...]",
	Short: "Arrange input frames in a grid on one sheet",
	Long: `Arrange input frames in a grid on one sheet.

Every frame gets a tile as wide as the widest input and as tall as the
tallest. Frames are placed in row-major order in the order given. With only
--rows or only --columns the other dimension is the frame count divided by
it, rounded down; with neither, the grid is the smallest square that fits
every frame. Frames that do not fit in the grid are dropped from the sheet.`,
	RunE: runCompose,
}

func init() {
	composeCmd.Flags().StringP("output", "o", "", "Output sheet file (.png, .jpg, .gif, .bmp, .tif)")
	composeCmd.Flags().UintP("rows", "r", 0, "Number of rows in the sheet")
	composeCmd.Flags().UintP("columns", "c", 0, "Number of columns in the sheet")
	composeCmd.Flags().StringArrayP("inputs", "i", nil, "Input frame files, in order (positional arguments are appended)")
	composeCmd.Flags().Int("workers", 0, "Concurrent decodes (0 = number of CPUs)")
	composeCmd.Flags().Int("quality", output.DefaultQuality, "JPEG quality (1-100)")
	composeCmd.Flags().String("manifest", "", "Frame manifest path (default <output>.json)")
	composeCmd.Flags().Bool("no-manifest", false, "Do not write a frame manifest")
	composeCmd.Flags().String("anims-out", "", "Write an animation descriptor with one animation per row")
	composeCmd.Flags().Bool("no-infer", false, "Use a 1x1 grid when neither --rows nor --columns is given")
	composeCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(composeCmd)
}

// optionalDim returns the flag value as a grid dimension, or nil if unset.
func optionalDim(cmd *cobra.Command, name string) *int {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetUint(name)
	d := int(v)
	return &d
}

func runCompose(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	outputPath, _ := cmd.Flags().GetString("output")
	inputs, _ := cmd.Flags().GetStringArray("inputs")
	workers, _ := cmd.Flags().GetInt("workers")
	quality, _ := cmd.Flags().GetInt("quality")
	manifestPath, _ := cmd.Flags().GetString("manifest")
	noManifest, _ := cmd.Flags().GetBool("no-manifest")
	animsOut, _ := cmd.Flags().GetString("anims-out")
	noInfer, _ := cmd.Flags().GetBool("no-infer")

	inputs = append(inputs, args...)
	if len(inputs) == 0 {
		return errors.Wrap(grid.ErrInvalidArgument, "no input files given")
	}
	if noManifest {
		manifestPath = ""
	} else if manifestPath == "" {
		manifestPath = manifest.DefaultPath(outputPath)
	}

	result, err := pipeline.Run(ctx, pipeline.Options{
		Inputs:   inputs,
		Output:   outputPath,
		Rows:     optionalDim(cmd, "rows"),
		Columns:  optionalDim(cmd, "columns"),
		NoInfer:  noInfer,
		Workers:  workers,
		Quality:  quality,
		Manifest: manifestPath,
		AnimsOut: animsOut,
		Reporter: progress.NewLog(logger),
	})
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Composed %d frames into a %dx%d sheet (%d columns x %d rows of %dx%d tiles)\n",
		result.Frames, result.Width, result.Height,
		result.Grid.Columns, result.Grid.Rows, result.Tile.Width, result.Tile.Height)
	if result.Clipped > 0 {
		fmt.Fprintf(w, "Dropped: %d frames past the last row\n", result.Clipped)
	}
	fmt.Fprintf(w, "Output: %s\n", outputPath)
	if manifestPath != "" {
		fmt.Fprintf(w, "Manifest: %s\n", manifestPath)
	}
	return nil
}
