package main

import (
	"github.com/gopxl/pixel/v2/backends/opengl"
	"github.com/spf13/cobra"

	"github.com/delp/framesheet/internal/preview"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Play a sheet's animations in a window",
	Long: `Play a sheet's animations in a window.

Without --anims every sheet row plays as one animation.
Keys: Left/Right switch animation, Tab slow motion, Escape quit.`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().StringP("manifest", "m", "", "Frame manifest written by compose")
	previewCmd.Flags().String("sheet", "", "Sheet image (default: the one named in the manifest)")
	previewCmd.Flags().String("anims", "", "Animation descriptor (CSV name,start,end)")
	previewCmd.Flags().String("anim", "", "Animation to start with")
	previewCmd.Flags().Float64("fps", 10, "Frames per second")
	previewCmd.Flags().Float64("width", 800, "Window width")
	previewCmd.Flags().Float64("height", 600, "Window height")
	previewCmd.MarkFlagRequired("manifest")
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
	manifestPath, _ := cmd.Flags().GetString("manifest")
	sheetPath, _ := cmd.Flags().GetString("sheet")
	animsPath, _ := cmd.Flags().GetString("anims")
	start, _ := cmd.Flags().GetString("anim")
	fps, _ := cmd.Flags().GetFloat64("fps")
	width, _ := cmd.Flags().GetFloat64("width")
	height, _ := cmd.Flags().GetFloat64("height")

	opts := preview.Options{
		ManifestPath: manifestPath,
		SheetPath:    sheetPath,
		AnimsPath:    animsPath,
		Start:        start,
		FPS:          fps,
		Width:        width,
		Height:       height,
	}

	var err error
	opengl.Run(func() {
		err = preview.Run(cmd.Context(), opts)
	})
	return err
}
