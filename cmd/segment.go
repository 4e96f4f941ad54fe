package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cellseg-labs/cellseg/internal/artifacts"
	"github.com/cellseg-labs/cellseg/internal/engine"
	"github.com/cellseg-labs/cellseg/internal/imaging"
)

type paramFlags struct {
	model             string
	diameter          float64
	flowThreshold     float64
	cellprobThreshold float64
	chan1             int
	chan2             int
	displayChannel    string
	colormap          string
	outputDir         string
}

func (f *paramFlags) register(cmd *cobra.Command) {
	defaults := engine.DefaultParams()
	cmd.Flags().StringVar(&f.model, "model", defaults.Model, "Pretrained model (cyto3, cyto2, cyto, nuclei)")
	cmd.Flags().Float64Var(&f.diameter, "diameter", defaults.Diameter, "Expected cell diameter in pixels (0 for auto)")
	cmd.Flags().Float64Var(&f.flowThreshold, "flow-threshold", defaults.FlowThreshold, "Flow threshold in 0..1")
	cmd.Flags().Float64Var(&f.cellprobThreshold, "cellprob-threshold", defaults.CellprobThreshold, "Cell probability threshold in -6..6")
	cmd.Flags().IntVar(&f.chan1, "chan", defaults.Chan, "Segmentation channel 1 (0=grayscale, 1=red, 2=green, 3=blue)")
	cmd.Flags().IntVar(&f.chan2, "chan2", defaults.Chan2, "Segmentation channel 2 (0=none, 1=red, 2=green, 3=blue)")
	cmd.Flags().StringVar(&f.displayChannel, "display", imaging.DisplayRGB, "Display channel for the figure (RGB, Grayscale, Red, Green, Blue)")
	cmd.Flags().StringVar(&f.colormap, "cmap", "tab20b", "Mask colormap")
	cmd.Flags().StringVar(&f.outputDir, "output-dir", artifacts.DefaultDir, "Directory for the result bundle")
}

// validate checks the full flag set before any engine work so a typo'd
// setting fails fast instead of after a full inference run.
func (f *paramFlags) validate(params engine.Params) error {
	if err := params.Validate(); err != nil {
		return err
	}
	if err := imaging.ValidateDisplayChannel(f.displayChannel); err != nil {
		return err
	}
	if _, err := imaging.GetColormap(f.colormap); err != nil {
		return err
	}
	return nil
}

func (f *paramFlags) params() engine.Params {
	return engine.Params{
		Model:             f.model,
		Diameter:          f.diameter,
		FlowThreshold:     f.flowThreshold,
		CellprobThreshold: f.cellprobThreshold,
		Chan:              f.chan1,
		Chan2:             f.chan2,
	}
}

func newSegmentCmd() *cobra.Command {
	var flags paramFlags

	cmd := &cobra.Command{
		Use:   "segment FILE",
		Short: "Segment a single image from the command line",
		Long: `Runs the segmentation engine on one image and writes the same result
bundle as the web interface: the raw mask as .npy, a colormapped mask PNG,
an outline overlay and the comparison figure as PNG and SVG.`,
		Example: `  # Segment with defaults (cyto3, diameter 30)
  cellseg segment cells.png

  # Nucleus segmentation with a custom diameter
  cellseg segment nuclei.tif --model nuclei --diameter 17`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if !imaging.SupportedExtension(path) {
				return fmt.Errorf("unsupported file format %s (supported: %s)", path, imaging.SupportedExtensions())
			}

			params := flags.params()
			if err := flags.validate(params); err != nil {
				return err
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read image: %w", err)
			}
			img, err := imaging.Decode(data)
			if err != nil {
				return err
			}

			eng, closeEngine, err := newEngine()
			if err != nil {
				return err
			}
			defer closeEngine()

			slog.Info("Segmentation starting", "file", path, "engine", eng.Name(), "model", params.Model)
			result, err := eng.Segment(cmd.Context(), img, params)
			if err != nil {
				return fmt.Errorf("segmentation failed: %w", err)
			}

			paths, err := artifacts.Save(flags.outputDir, img, result, flags.displayChannel, flags.colormap)
			if err != nil {
				return err
			}

			slog.Info("Segmentation complete", "cells", result.CellCount, "duration", result.Duration)
			fmt.Printf("Detected %d cells\n", result.CellCount)
			for _, p := range paths {
				fmt.Println(p)
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
