// Package artifacts writes the per-run export bundle: the raw mask as .npy,
// the colormapped mask, the outline overlay and the comparison figure as PNG
// and SVG.
package artifacts

import (
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/cellseg-labs/cellseg/internal/engine"
	"github.com/cellseg-labs/cellseg/internal/imaging"
	"github.com/cellseg-labs/cellseg/internal/npy"
	"github.com/cellseg-labs/cellseg/internal/render"
)

// DefaultDir is where run outputs land unless overridden.
const DefaultDir = "outputs"

// Save renders and writes the full bundle for one segmentation run and
// returns the written file paths in a stable order (npy, masks png,
// outlines png, figure png, figure svg).
func Save(outputDir string, img *imaging.Image, result *engine.Result, displayChannel, cmapName string) ([]string, error) {
	if err := result.Validate(img); err != nil {
		return nil, err
	}

	cmap, err := imaging.GetColormap(cmapName)
	if err != nil {
		return nil, err
	}
	original, err := imaging.ApplyDisplayChannel(img, displayChannel)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	base := "cellseg_" + time.Now().Format("2006-01-02_15-04-05")

	outlines := imaging.Outlines(result.Mask, result.Width, result.Height)
	masksImg := render.Colorize(result.Mask, result.Width, result.Height, cmap)
	overlayImg := render.OutlineOverlay(img.Pixels, outlines)
	outlinesImg := render.OutlineImage(outlines, result.Width, result.Height)
	figure := render.Comparison(original, masksImg, outlinesImg)

	var paths []string
	write := func(name string, fn func(*os.File) error) error {
		path := filepath.Join(outputDir, name)
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", name, err)
		}
		defer f.Close()
		if err := fn(f); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
		paths = append(paths, path)
		return nil
	}

	if err := write("masks_"+base+".npy", func(f *os.File) error {
		return npy.Write(f, result.Mask, result.Width, result.Height)
	}); err != nil {
		return nil, err
	}
	if err := write("masks_"+base+".png", func(f *os.File) error {
		return png.Encode(f, masksImg)
	}); err != nil {
		return nil, err
	}
	if err := write("outlines_"+base+".png", func(f *os.File) error {
		return png.Encode(f, overlayImg)
	}); err != nil {
		return nil, err
	}
	if err := write("figure_"+base+".png", func(f *os.File) error {
		return png.Encode(f, figure)
	}); err != nil {
		return nil, err
	}
	if err := write("figure_"+base+".svg", func(f *os.File) error {
		return render.WriteComparisonSVG(f, original, masksImg, outlinesImg)
	}); err != nil {
		return nil, err
	}

	slog.Info("Saved artifact bundle", "dir", outputDir, "base", base, "files", len(paths))
	return paths, nil
}
