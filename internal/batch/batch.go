// Package batch runs the segmentation engine over a directory of images and
// records the results as a Parquet file plus a YAML run summary.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/cellseg-labs/cellseg/internal/artifacts"
	"github.com/cellseg-labs/cellseg/internal/engine"
	"github.com/cellseg-labs/cellseg/internal/imaging"
)

// Record is the outcome of one image in a batch run.
type Record struct {
	File              string  `parquet:"file" yaml:"file"`
	Model             string  `parquet:"model" yaml:"model"`
	Diameter          float64 `parquet:"diameter" yaml:"diameter"`
	FlowThreshold     float64 `parquet:"flow_threshold" yaml:"flowthreshold"`
	CellprobThreshold float64 `parquet:"cellprob_threshold" yaml:"cellprobthreshold"`
	Width             int32   `parquet:"width" yaml:"width"`
	Height            int32   `parquet:"height" yaml:"height"`
	CellCount         int32   `parquet:"cell_count" yaml:"cellcount"`
	DurationMs        int64   `parquet:"duration_ms" yaml:"durationms"`
	ArtifactCount     int32   `parquet:"artifact_count" yaml:"artifactcount"`
	Error             string  `parquet:"error,optional" yaml:"error,omitempty"`
}

// Runner holds the fixed settings for a batch run.
type Runner struct {
	Engine         engine.Engine
	Params         engine.Params
	DisplayChannel string
	Colormap       string
	OutputDir      string
}

// Run segments every supported image in dir. Per-image failures are
// recorded and the run continues; only setup problems abort the batch.
func (r *Runner) Run(ctx context.Context, dir string) ([]Record, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !imaging.SupportedExtension(entry.Name()) {
			continue
		}
		files = append(files, entry.Name())
	}
	sort.Strings(files)

	if len(files) == 0 {
		return nil, fmt.Errorf("no supported images in %s (supported: %s)", dir, imaging.SupportedExtensions())
	}

	records := make([]Record, 0, len(files))
	for i, name := range files {
		if err := ctx.Err(); err != nil {
			return records, err
		}

		slog.Info("Batch progress", "file", name, "index", i+1, "total", len(files))
		record := Record{
			File:              name,
			Model:             r.Params.Model,
			Diameter:          r.Params.Diameter,
			FlowThreshold:     r.Params.FlowThreshold,
			CellprobThreshold: r.Params.CellprobThreshold,
		}

		if err := r.runOne(ctx, filepath.Join(dir, name), &record); err != nil {
			slog.Warn("Batch image failed", "file", name, "error", err)
			record.Error = err.Error()
		}
		records = append(records, record)
	}
	return records, nil
}

func (r *Runner) runOne(ctx context.Context, path string, record *Record) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}
	img, err := imaging.Decode(data)
	if err != nil {
		return err
	}
	record.Width = int32(img.Width)
	record.Height = int32(img.Height)

	result, err := r.Engine.Segment(ctx, img, r.Params)
	if err != nil {
		return err
	}
	if err := result.Validate(img); err != nil {
		return err
	}

	paths, err := artifacts.Save(r.OutputDir, img, result, r.DisplayChannel, r.Colormap)
	if err != nil {
		return err
	}

	record.CellCount = int32(result.CellCount)
	record.DurationMs = result.Duration.Milliseconds()
	record.ArtifactCount = int32(len(paths))
	return nil
}
