// Package engine defines the boundary between this application and the
// segmentation model. Everything behind the Engine interface (network
// inference, flow computation, mask reconstruction) belongs to the wrapped
// model; callers only marshal inputs and consume the returned label mask.
package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cellseg-labs/cellseg/internal/imaging"
)

// ValidModels are the pretrained models the UI offers. Engines may report a
// different set; these are the defaults for validation when an engine does not.
var ValidModels = []string{"cyto3", "cyto2", "cyto", "nuclei"}

// Params is the primitive parameter set passed straight through to the model.
type Params struct {
	Model             string  `json:"model"`
	Diameter          float64 `json:"diameter"`
	FlowThreshold     float64 `json:"flow_threshold"`
	CellprobThreshold float64 `json:"cellprob_threshold"`
	Chan              int     `json:"chan"`
	Chan2             int     `json:"chan2"`
}

// DefaultParams mirrors the UI defaults: cyto3, 30px diameter, 0.4 flow
// threshold, cellprob 0, grayscale segmentation channels.
func DefaultParams() Params {
	return Params{
		Model:             "cyto3",
		Diameter:          30,
		FlowThreshold:     0.4,
		CellprobThreshold: 0,
	}
}

// Validate checks every field against the ranges the form enforces.
// Diameter 0 means the model estimates it.
func (p Params) Validate() error {
	valid := false
	for _, m := range ValidModels {
		if p.Model == m {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid model %q, must be one of: %s", p.Model, strings.Join(ValidModels, ", "))
	}
	if p.Diameter != 0 && (p.Diameter < 1 || p.Diameter > 100) {
		return fmt.Errorf("diameter must be in 1..100 (or 0 for auto), got %g", p.Diameter)
	}
	if p.FlowThreshold < 0 || p.FlowThreshold > 1 {
		return fmt.Errorf("flow_threshold must be in 0..1, got %g", p.FlowThreshold)
	}
	if p.CellprobThreshold < -6 || p.CellprobThreshold > 6 {
		return fmt.Errorf("cellprob_threshold must be in -6..6, got %g", p.CellprobThreshold)
	}
	if p.Chan < 0 || p.Chan > 3 {
		return fmt.Errorf("chan must be in 0..3, got %d", p.Chan)
	}
	if p.Chan2 < 0 || p.Chan2 > 3 {
		return fmt.Errorf("chan2 must be in 0..3, got %d", p.Chan2)
	}
	return nil
}

// Summary renders the settings line shown alongside results.
func (p Params) Summary(displayChannel, cmap string) string {
	return fmt.Sprintf("Model: %s, Diameter: %g, Flow Threshold: %g, Cellprob Threshold: %g, Display: %s, Seg Ch1: %d, Seg Ch2: %d, Colormap: %s",
		p.Model, p.Diameter, p.FlowThreshold, p.CellprobThreshold, displayChannel, p.Chan, p.Chan2, cmap)
}

// Result is the output bundle an engine returns: a label mask the size of
// the input image (background 0, each cell a distinct positive label).
type Result struct {
	Mask      []int32
	Width     int
	Height    int
	CellCount int
	Duration  time.Duration
}

// Validate checks the mask against the image it was computed from.
func (r *Result) Validate(img *imaging.Image) error {
	if r.Width != img.Width || r.Height != img.Height {
		return fmt.Errorf("engine returned %dx%d mask for %dx%d image", r.Width, r.Height, img.Width, img.Height)
	}
	if len(r.Mask) != r.Width*r.Height {
		return fmt.Errorf("mask length %d does not match %dx%d", len(r.Mask), r.Width, r.Height)
	}
	return nil
}

// Engine runs pretrained-model inference on an image.
type Engine interface {
	// Name identifies the engine in sessions and logs.
	Name() string
	// Models lists the pretrained models the engine can serve.
	Models(ctx context.Context) ([]string, error)
	// Segment runs inference and returns the label mask.
	Segment(ctx context.Context, img *imaging.Image, params Params) (*Result, error)
}
