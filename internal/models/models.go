package models

import (
	"time"

	"github.com/cellseg-labs/cellseg/internal/engine"
)

// SegmentSession tracks one uploaded image and the segmentation runs
// against it.
type SegmentSession struct {
	ID        string         `json:"id"`
	Image     UploadedImage  `json:"image"`
	Engine    string         `json:"engine,omitempty"`
	Params    *engine.Params `json:"params,omitempty"`
	CellCount int            `json:"cell_count"`
	Summary   string         `json:"summary,omitempty"`
	Artifacts []string       `json:"artifacts,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// UploadedImage records where an upload was stored and its shape.
type UploadedImage struct {
	Filename   string `json:"filename"`
	Path       string `json:"path"`
	PreviewURL string `json:"preview_url"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Format     string `json:"format"`
}
