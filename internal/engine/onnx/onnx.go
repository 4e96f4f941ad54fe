// Package onnx runs a pretrained segmentation model exported to ONNX whose
// graph emits a label map directly. The runtime executes the model as a
// black box; nothing of the network itself lives here.
package onnx

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"math"
	"os"
	"sync"
	"time"

	"github.com/nfnt/resize"
	ort "github.com/yalue/onnxruntime_go"

	"github.com/cellseg-labs/cellseg/internal/engine"
	"github.com/cellseg-labs/cellseg/internal/imaging"
)

// Metadata describes the exported model, stored as JSON next to the .onnx
// file.
type Metadata struct {
	Model       string  `json:"model"`
	InputShape  []int64 `json:"input_shape"`  // [1, 3, S, S]
	OutputShape []int64 `json:"output_shape"` // [1, S, S]
	ImageSize   int     `json:"image_size"`
}

// Engine wraps a single ONNX session with fixed input/output tensors. Run
// calls are serialized because the tensors are reused between calls.
type Engine struct {
	session      *ort.AdvancedSession
	metadata     Metadata
	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]
	mu           sync.Mutex
}

// New loads the model and its metadata and creates the session.
func New(modelPath, metadataPath string) (*Engine, error) {
	if err := ort.InitializeEnvironment(); err != nil {
		return nil, fmt.Errorf("failed to initialize ONNX environment: %w", err)
	}

	metaFile, err := os.ReadFile(metadataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read model metadata: %w", err)
	}

	var metadata Metadata
	if err := json.Unmarshal(metaFile, &metadata); err != nil {
		return nil, fmt.Errorf("failed to parse model metadata: %w", err)
	}
	if metadata.ImageSize <= 0 {
		return nil, fmt.Errorf("model metadata has invalid image_size %d", metadata.ImageSize)
	}

	inputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(metadata.InputShape...))
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}

	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(metadata.OutputShape...))
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(modelPath,
		[]string{"input"}, []string{"output"},
		[]ort.ArbitraryTensor{inputTensor}, []ort.ArbitraryTensor{outputTensor},
		nil)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}

	return &Engine{
		session:      session,
		metadata:     metadata,
		inputTensor:  inputTensor,
		outputTensor: outputTensor,
	}, nil
}

func (e *Engine) Name() string {
	return "onnx"
}

// Models reports the single model baked into the session.
func (e *Engine) Models(ctx context.Context) ([]string, error) {
	if e.metadata.Model == "" {
		return []string{"onnx"}, nil
	}
	return []string{e.metadata.Model}, nil
}

// Segment resizes the image to the model's native size, runs the session and
// resizes the label map back with nearest-neighbor so labels stay intact.
// Diameter and threshold parameters are baked into the exported graph and
// ignored here.
func (e *Engine) Segment(ctx context.Context, img *imaging.Image, params engine.Params) (*engine.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	size := e.metadata.ImageSize
	resized := resize.Resize(uint(size), uint(size), img.Pixels, resize.Lanczos3)

	e.mu.Lock()
	defer e.mu.Unlock()

	fillInput(e.inputTensor.GetData(), resized, size)

	start := time.Now()
	if err := e.session.Run(); err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}
	duration := time.Since(start)

	native := make([]int32, size*size)
	for i, v := range e.outputTensor.GetData()[:size*size] {
		native[i] = int32(math.Round(float64(v)))
	}

	mask := resizeMaskNearest(native, size, size, img.Width, img.Height)

	return &engine.Result{
		Mask:      mask,
		Width:     img.Width,
		Height:    img.Height,
		CellCount: imaging.CountCells(mask),
		Duration:  duration,
	}, nil
}

// Close releases the session and tensors.
func (e *Engine) Close() {
	if e.inputTensor != nil {
		e.inputTensor.Destroy()
	}
	if e.outputTensor != nil {
		e.outputTensor.Destroy()
	}
	if e.session != nil {
		e.session.Destroy()
	}
	ort.DestroyEnvironment()
}

// fillInput writes the image as normalized CHW floats.
func fillInput(data []float32, img image.Image, size int) {
	plane := size * size
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			i := y*size + x
			data[i] = float32(r) / 65535.0
			data[plane+i] = float32(g) / 65535.0
			data[2*plane+i] = float32(b) / 65535.0
		}
	}
}

// resizeMaskNearest maps each output pixel to its nearest source pixel.
// Interpolating label values would invent labels, so nearest-neighbor is the
// only correct resampling here.
func resizeMaskNearest(mask []int32, srcW, srcH, dstW, dstH int) []int32 {
	if srcW == dstW && srcH == dstH {
		out := make([]int32, len(mask))
		copy(out, mask)
		return out
	}
	out := make([]int32, dstW*dstH)
	for y := 0; y < dstH; y++ {
		sy := y * srcH / dstH
		for x := 0; x < dstW; x++ {
			sx := x * srcW / dstW
			out[y*dstW+x] = mask[sy*srcW+sx]
		}
	}
	return out
}
