package cmd

import (
	"fmt"
	"os"

	"github.com/cellseg-labs/cellseg/internal/engine"
	"github.com/cellseg-labs/cellseg/internal/engine/cellposehttp"
	"github.com/cellseg-labs/cellseg/internal/engine/onnx"
)

// newEngine builds the segmentation engine selected by CELLSEG_ENGINE
// ("http", the default, or "onnx").
func newEngine() (engine.Engine, func(), error) {
	kind := os.Getenv("CELLSEG_ENGINE")
	if kind == "" {
		kind = "http"
	}

	switch kind {
	case "http":
		return cellposehttp.New(), func() {}, nil
	case "onnx":
		modelPath := os.Getenv("CELLSEG_ONNX_MODEL")
		if modelPath == "" {
			return nil, nil, fmt.Errorf("CELLSEG_ONNX_MODEL must point at the exported .onnx model")
		}
		metadataPath := os.Getenv("CELLSEG_ONNX_METADATA")
		if metadataPath == "" {
			metadataPath = modelPath + ".json"
		}
		eng, err := onnx.New(modelPath, metadataPath)
		if err != nil {
			return nil, nil, err
		}
		return eng, eng.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported engine: %s", kind)
	}
}
