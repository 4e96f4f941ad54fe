// Package cellposehttp is a client for a Cellpose-compatible inference
// server. The server owns the neural network, flow computation and mask
// reconstruction; this client only marshals the image and parameters and
// decodes the returned label mask.
package cellposehttp

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"image/png"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/cellseg-labs/cellseg/internal/engine"
	"github.com/cellseg-labs/cellseg/internal/imaging"
)

// Client talks to a segmentation server over its JSON API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New builds a client against CELLSEG_ENGINE_URL, defaulting to a local
// inference server.
func New() *Client {
	baseURL := os.Getenv("CELLSEG_ENGINE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:9191"
	}
	return NewWithURL(baseURL)
}

// NewWithURL builds a client against an explicit server URL.
func NewWithURL(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			// Inference on large images can take a while on CPU.
			Timeout: 5 * time.Minute,
		},
	}
}

func (c *Client) Name() string {
	return "cellpose-http"
}

type segmentRequest struct {
	Image             string  `json:"image"` // base64 PNG
	Model             string  `json:"model"`
	Diameter          float64 `json:"diameter"`
	FlowThreshold     float64 `json:"flow_threshold"`
	CellprobThreshold float64 `json:"cellprob_threshold"`
	Channels          [2]int  `json:"channels"`
}

type segmentResponse struct {
	Mask       string `json:"mask"` // base64 little-endian int32, row-major
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	DurationMs int64  `json:"duration_ms"`
}

// Segment sends the image to the server's inference entry point.
func (c *Client) Segment(ctx context.Context, img *imaging.Image, params engine.Params) (*engine.Result, error) {
	var encoded bytes.Buffer
	if err := png.Encode(&encoded, img.Pixels); err != nil {
		return nil, fmt.Errorf("failed to encode image for engine: %w", err)
	}

	requestBody, err := json.Marshal(segmentRequest{
		Image:             base64.StdEncoding.EncodeToString(encoded.Bytes()),
		Model:             params.Model,
		Diameter:          params.Diameter,
		FlowThreshold:     params.FlowThreshold,
		CellprobThreshold: params.CellprobThreshold,
		Channels:          [2]int{params.Chan, params.Chan2},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/v1/segment", bytes.NewBuffer(requestBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach segmentation engine: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("segmentation engine returned status %d: %s", resp.StatusCode, string(body))
	}

	var response segmentResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode engine response: %w", err)
	}

	mask, err := decodeMask(response.Mask, response.Width, response.Height)
	if err != nil {
		return nil, err
	}

	duration := time.Since(start)
	if response.DurationMs > 0 {
		duration = time.Duration(response.DurationMs) * time.Millisecond
	}

	return &engine.Result{
		Mask:      mask,
		Width:     response.Width,
		Height:    response.Height,
		CellCount: imaging.CountCells(mask),
		Duration:  duration,
	}, nil
}

// Models lists the pretrained models the server can run.
func (c *Client) Models(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/v1/models", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create new request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach segmentation engine: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("segmentation engine returned status %d: %s", resp.StatusCode, string(body))
	}

	var response struct {
		Models []string `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode engine response: %w", err)
	}
	return response.Models, nil
}

func decodeMask(encoded string, width, height int) ([]int32, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("engine reported invalid mask shape %dx%d", width, height)
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode mask payload: %w", err)
	}
	if len(raw) != 4*width*height {
		return nil, fmt.Errorf("mask payload is %d bytes, expected %d for %dx%d", len(raw), 4*width*height, width, height)
	}
	mask := make([]int32, width*height)
	for i := range mask {
		mask[i] = int32(binary.LittleEndian.Uint32(raw[4*i:]))
	}
	return mask, nil
}
