package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cellseg-labs/cellseg/internal/artifacts"
	"github.com/cellseg-labs/cellseg/internal/engine"
	"github.com/cellseg-labs/cellseg/internal/imaging"
	"github.com/cellseg-labs/cellseg/internal/metrics"
)

type segmentRequest struct {
	SessionID      string        `json:"session_id"`
	Params         engine.Params `json:"params"`
	DisplayChannel string        `json:"display_channel"`
	Colormap       string        `json:"colormap"`
}

type segmentResponse struct {
	SessionID  string   `json:"session_id"`
	CellCount  int      `json:"cell_count"`
	Summary    string   `json:"summary"`
	Artifacts  []string `json:"artifacts"`
	DurationMs int64    `json:"duration_ms"`
}

// HandleSegment runs the engine on a session's upload and writes the
// artifact bundle.
func (h *Handler) HandleSegment(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request segmentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if request.DisplayChannel == "" {
		request.DisplayChannel = imaging.DisplayRGB
	}
	if request.Colormap == "" {
		request.Colormap = "tab20b"
	}

	if err := request.Params.Validate(); err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := imaging.ValidateDisplayChannel(request.DisplayChannel); err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if _, err := imaging.GetColormap(request.Colormap); err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	session, ok := h.getSessionOrError(w, request.SessionID)
	if !ok {
		return
	}

	img, err := h.loadSessionImage(session)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			h.writeError(w, err.Error(), http.StatusNotFound)
			return
		}
		h.writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	slog.Info("Segmentation starting", "session_id", session.ID, "engine", h.engine.Name(),
		"model", request.Params.Model, "diameter", request.Params.Diameter,
		"flow_threshold", request.Params.FlowThreshold)

	start := time.Now()
	result, err := h.engine.Segment(r.Context(), img, request.Params)
	if err != nil {
		metrics.SegmentationsTotal.WithLabelValues(h.engine.Name(), request.Params.Model, "error").Inc()
		h.writeError(w, "Segmentation failed: "+err.Error()+". Check your input image and parameters.", http.StatusBadGateway)
		return
	}
	if err := result.Validate(img); err != nil {
		metrics.SegmentationsTotal.WithLabelValues(h.engine.Name(), request.Params.Model, "error").Inc()
		h.writeError(w, "Segmentation failed: "+err.Error(), http.StatusBadGateway)
		return
	}

	paths, err := artifacts.Save(h.outputsDir, img, result, request.DisplayChannel, request.Colormap)
	if err != nil {
		metrics.SegmentationsTotal.WithLabelValues(h.engine.Name(), request.Params.Model, "error").Inc()
		h.writeError(w, "Failed to save results: "+err.Error(), http.StatusInternalServerError)
		return
	}

	duration := time.Since(start)
	metrics.SegmentationsTotal.WithLabelValues(h.engine.Name(), request.Params.Model, "ok").Inc()
	metrics.SegmentationDuration.WithLabelValues(h.engine.Name(), request.Params.Model).Observe(duration.Seconds())

	params := request.Params
	session.Engine = h.engine.Name()
	session.Params = &params
	session.CellCount = result.CellCount
	session.Summary = params.Summary(request.DisplayChannel, request.Colormap)
	session.Artifacts = artifactURLs(paths)
	h.sessionStore.Set(session.ID, session)

	slog.Info("Segmentation complete", "session_id", session.ID, "cells", result.CellCount,
		"duration", duration, "artifacts", len(paths))

	h.writeJSON(w, segmentResponse{
		SessionID:  session.ID,
		CellCount:  result.CellCount,
		Summary:    session.Summary,
		Artifacts:  session.Artifacts,
		DurationMs: duration.Milliseconds(),
	})
}

// artifactURLs maps artifact file paths onto the static route.
func artifactURLs(paths []string) []string {
	urls := make([]string, 0, len(paths))
	for _, p := range paths {
		urls = append(urls, "/static/outputs/"+filepath.Base(strings.ReplaceAll(p, "\\", "/")))
	}
	return urls
}
