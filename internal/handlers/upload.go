package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/cellseg-labs/cellseg/internal/imaging"
)

// defaultMaxUploadBytes caps uploads; microscopy TIFFs run large.
const defaultMaxUploadBytes = 32 * 1024 * 1024

func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Check if this is a JSON request with an image URL
	contentType := r.Header.Get("Content-Type")
	if strings.Contains(contentType, "application/json") {
		h.handleURLUpload(w, r)
		return
	}

	// Handle file upload
	h.handleFileUpload(w, r)
}

func (h *Handler) handleURLUpload(w http.ResponseWriter, r *http.Request) {
	var request struct {
		ImageURL string `json:"image_url"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	if request.ImageURL == "" {
		h.writeError(w, "image_url is required", http.StatusBadRequest)
		return
	}

	imageData, filename, err := h.fetcher.Fetch(request.ImageURL)
	if err != nil {
		h.writeError(w, "Failed to fetch image URL: "+err.Error(), http.StatusBadRequest)
		return
	}

	session, err := h.createUploadSession(imageData, filename)
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.writeJSON(w, map[string]any{
		"session_id": session.ID,
		"message":    "Successfully fetched image from URL",
		"session":    session,
		"source":     "url",
	})
}

func (h *Handler) handleFileUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("files")
	if err != nil {
		file, header, err = r.FormFile("file")
		if err != nil {
			h.writeError(w, "Failed to read file: "+err.Error(), http.StatusBadRequest)
			return
		}
	}
	defer file.Close()

	if !imaging.SupportedExtension(header.Filename) {
		h.writeError(w, "Unsupported file format. Supported extensions: "+imaging.SupportedExtensions(), http.StatusBadRequest)
		return
	}

	// Read one byte past the cap so an at-limit file is distinguishable
	// from an oversized one.
	fileData, err := io.ReadAll(io.LimitReader(file, h.maxUploadBytes+1))
	if err != nil {
		h.writeError(w, "Failed to read file contents: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if int64(len(fileData)) > h.maxUploadBytes {
		h.writeError(w, fmt.Sprintf("File too large (max %dMB)", h.maxUploadBytes/1024/1024), http.StatusBadRequest)
		return
	}

	session, err := h.createUploadSession(fileData, header.Filename)
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.writeJSON(w, map[string]any{
		"session_id": session.ID,
		"message":    "Successfully uploaded 1 image",
		"session":    session,
	})
}

// sessionID builds the ID the way uploads are named: basename plus unix
// timestamp for uniqueness.
func sessionID(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	return fmt.Sprintf("%s_%d", base, time.Now().Unix())
}
