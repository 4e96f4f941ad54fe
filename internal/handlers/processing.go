package handlers

import (
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/cellseg-labs/cellseg/internal/imaging"
	"github.com/cellseg-labs/cellseg/internal/metrics"
	"github.com/cellseg-labs/cellseg/internal/models"
	"github.com/cellseg-labs/cellseg/internal/utils"
)

// previewMaxEdge caps the browser preview; the stored upload keeps full
// resolution for segmentation.
const previewMaxEdge = 1024

// createUploadSession decodes and stores an upload, then registers a new
// session for it. The raw bytes are kept on disk under a content-hash name
// so the segment handler can re-decode the exact upload later. A downscaled
// PNG preview is written alongside because the browser cannot render TIFF.
func (h *Handler) createUploadSession(fileData []byte, filename string) (*models.SegmentSession, error) {
	img, err := imaging.Decode(fileData)
	if err != nil {
		return nil, err
	}

	if err := h.ensureUploadsDir(); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}

	hash := utils.CalculateDataMD5(fileData)
	imageFilename := hash + filepath.Ext(filename)
	imageFilePath := filepath.Join(h.uploadsDir, imageFilename)
	if err := os.WriteFile(imageFilePath, fileData, 0644); err != nil {
		return nil, fmt.Errorf("failed to save image: %w", err)
	}

	previewFilename := hash + "_preview.png"
	previewFile, err := os.Create(filepath.Join(h.uploadsDir, previewFilename))
	if err != nil {
		return nil, fmt.Errorf("failed to create preview: %w", err)
	}
	defer previewFile.Close()
	if err := png.Encode(previewFile, imaging.Preview(img, previewMaxEdge)); err != nil {
		return nil, fmt.Errorf("failed to encode preview: %w", err)
	}

	slog.Info("Image saved", "filename", imageFilename, "width", img.Width, "height", img.Height, "format", img.Format)
	metrics.UploadsTotal.Inc()

	session := &models.SegmentSession{
		ID: sessionID(filename),
		Image: models.UploadedImage{
			Filename:   filename,
			Path:       imageFilePath,
			PreviewURL: "/static/uploads/" + previewFilename,
			Width:      img.Width,
			Height:     img.Height,
			Format:     img.Format,
		},
		CreatedAt: time.Now(),
	}
	h.sessionStore.Set(session.ID, session)
	return session, nil
}

// loadSessionImage re-decodes the stored upload for a session.
func (h *Handler) loadSessionImage(session *models.SegmentSession) (*imaging.Image, error) {
	fileData, err := os.ReadFile(session.Image.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read stored upload (re-upload the image): %w", err)
	}
	return imaging.Decode(fileData)
}
