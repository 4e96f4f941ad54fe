package images

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"
)

// Fetcher retrieves images from remote URLs for segmentation.
type Fetcher struct {
	HTTPClient *http.Client
	MaxBytes   int64
}

// NewFetcher creates a fetcher with a sane timeout and size cap.
func NewFetcher(maxBytes int64) *Fetcher {
	return &Fetcher{
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		MaxBytes: maxBytes,
	}
}

// Fetch downloads the image at imageURL and returns its bytes together
// with a filename derived from the URL path.
func (f *Fetcher) Fetch(imageURL string) ([]byte, string, error) {
	resp, err := f.HTTPClient.Get(imageURL)
	if err != nil {
		return nil, "", fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("failed to download image: HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.MaxBytes))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image data: %w", err)
	}

	// Tiny responses are almost always an error page or placeholder,
	// not a microscopy image.
	if len(data) < 100 {
		return nil, "", fmt.Errorf("downloaded file too small (%d bytes)", len(data))
	}

	slog.Debug("Fetched remote image", "url", imageURL, "bytes", len(data))
	return data, FilenameFromURL(imageURL), nil
}

// FilenameFromURL extracts a usable filename from the URL path, falling
// back to a generic name when the path has none.
func FilenameFromURL(imageURL string) string {
	trimmed := strings.TrimSuffix(imageURL, "/")
	if idx := strings.IndexAny(trimmed, "?#"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	name := path.Base(trimmed)
	if name == "" || name == "." || name == "/" || !strings.Contains(name, ".") {
		return "image.png"
	}
	return name
}
