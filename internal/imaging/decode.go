package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/tiff"
)

// Image is an uploaded microscopy image normalized to 8-bit RGB.
// Grayscale sources are replicated across channels, alpha is dropped and
// 16-bit samples are scaled down, so downstream code only ever sees NRGBA
// with opaque pixels.
type Image struct {
	Pixels *image.NRGBA
	Width  int
	Height int
	Format string
}

var validExtensions = []string{".tif", ".tiff", ".png", ".jpg", ".jpeg", ".gif"}

// SupportedExtension reports whether the filename carries an extension we
// accept for upload.
func SupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, v := range validExtensions {
		if ext == v {
			return true
		}
	}
	return false
}

// SupportedExtensions returns the accepted upload extensions for error messages.
func SupportedExtensions() string {
	return strings.Join(validExtensions, ", ")
}

// Decode parses image data and normalizes it to 8-bit RGB.
func Decode(data []byte) (*Image, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image (supported formats: TIFF, PNG, JPEG, GIF): %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return nil, fmt.Errorf("image has zero dimensions")
	}

	// Converting through NRGBA handles grayscale replication, 16-bit
	// scaling and palette expansion in one pass.
	normalized := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(normalized, normalized.Bounds(), img, bounds.Min, draw.Src)

	// Force opaque pixels so RGBA sources render the same as RGB ones.
	for i := 3; i < len(normalized.Pix); i += 4 {
		normalized.Pix[i] = 0xff
	}

	return &Image{
		Pixels: normalized,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Format: format,
	}, nil
}
