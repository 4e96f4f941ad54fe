package imaging

import (
	"image"

	"github.com/nfnt/resize"
)

// Preview downscales an image so its longest edge fits maxEdge, for the
// upload preview in the web UI. Images already within the cap are returned
// as-is.
func Preview(img *Image, maxEdge int) image.Image {
	if img.Width <= maxEdge && img.Height <= maxEdge {
		return img.Pixels
	}
	if img.Width >= img.Height {
		return resize.Resize(uint(maxEdge), 0, img.Pixels, resize.Lanczos3)
	}
	return resize.Resize(0, uint(maxEdge), img.Pixels, resize.Lanczos3)
}
