package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode test PNG: %v", err)
	}
	return buf.Bytes()
}

func TestDecodeNormalizesToRGB(t *testing.T) {
	tests := []struct {
		name string
		src  image.Image
	}{
		{
			name: "grayscale replicated across channels",
			src: func() image.Image {
				img := image.NewGray(image.Rect(0, 0, 2, 2))
				img.SetGray(0, 0, color.Gray{Y: 128})
				return img
			}(),
		},
		{
			name: "alpha dropped from RGBA",
			src: func() image.Image {
				img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
				img.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 100})
				return img
			}(),
		},
		{
			name: "16-bit scaled to 8-bit",
			src: func() image.Image {
				img := image.NewGray16(image.Rect(0, 0, 2, 2))
				img.SetGray16(0, 0, color.Gray16{Y: 0xffff})
				return img
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, err := Decode(encodePNG(t, tt.src))
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if decoded.Width != 2 || decoded.Height != 2 {
				t.Errorf("Expected 2x2, got %dx%d", decoded.Width, decoded.Height)
			}
			for i := 3; i < len(decoded.Pixels.Pix); i += 4 {
				if decoded.Pixels.Pix[i] != 0xff {
					t.Errorf("Pixel %d is not opaque", i/4)
				}
			}
		})
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode([]byte("not an image")); err == nil {
		t.Error("Expected error for undecodable data")
	}
}

func TestSupportedExtension(t *testing.T) {
	tests := []struct {
		filename string
		expected bool
	}{
		{"cells.png", true},
		{"cells.TIF", true},
		{"cells.tiff", true},
		{"cells.jpeg", true},
		{"cells.jpg", true},
		{"cells.bmp", false},
		{"cells", false},
	}

	for _, tt := range tests {
		if got := SupportedExtension(tt.filename); got != tt.expected {
			t.Errorf("SupportedExtension(%q) = %v, expected %v", tt.filename, got, tt.expected)
		}
	}
}

func TestApplyDisplayChannel(t *testing.T) {
	img := &Image{Pixels: image.NewNRGBA(image.Rect(0, 0, 1, 1)), Width: 1, Height: 1}
	img.Pixels.SetNRGBA(0, 0, color.NRGBA{R: 30, G: 60, B: 90, A: 0xff})

	tests := []struct {
		channel  string
		expected color.NRGBA
	}{
		{DisplayRGB, color.NRGBA{R: 30, G: 60, B: 90, A: 0xff}},
		{DisplayGrayscale, color.NRGBA{R: 60, G: 60, B: 60, A: 0xff}},
		{DisplayRed, color.NRGBA{R: 30, G: 30, B: 30, A: 0xff}},
		{DisplayGreen, color.NRGBA{R: 60, G: 60, B: 60, A: 0xff}},
		{DisplayBlue, color.NRGBA{R: 90, G: 90, B: 90, A: 0xff}},
	}

	for _, tt := range tests {
		t.Run(tt.channel, func(t *testing.T) {
			out, err := ApplyDisplayChannel(img, tt.channel)
			if err != nil {
				t.Fatalf("ApplyDisplayChannel failed: %v", err)
			}
			if got := out.NRGBAAt(0, 0); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}

	if _, err := ApplyDisplayChannel(img, "Cyan"); err == nil {
		t.Error("Expected error for invalid display channel")
	}
}

func TestGetColormap(t *testing.T) {
	for _, name := range ValidColormaps() {
		if _, err := GetColormap(name); err != nil {
			t.Errorf("GetColormap(%q) failed: %v", name, err)
		}
	}

	if _, err := GetColormap("jet"); err == nil {
		t.Error("Expected error for invalid colormap")
	}
}

func TestColormapBackgroundIsBlack(t *testing.T) {
	for _, name := range ValidColormaps() {
		cmap, err := GetColormap(name)
		if err != nil {
			t.Fatalf("GetColormap(%q) failed: %v", name, err)
		}
		if got := cmap.Color(0, 10); got != (color.NRGBA{A: 0xff}) {
			t.Errorf("Colormap %q background = %v, expected black", name, got)
		}
	}
}

func TestColormapQualitativeCycles(t *testing.T) {
	cmap, err := GetColormap("tab20b")
	if err != nil {
		t.Fatalf("GetColormap failed: %v", err)
	}
	if cmap.Color(1, 100) != cmap.Color(21, 100) {
		t.Error("Expected label 21 to reuse the color of label 1")
	}
	if cmap.Color(1, 100) == cmap.Color(2, 100) {
		t.Error("Expected adjacent labels to differ")
	}
}

func TestOutlines(t *testing.T) {
	// Single 2x2 cell in the middle of a 4x4 mask: every cell pixel
	// borders background or the edge of the cell, so all four are outline.
	mask := []int32{
		0, 0, 0, 0,
		0, 1, 1, 0,
		0, 1, 1, 0,
		0, 0, 0, 0,
	}
	outlines := Outlines(mask, 4, 4)

	expected := []int{5, 6, 9, 10}
	for _, i := range expected {
		if !outlines[i] {
			t.Errorf("Expected outline at index %d", i)
		}
	}
	count := 0
	for _, v := range outlines {
		if v {
			count++
		}
	}
	if count != len(expected) {
		t.Errorf("Expected %d outline pixels, got %d", len(expected), count)
	}
}

func TestOutlinesInteriorExcluded(t *testing.T) {
	// 3x3 solid cell filling the whole mask: only the border ring is outline.
	mask := []int32{
		1, 1, 1,
		1, 1, 1,
		1, 1, 1,
	}
	outlines := Outlines(mask, 3, 3)
	if outlines[4] {
		t.Error("Interior pixel should not be an outline")
	}
	if !outlines[0] || !outlines[2] || !outlines[6] || !outlines[8] {
		t.Error("Border pixels should be outlines")
	}
}

func TestOutlinesTouchingCells(t *testing.T) {
	// Two touching cells: the shared boundary is outline on both sides.
	mask := []int32{
		1, 1, 2, 2,
	}
	outlines := Outlines(mask, 4, 1)
	if !outlines[1] || !outlines[2] {
		t.Error("Pixels at the label boundary should be outlines")
	}
}

func TestCountCells(t *testing.T) {
	tests := []struct {
		name     string
		mask     []int32
		expected int
	}{
		{"empty mask", []int32{0, 0, 0}, 0},
		{"two cells", []int32{0, 1, 1, 2}, 2},
		{"non-contiguous labels", []int32{0, 3, 7, 7}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountCells(tt.mask); got != tt.expected {
				t.Errorf("Expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestPreview(t *testing.T) {
	img := &Image{Pixels: image.NewNRGBA(image.Rect(0, 0, 400, 200)), Width: 400, Height: 200}

	small := Preview(img, 100)
	if small.Bounds().Dx() != 100 {
		t.Errorf("Expected width 100, got %d", small.Bounds().Dx())
	}

	same := Preview(img, 800)
	if same.Bounds().Dx() != 400 {
		t.Errorf("Expected untouched width 400, got %d", same.Bounds().Dx())
	}
}
