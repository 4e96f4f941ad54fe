package onnx

import (
	"image"
	"image/color"
	"testing"
)

func TestResizeMaskNearest(t *testing.T) {
	tests := []struct {
		name       string
		mask       []int32
		srcW, srcH int
		dstW, dstH int
		expected   []int32
	}{
		{
			name: "upscale 2x keeps labels",
			mask: []int32{1, 2, 3, 4},
			srcW: 2, srcH: 2, dstW: 4, dstH: 4,
			expected: []int32{
				1, 1, 2, 2,
				1, 1, 2, 2,
				3, 3, 4, 4,
				3, 3, 4, 4,
			},
		},
		{
			name: "same size copies",
			mask: []int32{5, 6, 7, 8},
			srcW: 2, srcH: 2, dstW: 2, dstH: 2,
			expected: []int32{5, 6, 7, 8},
		},
		{
			name: "downscale picks nearest",
			mask: []int32{
				1, 1, 2, 2,
				1, 1, 2, 2,
				3, 3, 4, 4,
				3, 3, 4, 4,
			},
			srcW: 4, srcH: 4, dstW: 2, dstH: 2,
			expected: []int32{1, 2, 3, 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resizeMaskNearest(tt.mask, tt.srcW, tt.srcH, tt.dstW, tt.dstH)
			if len(got) != len(tt.expected) {
				t.Fatalf("Expected %d pixels, got %d", len(tt.expected), len(got))
			}
			for i := range tt.expected {
				if got[i] != tt.expected[i] {
					t.Errorf("Pixel %d: expected %d, got %d", i, tt.expected[i], got[i])
				}
			}
		})
	}
}

func TestResizeMaskNearestNeverInterpolates(t *testing.T) {
	mask := []int32{0, 100}
	got := resizeMaskNearest(mask, 2, 1, 6, 1)
	for i, v := range got {
		if v != 0 && v != 100 {
			t.Errorf("Pixel %d has invented label %d", i, v)
		}
	}
}

func TestFillInput(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, G: 0, B: 0, A: 255})
	img.SetNRGBA(1, 1, color.NRGBA{R: 0, G: 0, B: 255, A: 255})

	data := make([]float32, 3*2*2)
	fillInput(data, img, 2)

	if data[0] < 0.99 {
		t.Errorf("Expected red channel of (0,0) near 1.0, got %f", data[0])
	}
	if data[2*4+3] < 0.99 {
		t.Errorf("Expected blue channel of (1,1) near 1.0, got %f", data[2*4+3])
	}
	if data[4] > 0.01 {
		t.Errorf("Expected green channel of (0,0) near 0, got %f", data[4])
	}
}
