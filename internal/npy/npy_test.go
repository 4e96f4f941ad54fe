package npy

import (
	"bytes"
	"testing"
)

func TestWriteHeaderAligned(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, []int32{1, 2, 3, 4, 5, 6}, 3, 2); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	raw := buf.Bytes()
	if string(raw[:6]) != "\x93NUMPY" {
		t.Error("Missing npy magic")
	}
	if raw[6] != 1 || raw[7] != 0 {
		t.Errorf("Expected version 1.0, got %d.%d", raw[6], raw[7])
	}

	headerEnd := len(raw) - 4*6
	if headerEnd%64 != 0 {
		t.Errorf("Header length %d is not a multiple of 64", headerEnd)
	}
	if raw[headerEnd-1] != '\n' {
		t.Error("Header must end with newline")
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name          string
		data          []int32
		width, height int
	}{
		{"small mask", []int32{0, 1, 1, 0, 2, 2}, 3, 2},
		{"single pixel", []int32{7}, 1, 1},
		{"negative values survive", []int32{-1, 0, 1, 2}, 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Write(&buf, tt.data, tt.width, tt.height); err != nil {
				t.Fatalf("Write failed: %v", err)
			}

			data, width, height, err := Read(&buf)
			if err != nil {
				t.Fatalf("Read failed: %v", err)
			}
			if width != tt.width || height != tt.height {
				t.Errorf("Expected %dx%d, got %dx%d", tt.width, tt.height, width, height)
			}
			for i := range tt.data {
				if data[i] != tt.data[i] {
					t.Errorf("Value %d: expected %d, got %d", i, tt.data[i], data[i])
				}
			}
		})
	}
}

func TestWriteRejectsShapeMismatch(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, []int32{1, 2}, 3, 2); err == nil {
		t.Error("Expected error for mismatched data length")
	}
}

func TestReadRejectsGarbage(t *testing.T) {
	if _, _, _, err := Read(bytes.NewReader([]byte("definitely not npy"))); err == nil {
		t.Error("Expected error for non-npy data")
	}
}
