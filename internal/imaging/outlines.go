package imaging

// Outlines computes the boundary pixels of a label mask. A pixel is part of
// an outline when its label is nonzero and at least one 4-neighbor carries a
// different label. Pixels on the image border count their missing neighbors
// as background.
func Outlines(mask []int32, width, height int) []bool {
	outlines := make([]bool, len(mask))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			label := mask[i]
			if label == 0 {
				continue
			}
			if x == 0 || mask[i-1] != label ||
				x == width-1 || mask[i+1] != label ||
				y == 0 || mask[i-width] != label ||
				y == height-1 || mask[i+width] != label {
				outlines[i] = true
			}
		}
	}
	return outlines
}

// CountCells returns the number of distinct nonzero labels in a mask.
func CountCells(mask []int32) int {
	seen := make(map[int32]struct{})
	for _, label := range mask {
		if label != 0 {
			seen[label] = struct{}{}
		}
	}
	return len(seen)
}

// MaxLabel returns the highest label in a mask, 0 for an empty mask.
func MaxLabel(mask []int32) int32 {
	var max int32
	for _, label := range mask {
		if label > max {
			max = label
		}
	}
	return max
}
