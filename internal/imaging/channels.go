package imaging

import (
	"fmt"
	"image"
	"strings"
)

// Display channels for the original-image panel of the result figure.
const (
	DisplayRGB       = "RGB"
	DisplayGrayscale = "Grayscale"
	DisplayRed       = "Red"
	DisplayGreen     = "Green"
	DisplayBlue      = "Blue"
)

var validDisplayChannels = []string{DisplayRGB, DisplayGrayscale, DisplayRed, DisplayGreen, DisplayBlue}

// ValidDisplayChannels returns the accepted display channel names.
func ValidDisplayChannels() []string {
	out := make([]string, len(validDisplayChannels))
	copy(out, validDisplayChannels)
	return out
}

// ValidateDisplayChannel checks a display channel name.
func ValidateDisplayChannel(channel string) error {
	for _, v := range validDisplayChannels {
		if channel == v {
			return nil
		}
	}
	return fmt.Errorf("invalid display channel %q, must be one of: %s", channel, strings.Join(validDisplayChannels, ", "))
}

// ApplyDisplayChannel renders the image according to the selected display
// channel: a copy for RGB, the per-pixel channel mean for Grayscale, or a
// single channel replicated to gray for Red/Green/Blue.
func ApplyDisplayChannel(img *Image, channel string) (*image.NRGBA, error) {
	if err := ValidateDisplayChannel(channel); err != nil {
		return nil, err
	}

	src := img.Pixels
	out := image.NewNRGBA(src.Bounds())

	switch channel {
	case DisplayRGB:
		copy(out.Pix, src.Pix)
	case DisplayGrayscale:
		for i := 0; i < len(src.Pix); i += 4 {
			mean := (uint32(src.Pix[i]) + uint32(src.Pix[i+1]) + uint32(src.Pix[i+2])) / 3
			v := uint8(mean)
			out.Pix[i] = v
			out.Pix[i+1] = v
			out.Pix[i+2] = v
			out.Pix[i+3] = 0xff
		}
	default:
		offset := map[string]int{DisplayRed: 0, DisplayGreen: 1, DisplayBlue: 2}[channel]
		for i := 0; i < len(src.Pix); i += 4 {
			v := src.Pix[i+offset]
			out.Pix[i] = v
			out.Pix[i+1] = v
			out.Pix[i+2] = v
			out.Pix[i+3] = 0xff
		}
	}

	return out, nil
}
