package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"io"

	svg "github.com/ajstarks/svgo"
)

// WriteComparisonSVG writes the three-panel figure as an SVG with the
// panels embedded as PNG data URIs, matching the original's vector export.
func WriteComparisonSVG(w io.Writer, original, masks, outlines *image.NRGBA) error {
	panels := [3]*image.NRGBA{original, masks, outlines}
	panelW := original.Bounds().Dx()
	panelH := original.Bounds().Dy()

	width := 3*panelW + 4*figureMargin
	height := panelH + captionHeight + 2*figureMargin

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:white")

	for i, panel := range panels {
		href, err := dataURI(panel)
		if err != nil {
			return err
		}
		x := figureMargin + i*(panelW+figureMargin)
		canvas.Text(x+panelW/2, figureMargin+13, panelTitles[i],
			"font-family:sans-serif;font-size:13px;text-anchor:middle;fill:black")
		canvas.Image(x, figureMargin+captionHeight, panelW, panelH, href)
	}

	canvas.End()
	return nil
}

func dataURI(img *image.NRGBA) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode panel: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
