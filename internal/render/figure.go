// Package render turns label masks into the presentation artifacts the UI
// shows and exports: colorized masks, outline overlays and a side-by-side
// comparison figure.
package render

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/cellseg-labs/cellseg/internal/imaging"
)

// Colorize renders a label mask with the given colormap. Background stays
// black.
func Colorize(mask []int32, width, height int, cmap *imaging.Colormap) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, width, height))
	maxLabel := imaging.MaxLabel(mask)
	for i, label := range mask {
		c := cmap.Color(label, maxLabel)
		out.Pix[4*i] = c.R
		out.Pix[4*i+1] = c.G
		out.Pix[4*i+2] = c.B
		out.Pix[4*i+3] = 0xff
	}
	return out
}

// OutlineImage renders outline pixels white on black.
func OutlineImage(outlines []bool, width, height int) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i, on := range outlines {
		v := uint8(0)
		if on {
			v = 0xff
		}
		out.Pix[4*i] = v
		out.Pix[4*i+1] = v
		out.Pix[4*i+2] = v
		out.Pix[4*i+3] = 0xff
	}
	return out
}

var outlineHighlight = color.NRGBA{R: 0xff, G: 0x66, B: 0x00, A: 0xff}

// OutlineOverlay paints the mask outlines over a copy of the original image.
func OutlineOverlay(img *image.NRGBA, outlines []bool) *image.NRGBA {
	out := image.NewNRGBA(img.Bounds())
	copy(out.Pix, img.Pix)
	for i, on := range outlines {
		if !on {
			continue
		}
		out.Pix[4*i] = outlineHighlight.R
		out.Pix[4*i+1] = outlineHighlight.G
		out.Pix[4*i+2] = outlineHighlight.B
		out.Pix[4*i+3] = 0xff
	}
	return out
}

const (
	figureMargin  = 12
	captionHeight = 20
)

var panelTitles = [3]string{"Original Image", "Segmentation Masks", "Outlines"}

// Comparison lays out the three result panels side by side with captions,
// the raster equivalent of the original three-subplot figure.
func Comparison(original, masks, outlines *image.NRGBA) *image.NRGBA {
	panels := [3]*image.NRGBA{original, masks, outlines}
	panelW := original.Bounds().Dx()
	panelH := original.Bounds().Dy()

	width := 3*panelW + 4*figureMargin
	height := panelH + captionHeight + 2*figureMargin
	fig := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(fig, fig.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	for i, panel := range panels {
		x := figureMargin + i*(panelW+figureMargin)
		drawCaption(fig, panelTitles[i], x, figureMargin+13, panelW)
		rect := image.Rect(x, figureMargin+captionHeight, x+panelW, figureMargin+captionHeight+panelH)
		draw.Draw(fig, rect, panel, panel.Bounds().Min, draw.Src)
	}
	return fig
}

func drawCaption(dst *image.NRGBA, text string, x, baseline, width int) {
	face := basicfont.Face7x13
	textWidth := font.MeasureString(face, text).Ceil()
	offset := (width - textWidth) / 2
	if offset < 0 {
		offset = 0
	}
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.Black),
		Face: face,
		Dot:  fixed.P(x+offset, baseline),
	}
	d.DrawString(text)
}
